package handler

import (
	"errors"
	"html/template"
	"net/http"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"
)

// PageHandler serves the single-page form interface. Every action is a form
// POST that redirects back to the page.
type PageHandler struct {
	summarizer  domain.SummarizerService
	sessions    domain.SessionStore
	logger      domain.Logger
	maxFileSize int64
}

const msgSessionExpired = "Your session expired. Please upload the file again."

// NewPageHandler creates a new page handler
func NewPageHandler(summarizer domain.SummarizerService, sessions domain.SessionStore, logger domain.Logger, maxFileSize int64) *PageHandler {
	return &PageHandler{
		summarizer:  summarizer,
		sessions:    sessions,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// pageView is the template-friendly projection of a Session.
type pageView struct {
	Filename        string
	PageCount       int
	ShowRaw         bool
	Preview         string
	HasExtraction   bool
	ExtractionError string
	Result          string
	CompletionError string
	CanReview       bool
	Decided         bool
	Acknowledgment  string
	Flash           string
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="UTF-8"><meta name="viewport" content="width=device-width,initial-scale=1">
<title>Spec Summarizer</title>
<style>
body{font-family:system-ui,sans-serif;max-width:860px;margin:2rem auto;padding:0 1rem;color:#222;background:#fafafa}
h1{font-size:1.4rem;border-bottom:2px solid #e0e0e0;padding-bottom:.5rem}
section{background:#fff;border:1px solid #e0e0e0;border-radius:6px;padding:1rem;margin-bottom:1rem}
pre{white-space:pre-wrap;word-break:break-word;background:#f4f4f4;padding:.75rem;border-radius:4px;max-height:30rem;overflow:auto}
.error{color:#b00020}
.ok{color:#1b5e20}
.warn{color:#8a6d00}
form.inline{display:inline}
</style></head><body>
<h1>Spec Summarizer</h1>
{{- if .Flash}}
<p class="error">{{.Flash}}</p>
{{- end}}
<section>
<form method="post" action="/upload" enctype="multipart/form-data">
<label>Upload a specification PDF <input type="file" name="file" accept="application/pdf,.pdf"></label>
<button type="submit">Upload</button>
</form>
{{- if .Filename}}
<p>Current file: <strong>{{.Filename}}</strong>{{if .HasExtraction}} ({{.PageCount}} pages){{end}}</p>
{{- end}}
{{- if .ExtractionError}}
<p class="error">{{.ExtractionError}}</p>
{{- end}}
</section>
{{- if .HasExtraction}}
<section>
{{- if .ShowRaw}}
<p><a href="/">Hide raw extracted text</a></p>
<pre>{{.Preview}}</pre>
{{- else}}
<p><a href="/?raw=1">Show raw extracted text</a></p>
{{- end}}
<form method="post" action="/summarize">
<button type="submit">Summarize spec</button>
</form>
</section>
{{- end}}
{{- if .CompletionError}}
<section><p class="error">{{.CompletionError}}</p></section>
{{- end}}
{{- if .Result}}
<section>
<h2>Summary</h2>
<pre>{{.Result}}</pre>
{{- if and .CanReview (not .Decided)}}
<form class="inline" method="post" action="/approve"><button type="submit">Approve &amp; Proceed</button></form>
<form class="inline" method="post" action="/flag"><button type="submit">Flag for Review</button></form>
{{- end}}
{{- if .Acknowledgment}}
<p class="{{if .Decided}}ok{{end}}">{{.Acknowledgment}}</p>
{{- end}}
</section>
{{- end}}
</body></html>`))

// Index handles GET /.
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		http.Error(w, "session not found", http.StatusInternalServerError)
		return
	}

	view := pageView{
		ExtractionError: sess.ExtractionError,
		CompletionError: sess.CompletionError,
		CanReview:       sess.CanReview(),
		Decided:         sess.Review.Decided(),
		Acknowledgment:  sess.Acknowledgment(),
		Flash:           sess.Flash,
		ShowRaw:         r.URL.Query().Get("raw") == "1",
	}
	if sess.Flash != "" {
		shown := sess.Clone()
		shown.Flash = ""
		if err := h.sessions.Save(shown); err != nil {
			h.logger.Warn("Failed to clear flash", "session_id", sess.ID, "error", err)
		}
	} else if r.URL.Query().Get("expired") == "1" {
		view.Flash = msgSessionExpired
	}
	if sess.Document != nil {
		view.Filename = sess.Document.Filename
	}
	if sess.Extraction != nil {
		view.HasExtraction = true
		view.PageCount = sess.Extraction.PageCount
		if view.ShowRaw {
			view.Preview = sess.Extraction.Preview()
		}
	}
	if sess.Result != nil {
		view.Result = sess.Result.Text
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, view); err != nil {
		h.logger.Error("Failed to render page", err, "session_id", sess.ID)
	}
}

// Upload handles POST /upload. A form without a file is ignored.
func (h *PageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		http.Error(w, "session not found", http.StatusInternalServerError)
		return
	}

	upload, err := readUpload(w, r, h.maxFileSize)
	if err != nil {
		if errors.Is(err, errNoFile) {
			h.redirect(w, r, "/")
			return
		}
		h.flash(w, r, sess, apperrors.UserMessage(err))
		return
	}
	defer upload.Close()

	next, err := h.summarizer.Upload(r.Context(), sess, upload.filename, upload.mediaType, upload.file)
	if err != nil {
		h.flash(w, r, sess, apperrors.UserMessage(err))
		return
	}

	// Extraction failures are kept on the session and shown by Index.
	next, _ = h.summarizer.Extract(r.Context(), next)
	h.saveAndRedirect(w, r, next)
}

// Summarize handles POST /summarize.
func (h *PageHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		http.Error(w, "session not found", http.StatusInternalServerError)
		return
	}

	// Without an extraction the button is not shown; a stale form post is inert.
	if !sess.HasExtraction() {
		h.redirect(w, r, "/")
		return
	}

	next, _ := h.summarizer.Summarize(r.Context(), sess)
	h.saveAndRedirect(w, r, next)
}

// Approve handles POST /approve.
func (h *PageHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.summarizer.Approve)
}

// Flag handles POST /flag.
func (h *PageHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.summarizer.Flag)
}

func (h *PageHandler) review(w http.ResponseWriter, r *http.Request, action func(*domain.Session) (*domain.Session, error)) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		http.Error(w, "session not found", http.StatusInternalServerError)
		return
	}

	next, err := action(sess)
	switch {
	case err == nil:
		h.saveAndRedirect(w, r, next)
	case apperrors.IsType(err, apperrors.ErrorTypeConflict):
		h.flash(w, r, sess, apperrors.UserMessage(err))
	default:
		h.redirect(w, r, "/")
	}
}

// flash stores msg on the session; Index shows it once.
func (h *PageHandler) flash(w http.ResponseWriter, r *http.Request, sess *domain.Session, msg string) {
	next := sess.Clone()
	next.Flash = msg
	h.saveAndRedirect(w, r, next)
}

// saveAndRedirect stores sess and sends the browser back to the page. A
// session that expired mid-request cannot hold a flash, so the notice rides
// on the redirect instead.
func (h *PageHandler) saveAndRedirect(w http.ResponseWriter, r *http.Request, sess *domain.Session) {
	target := "/"
	if err := h.sessions.Save(sess); err != nil {
		h.logger.Error("Failed to save session", err, "session_id", sess.ID)
		target = "/?expired=1"
	}
	h.redirect(w, r, target)
}

func (h *PageHandler) redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
