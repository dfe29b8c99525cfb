// Package handler provides the HTML page and JSON API over the summarizer.
package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"
)

// multipartOverhead is allowed on top of the file size for form boundaries and headers.
const multipartOverhead = 1 << 20

// APIHandler serves the JSON API.
type APIHandler struct {
	summarizer  domain.SummarizerService
	sessions    domain.SessionStore
	logger      domain.Logger
	maxFileSize int64
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(summarizer domain.SummarizerService, sessions domain.SessionStore, logger domain.Logger, maxFileSize int64) *APIHandler {
	return &APIHandler{
		summarizer:  summarizer,
		sessions:    sessions,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// Upload handles POST /api/v1/upload. The upload is extracted right away so
// the response already reports whether the PDF is readable.
func (h *APIHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Session not found in context")
		return
	}

	upload, err := readUpload(w, r, h.maxFileSize)
	if err != nil {
		writeAppError(w, err)
		return
	}
	defer upload.Close()

	sess, err = h.summarizer.Upload(r.Context(), sess, upload.filename, upload.mediaType, upload.file)
	if err != nil {
		h.logger.Warn("Upload rejected", "session_id", sess.ID, "error", err)
		writeAppError(w, err)
		return
	}

	sess, extractErr := h.summarizer.Extract(r.Context(), sess)
	if err := h.sessions.Save(sess); err != nil {
		h.logger.Error("Failed to save session", err, "session_id", sess.ID)
		writeError(w, http.StatusInternalServerError, "Session could not be saved")
		return
	}
	if extractErr != nil {
		writeAppError(w, extractErr)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionView(sess))
}

// GetSession handles GET /api/v1/session.
func (h *APIHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Session not found in context")
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

// GetExtraction handles GET /api/v1/extraction. With preview=true only the
// display preview is returned.
func (h *APIHandler) GetExtraction(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Session not found in context")
		return
	}
	if !sess.HasExtraction() {
		msg := "There is no extracted text yet. Upload a PDF first."
		if sess.ExtractionError != "" {
			msg = sess.ExtractionError
		}
		writeAppError(w, apperrors.NewPreconditionError(msg, domain.ErrNoExtraction))
		return
	}

	preview, _ := strconv.ParseBool(r.URL.Query().Get("preview"))
	text := sess.Extraction.Text
	if preview {
		text = sess.Extraction.Preview()
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"text":       text,
		"preview":    preview,
		"page_count": sess.Extraction.PageCount,
		"extractor":  sess.Extraction.Extractor,
	})
}

// Summarize handles POST /api/v1/summarize.
func (h *APIHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Session not found in context")
		return
	}

	next, runErr := h.summarizer.Summarize(r.Context(), sess)
	if apperrors.IsType(runErr, apperrors.ErrorTypePrecondition) {
		writeAppError(w, runErr)
		return
	}
	if err := h.sessions.Save(next); err != nil {
		h.logger.Error("Failed to save session", err, "session_id", next.ID)
		writeError(w, http.StatusInternalServerError, "Session could not be saved")
		return
	}
	if runErr != nil {
		writeAppError(w, runErr)
		return
	}

	writeJSON(w, http.StatusOK, newResultView(next.Result))
}

// Approve handles POST /api/v1/review/approve.
func (h *APIHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.summarizer.Approve)
}

// Flag handles POST /api/v1/review/flag.
func (h *APIHandler) Flag(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.summarizer.Flag)
}

func (h *APIHandler) review(w http.ResponseWriter, r *http.Request, action func(*domain.Session) (*domain.Session, error)) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Session not found in context")
		return
	}

	next, err := action(sess)
	if err != nil {
		writeAppError(w, err)
		return
	}
	if err := h.sessions.Save(next); err != nil {
		h.logger.Error("Failed to save session", err, "session_id", next.ID)
		writeError(w, http.StatusInternalServerError, "Session could not be saved")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"review":  string(next.Review),
		"message": next.Acknowledgment(),
	})
}

// DeleteSession handles DELETE /api/v1/session.
func (h *APIHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetSessionFromContext(r)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Session not found in context")
		return
	}

	if err := h.sessions.Delete(sess.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		h.logger.Error("Failed to delete session", err, "session_id", sess.ID)
		writeError(w, http.StatusInternalServerError, "Session could not be deleted")
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type uploadedFile struct {
	filename  string
	mediaType string
	file      multipart.File
}

func (u *uploadedFile) Close() error {
	return u.file.Close()
}

// errNoFile marks a form submitted without a file.
var errNoFile = apperrors.NewValidationError("No file uploaded.", "file: form field is required")

// readUpload returns the "file" part of a multipart request, bounded by maxFileSize.
func readUpload(w http.ResponseWriter, r *http.Request, maxFileSize int64) (*uploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("File too large. Maximum size is %d MB.", maxFileSize/(1024*1024)),
				domain.ErrFileTooLarge.Error(),
			)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, errNoFile
		}
		return nil, apperrors.NewValidationError("The upload could not be read.", err.Error())
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, errNoFile
		}
		return nil, apperrors.NewValidationError("The upload could not be read.", err.Error())
	}

	return &uploadedFile{
		filename:  header.Filename,
		mediaType: header.Header.Get("Content-Type"),
		file:      file,
	}, nil
}
