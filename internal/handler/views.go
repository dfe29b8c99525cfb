package handler

import (
	"time"

	"spec-summarizer/internal/domain"
)

type documentView struct {
	Filename   string    `json:"filename"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type extractionView struct {
	PageCount  int    `json:"page_count"`
	Characters int    `json:"characters"`
	Extractor  string `json:"extractor"`
}

type resultView struct {
	Text           string              `json:"text"`
	Model          string              `json:"model"`
	SchemaConforms bool                `json:"schema_conforms"`
	Summary        *domain.SpecSummary `json:"summary,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
}

// sessionView is the API projection of a Session. Document bytes and the
// full extracted text are left out; the text has its own endpoint.
type sessionView struct {
	ID              string          `json:"id"`
	Document        *documentView   `json:"document,omitempty"`
	Extraction      *extractionView `json:"extraction,omitempty"`
	ExtractionError string          `json:"extraction_error,omitempty"`
	Result          *resultView     `json:"result,omitempty"`
	CompletionError string          `json:"completion_error,omitempty"`
	Review          string          `json:"review"`
	CanReview       bool            `json:"can_review"`
	Message         string          `json:"message,omitempty"`
}

func newSessionView(s *domain.Session) sessionView {
	v := sessionView{
		ID:              s.ID,
		ExtractionError: s.ExtractionError,
		CompletionError: s.CompletionError,
		Review:          string(s.Review),
		CanReview:       s.CanReview(),
		Message:         s.Acknowledgment(),
	}
	if s.Document != nil {
		v.Document = &documentView{
			Filename:   s.Document.Filename,
			Size:       s.Document.Size(),
			UploadedAt: s.Document.UploadedAt,
		}
	}
	if s.Extraction != nil {
		v.Extraction = &extractionView{
			PageCount:  s.Extraction.PageCount,
			Characters: len([]rune(s.Extraction.Text)),
			Extractor:  s.Extraction.Extractor,
		}
	}
	if s.Result != nil {
		v.Result = newResultView(s.Result)
	}
	return v
}

func newResultView(r *domain.SummaryResult) *resultView {
	return &resultView{
		Text:           r.Text,
		Model:          r.Model,
		SchemaConforms: r.SchemaConforms(),
		Summary:        r.Summary,
		CreatedAt:      r.CreatedAt,
	}
}
