package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"
)

const (
	msgEncrypted      = "This PDF is password protected. Remove the password and upload it again."
	msgEmptyText      = "No text could be extracted from this PDF. Scanned documents without a text layer are not supported."
	msgUnreadable     = "The file could not be read as a PDF. It may be corrupt; try uploading it again."
	msgInterrupted    = "Text extraction was interrupted. Please try again."
	msgNoDocument     = "Upload a PDF specification first."
	msgNoExtraction   = "There is no extracted text to summarize. Upload a readable PDF first."
	msgNoResult       = "There is no summary to review yet."
	msgCompletionFail = "The summary could not be generated. Please try again."
)

// SummarizerService runs the four stages over a session record. Every stage
// returns the updated session, also when it fails, so the caller can store
// the user-facing error alongside the rest of the state.
type SummarizerService struct {
	extractor   domain.PageExtractor
	completer   domain.Completer
	scratch     domain.ScratchStore
	logger      domain.Logger
	model       string
	maxFileSize int64
	now         func() time.Time
}

// NewSummarizerService wires the stages. scratch may be nil to keep uploads in memory only.
func NewSummarizerService(
	extractor domain.PageExtractor,
	completer domain.Completer,
	scratch domain.ScratchStore,
	logger domain.Logger,
	model string,
	maxFileSize int64,
) *SummarizerService {
	return &SummarizerService{
		extractor:   extractor,
		completer:   completer,
		scratch:     scratch,
		logger:      logger,
		model:       model,
		maxFileSize: maxFileSize,
		now:         time.Now,
	}
}

// Upload makes file the session's current document, replacing the previous
// upload and everything derived from it.
func (s *SummarizerService) Upload(
	ctx context.Context,
	session *domain.Session,
	filename string,
	mediaType string,
	file io.Reader,
) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return session, apperrors.NewInternalError("Upload was interrupted.", err)
	}

	data, err := io.ReadAll(io.LimitReader(file, s.maxFileSize+1))
	if err != nil {
		return session, apperrors.NewValidationError("The upload could not be read.", err.Error())
	}
	if int64(len(data)) > s.maxFileSize {
		return session, apperrors.NewValidationError(
			fmt.Sprintf("File too large. Maximum size is %d MB.", s.maxFileSize/(1024*1024)),
			domain.ErrFileTooLarge.Error(),
		)
	}

	doc := &domain.UploadedDocument{
		Filename:   sanitizeFilename(filename),
		MediaType:  normalizeMediaType(mediaType),
		Data:       data,
		UploadedAt: s.now().UTC(),
	}
	if err := doc.Validate(); err != nil {
		return session, apperrors.NewValidationError("Only PDF files can be uploaded.", err.Error())
	}

	next := session.Clone()
	next.Document = doc
	next.Extraction = nil
	next.ExtractionError = ""
	next.Result = nil
	next.CompletionError = ""
	next.Review = domain.ReviewPending

	if s.scratch != nil {
		path, err := s.scratch.Write(next.ID, data)
		if err != nil {
			s.logger.Warn("Failed to write scratch copy", "session_id", next.ID, "error", err)
		} else {
			doc.ScratchPath = path
		}
	}

	s.logger.Info("Document uploaded", "session_id", next.ID, "filename", doc.Filename, "size", doc.Size())
	return next, nil
}

// Extract converts the current document into an ExtractionResult.
func (s *SummarizerService) Extract(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if !session.HasDocument() {
		return session, apperrors.NewPreconditionError(msgNoDocument, domain.ErrNoDocument)
	}

	next := session.Clone()
	next.Extraction = nil
	next.ExtractionError = ""

	start := s.now()
	pages, err := s.extractor.ExtractPages(ctx, next.Document.Data)
	if err == nil && isBlank(pages) {
		err = domain.ErrEmptyExtraction
	}
	if err != nil {
		appErr := extractionError(err)
		next.ExtractionError = appErr.Message
		s.logger.Error("PDF extraction failed", err, "session_id", next.ID, "extractor", s.extractor.Name())
		return next, appErr
	}

	next.Extraction = &domain.ExtractionResult{
		Text:        domain.JoinPages(pages),
		PageCount:   len(pages),
		Extractor:   s.extractor.Name(),
		ExtractedAt: s.now().UTC(),
	}
	s.logger.Info("PDF successfully parsed",
		"session_id", next.ID,
		"pages", len(pages),
		"chars", len(next.Extraction.Text),
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return next, nil
}

// Summarize sends the prompt for the current extraction and stores the raw
// completion text. A new run always resets the review to pending.
func (s *SummarizerService) Summarize(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	if !session.HasDocument() {
		return session, apperrors.NewPreconditionError(msgNoDocument, domain.ErrNoDocument)
	}
	if !session.HasExtraction() {
		return session, apperrors.NewPreconditionError(msgNoExtraction, domain.ErrNoExtraction)
	}

	next := session.Clone()
	next.Result = nil
	next.CompletionError = ""
	next.Review = domain.ReviewPending

	prompt := BuildPrompt(next.Extraction.Text)
	start := s.now()
	text, err := s.completer.Complete(ctx, SystemMessage, prompt, s.model)
	if err != nil {
		appErr, ok := apperrors.As(err)
		if !ok {
			appErr = apperrors.NewCompletionError(apperrors.CompletionService, msgCompletionFail, err)
		}
		next.CompletionError = appErr.Message
		s.logger.Error("Completion failed", err, "session_id", next.ID, "model", s.model, "kind", appErr.Kind)
		return next, appErr
	}

	result := &domain.SummaryResult{
		Text:      text,
		Model:     s.model,
		CreatedAt: s.now().UTC(),
	}
	if summary, err := domain.DecodeSummary(text); err == nil {
		result.Summary = summary
	} else {
		s.logger.Debug("Completion does not match the summary schema", "session_id", next.ID, "reason", err)
	}
	next.Result = result

	s.logger.Info("Spec summarized",
		"session_id", next.ID,
		"model", s.model,
		"prompt_chars", len(prompt),
		"schema_conforms", result.SchemaConforms(),
		"duration_ms", s.now().Sub(start).Milliseconds(),
	)
	return next, nil
}

// Approve records that the estimator accepted the summary.
func (s *SummarizerService) Approve(session *domain.Session) (*domain.Session, error) {
	return s.decide(session, domain.ReviewApproved)
}

// Flag records that the summary needs revision.
func (s *SummarizerService) Flag(session *domain.Session) (*domain.Session, error) {
	return s.decide(session, domain.ReviewFlagged)
}

func (s *SummarizerService) decide(session *domain.Session, to domain.ReviewState) (*domain.Session, error) {
	if !session.CanReview() {
		return session, apperrors.NewPreconditionError(msgNoResult, domain.ErrNoResult)
	}

	state, err := session.Review.Transition(to)
	if err != nil {
		if errors.Is(err, domain.ErrReviewClosed) {
			return session, apperrors.NewConflictError(
				fmt.Sprintf("This summary has already been %s.", session.Review), err)
		}
		return session, apperrors.NewInternalError("Unknown review action.", err)
	}

	next := session.Clone()
	next.Review = state
	s.logger.Info("Summary reviewed", "session_id", next.ID, "state", state)
	return next, nil
}

func extractionError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, domain.ErrEncryptedDocument):
		return apperrors.NewExtractionError(msgEncrypted, err)
	case errors.Is(err, domain.ErrEmptyExtraction):
		return apperrors.NewExtractionError(msgEmptyText, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apperrors.NewExtractionError(msgInterrupted, err)
	default:
		return apperrors.NewExtractionError(msgUnreadable, err)
	}
}

func isBlank(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return false
		}
	}
	return true
}

// sanitizeFilename strips any path components from a client-supplied name.
func sanitizeFilename(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// normalizeMediaType accepts the declared type, falling back to PDF when the
// client sent none or a generic binary type for a .pdf file.
func normalizeMediaType(mediaType string) string {
	clean := strings.ToLower(strings.TrimSpace(strings.Split(mediaType, ";")[0]))
	switch clean {
	case "", "application/octet-stream", "application/x-pdf":
		return domain.MediaTypePDF
	default:
		return clean
	}
}
