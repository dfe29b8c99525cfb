package domain

import "errors"

// Domain errors
var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrNoDocument           = errors.New("no document uploaded")
	ErrNoExtraction         = errors.New("no extracted text available")
	ErrNoResult             = errors.New("no summary to review")
	ErrReviewClosed         = errors.New("review already decided")
	ErrInvalidTransition    = errors.New("invalid review transition")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
	ErrInvalidDocument      = errors.New("document could not be parsed")
	ErrEncryptedDocument    = errors.New("document is password protected")
	ErrEmptyExtraction      = errors.New("no extractable text")
	ErrEmptyCompletion      = errors.New("empty completion")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
