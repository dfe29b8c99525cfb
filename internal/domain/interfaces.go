package domain

import (
	"context"
	"io"
	"time"
)

// PageExtractor turns PDF bytes into per-page text, in page order.
type PageExtractor interface {
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
	Name() string
}

// Completer sends a system and a user message to a text completion service.
type Completer interface {
	Complete(ctx context.Context, systemMessage, userMessage, model string) (string, error)
}

// SessionStore keeps session state between interactions.
type SessionStore interface {
	Create() (*Session, error)
	Get(id string) (*Session, error)
	Save(session *Session) error
	Delete(id string) error
}

// ScratchStore holds a temporary on-disk copy of a session's current upload.
type ScratchStore interface {
	Write(sessionID string, data []byte) (string, error)
	Remove(sessionID string) error
}

// SummarizerService runs the upload, extraction, summarization and review stages.
type SummarizerService interface {
	Upload(ctx context.Context, session *Session, filename, mediaType string, file io.Reader) (*Session, error)
	Extract(ctx context.Context, session *Session) (*Session, error)
	Summarize(ctx context.Context, session *Session) (*Session, error)
	Approve(session *Session) (*Session, error)
	Flag(session *Session) (*Session, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetUploadPath() string
	GetMaxFileSize() int64
	GetLogLevel() string
	GetCompletionProvider() string
	GetCompletionModel() string
	GetCompletionTimeout() time.Duration
	GetOpenAIAPIKey() string
	GetOpenAIBaseURL() string
	GetGCPProjectID() string
	GetGCPLocation() string
	GetPDFExtractor() string
	GetSessionIdleTimeout() time.Duration
	GetAllowedOrigins() []string
	Validate() error
}
