package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"spec-summarizer/internal/domain"
	apperrors "spec-summarizer/pkg/errors"
)

const (
	ProviderOpenAI = "openai"
	ProviderVertex = "vertex"

	ExtractorFitz   = "fitz"
	ExtractorNative = "native"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort         string
	UploadPath         string
	MaxFileSize        int64
	LogLevel           string
	CompletionProvider string
	CompletionModel    string
	CompletionTimeout  time.Duration
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	GCPProjectID       string
	GCPLocation        string
	PDFExtractor       string
	SessionIdleTimeout time.Duration
	AllowedOrigins     []string
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return NewAppConfig()
}

// NewAppConfig reads the environment into a concrete AppConfig that callers
// such as the CLI can adjust before validation.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:         getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		UploadPath:         getEnvAllowEmpty("UPLOAD_PATH", filepath.Join(os.TempDir(), "spec-summarizer")),
		MaxFileSize:        getEnvInt64OrDefault("MAX_FILE_SIZE", 50*1024*1024), // 50MB default
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
		CompletionProvider: strings.ToLower(getEnvOrDefault("COMPLETION_PROVIDER", ProviderOpenAI)),
		CompletionModel:    getEnvOrDefault("COMPLETION_MODEL", "gpt-4"),
		CompletionTimeout:  time.Duration(getEnvInt64OrDefault("COMPLETION_TIMEOUT_SECONDS", 120)) * time.Second,
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", ""),
		OpenAIBaseURL:      getEnvOrDefault("OPENAI_BASE_URL", ""),
		GCPProjectID:       getEnvOrDefault("GCP_PROJECT_ID", ""),
		GCPLocation:        getEnvOrDefault("GCP_LOCATION", "us-central1"),
		PDFExtractor:       strings.ToLower(getEnvOrDefault("PDF_EXTRACTOR", ExtractorFitz)),
		SessionIdleTimeout: time.Duration(getEnvInt64OrDefault("SESSION_IDLE_MINUTES", 60)) * time.Minute,
		AllowedOrigins: getEnvListOrDefault("CORS_ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetUploadPath returns the scratch directory for uploads. Empty disables scratch copies.
func (c *AppConfig) GetUploadPath() string {
	return c.UploadPath
}

// GetMaxFileSize returns the maximum allowed file size
func (c *AppConfig) GetMaxFileSize() int64 {
	return c.MaxFileSize
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

func (c *AppConfig) GetCompletionProvider() string {
	return c.CompletionProvider
}

func (c *AppConfig) GetCompletionModel() string {
	return c.CompletionModel
}

// GetCompletionTimeout bounds each completion call at the HTTP client level.
func (c *AppConfig) GetCompletionTimeout() time.Duration {
	return c.CompletionTimeout
}

func (c *AppConfig) GetOpenAIAPIKey() string {
	return c.OpenAIAPIKey
}

func (c *AppConfig) GetOpenAIBaseURL() string {
	return c.OpenAIBaseURL
}

func (c *AppConfig) GetGCPProjectID() string {
	return c.GCPProjectID
}

func (c *AppConfig) GetGCPLocation() string {
	return c.GCPLocation
}

func (c *AppConfig) GetPDFExtractor() string {
	return c.PDFExtractor
}

func (c *AppConfig) GetSessionIdleTimeout() time.Duration {
	return c.SessionIdleTimeout
}

func (c *AppConfig) GetAllowedOrigins() []string {
	return c.AllowedOrigins
}

// Validate reports configuration the program cannot start with.
func (c *AppConfig) Validate() error {
	switch c.CompletionProvider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return apperrors.NewEnvironmentError("OPENAI_API_KEY is required", "set it in the environment or a .env file")
		}
	case ProviderVertex:
		if strings.TrimSpace(c.GCPProjectID) == "" {
			return apperrors.NewEnvironmentError("GCP_PROJECT_ID is required for the vertex provider")
		}
	default:
		return apperrors.NewEnvironmentError("unknown COMPLETION_PROVIDER", c.CompletionProvider)
	}
	if strings.TrimSpace(c.CompletionModel) == "" {
		return apperrors.NewEnvironmentError("COMPLETION_MODEL must not be empty")
	}
	switch c.PDFExtractor {
	case ExtractorFitz, ExtractorNative:
	default:
		return apperrors.NewEnvironmentError("unknown PDF_EXTRACTOR", c.PDFExtractor)
	}
	if c.MaxFileSize <= 0 {
		return apperrors.NewEnvironmentError("MAX_FILE_SIZE must be positive")
	}
	if c.CompletionTimeout <= 0 {
		return apperrors.NewEnvironmentError("COMPLETION_TIMEOUT_SECONDS must be positive")
	}
	if c.SessionIdleTimeout <= 0 {
		return apperrors.NewEnvironmentError("SESSION_IDLE_MINUTES must be positive")
	}
	return nil
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty distinguishes an unset variable from one set to "".
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
