package config

import (
	"context"
	"fmt"

	"spec-summarizer/internal/domain"
	"spec-summarizer/internal/service"
	apperrors "spec-summarizer/pkg/errors"
	"spec-summarizer/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config     domain.Config
	Logger     domain.Logger
	Extractor  domain.PageExtractor
	Completer  domain.Completer
	Scratch    domain.ScratchStore
	Sessions   domain.SessionStore
	Summarizer domain.SummarizerService

	closers []func() error
}

// NewContainer loads configuration from the environment and wires the application.
func NewContainer(ctx context.Context) (*Container, error) {
	return NewContainerWithConfig(ctx, NewConfig())
}

// NewContainerWithConfig wires the application from cfg. A configuration
// problem is returned as an environment error before anything is started.
func NewContainerWithConfig(ctx context.Context, cfg domain.Config) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	appLogger := logger.NewLogger(cfg.GetLogLevel(), cfg.GetOpenAIAPIKey())
	c := &Container{
		Config: cfg,
		Logger: appLogger,
	}

	switch cfg.GetPDFExtractor() {
	case ExtractorNative:
		c.Extractor = service.NewNativeExtractor(appLogger)
	default:
		c.Extractor = service.NewFitzExtractor(appLogger)
	}

	switch cfg.GetCompletionProvider() {
	case ProviderVertex:
		vertex, err := service.NewVertexCompleter(ctx, cfg.GetGCPProjectID(), cfg.GetGCPLocation(), cfg.GetCompletionTimeout(), appLogger)
		if err != nil {
			return nil, apperrors.NewEnvironmentError("Vertex AI client could not be created", err.Error())
		}
		c.Completer = vertex
		c.closers = append(c.closers, vertex.Close)
	default:
		c.Completer = service.NewOpenAICompleter(cfg.GetOpenAIAPIKey(), cfg.GetOpenAIBaseURL(), cfg.GetCompletionTimeout(), appLogger)
	}

	if path := cfg.GetUploadPath(); path != "" {
		scratch, err := service.NewLocalScratchStore(path)
		if err != nil {
			c.Close()
			return nil, apperrors.NewEnvironmentError("Upload directory is not writable", err.Error())
		}
		c.Scratch = scratch
	}

	c.Sessions = service.NewMemorySessionStore(cfg.GetSessionIdleTimeout(), c.Scratch, appLogger)
	c.Summarizer = service.NewSummarizerService(
		c.Extractor,
		c.Completer,
		c.Scratch,
		appLogger,
		cfg.GetCompletionModel(),
		cfg.GetMaxFileSize(),
	)

	appLogger.Info("Container initialized",
		"provider", cfg.GetCompletionProvider(),
		"model", cfg.GetCompletionModel(),
		"extractor", c.Extractor.Name(),
		"scratch", cfg.GetUploadPath() != "",
	)
	return c, nil
}

// Close releases clients that hold connections.
func (c *Container) Close() error {
	var firstErr error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close dependency: %w", err)
		}
	}
	c.closers = nil
	return firstErr
}
