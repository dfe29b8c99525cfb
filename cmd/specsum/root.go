package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"spec-summarizer/internal/config"
	"spec-summarizer/internal/domain"
	"spec-summarizer/internal/service"
	"spec-summarizer/pkg/logger"

	"github.com/spf13/cobra"
)

var nowFunc = time.Now

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "specsum",
		Short: "Summarize construction specification PDFs from the command line",
		Long: `specsum runs the same stages as the web interface without a browser:
extract the text of a specification PDF, summarize it with the configured
completion model, and optionally approve or flag the result.

Configuration is read from the environment and an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newExtractCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	return rootCmd
}

// loadDocument runs the upload stage on a local file.
func loadDocument(ctx context.Context, svc domain.SummarizerService, path string) (*domain.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sess := domain.NewSession("cli", nowFunc())
	return svc.Upload(ctx, sess, filepath.Base(path), domain.MediaTypePDF, f)
}

// newExtractOnlyService builds a summarizer able to run upload and
// extraction without completion credentials.
func newExtractOnlyService(cfg *config.AppConfig) *service.SummarizerService {
	appLogger := logger.NewLogger(cfg.GetLogLevel())
	var extractor domain.PageExtractor
	if cfg.GetPDFExtractor() == config.ExtractorNative {
		extractor = service.NewNativeExtractor(appLogger)
	} else {
		extractor = service.NewFitzExtractor(appLogger)
	}
	return service.NewSummarizerService(extractor, nil, nil, appLogger, cfg.GetCompletionModel(), cfg.GetMaxFileSize())
}
