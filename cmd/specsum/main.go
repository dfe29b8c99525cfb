package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	apperrors "spec-summarizer/pkg/errors"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		appErr, ok := apperrors.As(err)
		switch {
		case !ok:
			fmt.Fprintln(os.Stderr, "error:", err)
		case appErr.Type == apperrors.ErrorTypeEnvironment:
			fmt.Fprintln(os.Stderr, "configuration error:", appErr)
		default:
			fmt.Fprintln(os.Stderr, "error:", appErr.Message)
		}
		stop()
		os.Exit(1)
	}
}
