package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"spec-summarizer/internal/config"
	"spec-summarizer/internal/domain"

	"github.com/spf13/cobra"
)

func newSummarizeCmd() *cobra.Command {
	var model string
	var review bool

	cmd := &cobra.Command{
		Use:   "summarize <file.pdf>",
		Short: "Extract a PDF and print the model's structured summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.NewAppConfig()
			if model != "" {
				cfg.CompletionModel = model
			}
			// The CLI keeps uploads in memory.
			cfg.UploadPath = ""

			container, err := config.NewContainerWithConfig(ctx, cfg)
			if err != nil {
				return err
			}
			defer container.Close()
			svc := container.Summarizer

			sess, err := loadDocument(ctx, svc, args[0])
			if err != nil {
				return err
			}
			if sess, err = svc.Extract(ctx, sess); err != nil {
				return err
			}
			if sess, err = svc.Summarize(ctx, sess); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, sess.Result.Text)
			if !review {
				return nil
			}

			decision, err := readDecision(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if decision == domain.ReviewApproved {
				sess, err = svc.Approve(sess)
			} else {
				sess, err = svc.Flag(sess)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(out, sess.Acknowledgment())
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "override COMPLETION_MODEL")
	cmd.Flags().BoolVar(&review, "review", false, "ask to approve or flag the summary")
	return cmd
}

// readDecision prompts on w until the answer read from r is approve or flag.
func readDecision(r io.Reader, w io.Writer) (domain.ReviewState, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "[a] Approve & Proceed  [f] Flag for Review: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.ErrUnexpectedEOF
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "a", "approve":
			return domain.ReviewApproved, nil
		case "f", "flag":
			return domain.ReviewFlagged, nil
		}
	}
}
