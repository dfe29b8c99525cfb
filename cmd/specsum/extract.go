package main

import (
	"fmt"

	"spec-summarizer/internal/config"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var preview bool
	var extractor string

	cmd := &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Print the text extracted from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewAppConfig()
			if extractor != "" {
				cfg.PDFExtractor = extractor
			}
			svc := newExtractOnlyService(cfg)

			sess, err := loadDocument(cmd.Context(), svc, args[0])
			if err != nil {
				return err
			}
			sess, err = svc.Extract(cmd.Context(), sess)
			if err != nil {
				return err
			}

			text := sess.Extraction.Text
			if preview {
				text = sess.Extraction.Preview()
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "print only the first 3000 characters")
	cmd.Flags().StringVar(&extractor, "extractor", "", "override PDF_EXTRACTOR (fitz or native)")
	return cmd
}
