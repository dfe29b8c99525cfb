package domain

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	// MediaTypePDF is the only media type accepted at upload.
	MediaTypePDF = "application/pdf"

	// PageSeparator joins per-page text in an ExtractionResult.
	PageSeparator = "\n\n"

	// PromptExcerptLimit is the number of characters of extracted text embedded in the prompt.
	PromptExcerptLimit = 8000

	// PreviewLimit is the number of characters shown by the raw text preview.
	PreviewLimit = 3000
)

// UploadedDocument is the file received from the user for the current session.
type UploadedDocument struct {
	Filename    string    `json:"filename"`
	MediaType   string    `json:"media_type"`
	Data        []byte    `json:"-"`
	// ScratchPath is the on-disk copy, if one was written. Stages read Data.
	ScratchPath string    `json:"-"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Size returns the document size in bytes.
func (d *UploadedDocument) Size() int64 {
	return int64(len(d.Data))
}

// Validate checks the declared metadata of an upload. It does not look at
// the PDF structure; that is left to extraction.
func (d *UploadedDocument) Validate() error {
	if strings.TrimSpace(d.Filename) == "" {
		return &ValidationError{Field: "filename", Message: "file name is required"}
	}
	if !strings.EqualFold(filepath.Ext(d.Filename), ".pdf") {
		return &ValidationError{Field: "filename", Message: "only .pdf files are accepted"}
	}
	if d.MediaType != MediaTypePDF {
		return &ValidationError{Field: "media_type", Message: "media type must be application/pdf"}
	}
	if len(d.Data) == 0 {
		return &ValidationError{Field: "data", Message: "file is empty"}
	}
	return nil
}

// ExtractionResult is the text of every page, joined in page order.
type ExtractionResult struct {
	Text        string    `json:"text"`
	PageCount   int       `json:"page_count"`
	Extractor   string    `json:"extractor"`
	ExtractedAt time.Time `json:"extracted_at"`
}

// Preview returns the display-only prefix of the extracted text.
func (r *ExtractionResult) Preview() string {
	return Truncate(r.Text, PreviewLimit)
}

// PromptExcerpt returns the prefix of the extracted text that goes into the prompt.
func (r *ExtractionResult) PromptExcerpt() string {
	return Truncate(r.Text, PromptExcerptLimit)
}

// Truncate returns at most the first n characters (runes) of s, unmodified.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// JoinPages joins per-page text in the given order with PageSeparator.
func JoinPages(pages []string) string {
	return strings.Join(pages, PageSeparator)
}
