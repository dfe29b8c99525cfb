package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"spec-summarizer/internal/domain"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// FitzExtractor extracts page text with MuPDF through go-fitz.
type FitzExtractor struct {
	logger domain.Logger
}

// NewFitzExtractor creates a MuPDF-backed extractor
func NewFitzExtractor(logger domain.Logger) *FitzExtractor {
	return &FitzExtractor{logger: logger}
}

func (e *FitzExtractor) Name() string { return "fitz" }

// ExtractPages returns the text of every page in page order. Any page that
// fails aborts the whole extraction; a partial document is never returned.
func (e *FitzExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		// go-fitz hands back a half-open document with its context allocated.
		if doc != nil && !errors.Is(err, fitz.ErrCreateContext) {
			doc.Close()
		}
		if errors.Is(err, fitz.ErrNeedsPassword) {
			return nil, fmt.Errorf("%w: %v", domain.ErrEncryptedDocument, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}
	closeDoc := true
	defer func() {
		if closeDoc {
			doc.Close()
		}
	}()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)

	type pageResult struct {
		text string
		err  error
	}

	for pageNum := 0; pageNum < numPages; pageNum++ {
		e.logger.Debug("PDF processing page", "page", pageNum+1, "total", numPages)

		// MuPDF calls are not interruptible, so run them aside and stop
		// waiting if the request goes away.
		resultCh := make(chan pageResult, 1)
		go func(idx int) {
			t, err := doc.Text(idx)
			resultCh <- pageResult{text: t, err: err}
		}(pageNum)

		select {
		case res := <-resultCh:
			if res.err != nil {
				return nil, fmt.Errorf("%w: page %d: %v", domain.ErrInvalidDocument, pageNum+1, res.err)
			}
			pages = append(pages, res.text)
		case <-ctx.Done():
			// The pending page must finish before the document is closed.
			closeDoc = false
			go func() {
				<-resultCh
				doc.Close()
			}()
			return nil, ctx.Err()
		}
	}

	return pages, nil
}

// NativeExtractor extracts page text with the pure-Go ledongthuc/pdf reader.
// It needs no native library, at the cost of weaker layout handling.
type NativeExtractor struct {
	logger domain.Logger
}

func NewNativeExtractor(logger domain.Logger) *NativeExtractor {
	return &NativeExtractor{logger: logger}
}

func (e *NativeExtractor) Name() string { return "native" }

func (e *NativeExtractor) ExtractPages(ctx context.Context, data []byte) (pages []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: %v", domain.ErrInvalidDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		if errors.Is(err, pdf.ErrInvalidPassword) {
			return nil, fmt.Errorf("%w: %v", domain.ErrEncryptedDocument, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDocument, err)
	}

	numPages := reader.NumPage()
	pages = make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", domain.ErrInvalidDocument, i, err)
		}
		pages = append(pages, text)
	}
	e.logger.Debug("PDF pages extracted", "extractor", e.Name(), "pages", numPages)
	return pages, nil
}
