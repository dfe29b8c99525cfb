package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"spec-summarizer/internal/domain"
)

// buildTestPDF writes a minimal PDF with one line of Helvetica text per
// page. With encrypted set the trailer points at a standard security
// handler whose user password is not empty.
func buildTestPDF(t *testing.T, pages []string, encrypted bool) []byte {
	t.Helper()

	// 1 catalog, 2 page tree, 3 font, then a page and its content per page.
	var objects []string
	kids := make([]string, 0, len(pages))
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}
	objects = append(objects,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		escaped := strings.NewReplacer(`\`, `\\`, "(", `\(`, ")", `\)`).Replace(text)
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escaped)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		)
	}
	if encrypted {
		objects = append(objects, fmt.Sprintf(
			"<< /Filter /Standard /V 1 /R 2 /Length 40 /P -4 /O <%s> /U <%s> >>",
			strings.Repeat("ab", 32), strings.Repeat("cd", 32),
		))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	trailer := fmt.Sprintf("/Size %d /Root 1 0 R", len(objects)+1)
	if encrypted {
		id := strings.Repeat("0f", 16)
		trailer += fmt.Sprintf(" /Encrypt %d 0 R /ID [<%s> <%s>]", len(objects), id, id)
	}
	fmt.Fprintf(&buf, "trailer\n<< %s >>\nstartxref\n%d\n%%%%EOF\n", trailer, xref)
	return buf.Bytes()
}

func realExtractors() []domain.PageExtractor {
	logger := NewMockLogger()
	return []domain.PageExtractor{
		NewFitzExtractor(logger),
		NewNativeExtractor(logger),
	}
}

func TestExtractors_PagesInOrder(t *testing.T) {
	data := buildTestPDF(t, []string{"DIVISION 07", "Section 076200 Flashing"}, false)

	for _, e := range realExtractors() {
		t.Run(e.Name(), func(t *testing.T) {
			pages, err := e.ExtractPages(context.Background(), data)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			if len(pages) != 2 {
				t.Fatalf("expected 2 pages, got %d: %q", len(pages), pages)
			}
			// Backends differ only in surrounding whitespace.
			if got := strings.TrimSpace(pages[0]); got != "DIVISION 07" {
				t.Fatalf("unexpected page 1 text %q", pages[0])
			}
			if got := strings.TrimSpace(pages[1]); got != "Section 076200 Flashing" {
				t.Fatalf("unexpected page 2 text %q", pages[1])
			}

			joined := domain.JoinPages(pages)
			first := strings.Index(joined, "DIVISION 07")
			second := strings.Index(joined, "Section 076200 Flashing")
			if first < 0 || second < 0 || second < first {
				t.Fatalf("expected page 2 text after page 1 text, got %q", joined)
			}
		})
	}
}

func TestExtractors_Deterministic(t *testing.T) {
	data := buildTestPDF(t, []string{"PART 1 GENERAL", "PART 2 PRODUCTS", "PART 3 EXECUTION"}, false)

	for _, e := range realExtractors() {
		t.Run(e.Name(), func(t *testing.T) {
			first, err := e.ExtractPages(context.Background(), data)
			if err != nil {
				t.Fatalf("extract failed: %v", err)
			}
			second, err := e.ExtractPages(context.Background(), bytes.Clone(data))
			if err != nil {
				t.Fatalf("second extract failed: %v", err)
			}
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("expected identical results, got %q and %q", first, second)
			}
		})
	}
}

func TestExtractors_EncryptedDocument(t *testing.T) {
	data := buildTestPDF(t, []string{"CONFIDENTIAL"}, true)

	for _, e := range realExtractors() {
		t.Run(e.Name(), func(t *testing.T) {
			_, err := e.ExtractPages(context.Background(), data)
			if !errors.Is(err, domain.ErrEncryptedDocument) {
				t.Fatalf("expected ErrEncryptedDocument, got %v", err)
			}
		})
	}
}

func TestSummarizerService_ExtractWithNativeBackend(t *testing.T) {
	data := buildTestPDF(t, []string{"DIVISION 08", "Section 081113 Hollow Metal Doors"}, false)
	svc := NewSummarizerService(NewNativeExtractor(NewMockLogger()), &MockCompleter{}, nil, NewMockLogger(), testModel, 1<<20)

	sess := domain.NewSession("s1", time.Now())
	sess, err := svc.Upload(context.Background(), sess, "spec.pdf", "application/pdf", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	sess, err = svc.Extract(context.Background(), sess)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if sess.Extraction.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", sess.Extraction.PageCount)
	}
	text := sess.Extraction.Text
	if strings.Index(text, "DIVISION 08") > strings.Index(text, "Hollow Metal Doors") {
		t.Fatalf("expected pages in order, got %q", text)
	}
}

func TestNativeExtractor_InvalidBytes(t *testing.T) {
	e := NewNativeExtractor(NewMockLogger())

	_, err := e.ExtractPages(context.Background(), []byte("this is not a pdf"))
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestNativeExtractor_CancelledContext(t *testing.T) {
	e := NewNativeExtractor(NewMockLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.ExtractPages(ctx, []byte("%PDF-1.4"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFitzExtractor_InvalidBytes(t *testing.T) {
	e := NewFitzExtractor(NewMockLogger())

	_, err := e.ExtractPages(context.Background(), []byte("this is not a pdf"))
	if !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("expected ErrInvalidDocument, got %v", err)
	}
}

func TestExtractorNames(t *testing.T) {
	if NewFitzExtractor(NewMockLogger()).Name() != "fitz" {
		t.Fatalf("unexpected fitz extractor name")
	}
	if NewNativeExtractor(NewMockLogger()).Name() != "native" {
		t.Fatalf("unexpected native extractor name")
	}
}
