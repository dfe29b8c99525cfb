package service

import (
	_ "embed"
	"strings"

	"spec-summarizer/internal/domain"
)

// SystemMessage sets the assistant persona for every summarization call.
const SystemMessage = "You are a construction estimator bot."

const specContentMarker = "{{SPEC_CONTENT}}"

//go:embed prompts/spec_summary.txt
var specSummaryTemplate string

var promptHead, promptTail = splitTemplate(specSummaryTemplate)

func splitTemplate(tmpl string) (string, string) {
	head, tail, found := strings.Cut(tmpl, specContentMarker)
	if !found {
		panic("prompt template is missing " + specContentMarker)
	}
	return head, tail
}

// BuildPrompt returns the user message for a summarization call. The first
// PromptExcerptLimit characters of text are embedded verbatim; nothing else
// varies between calls.
func BuildPrompt(text string) string {
	excerpt := domain.Truncate(text, domain.PromptExcerptLimit)
	var b strings.Builder
	b.Grow(len(promptHead) + len(excerpt) + len(promptTail))
	b.WriteString(promptHead)
	b.WriteString(excerpt)
	b.WriteString(promptTail)
	return b.String()
}
