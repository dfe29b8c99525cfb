package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SummaryResult is the completion text returned for the current extraction.
// Text is shown to the user exactly as received.
type SummaryResult struct {
	Text      string       `json:"text"`
	Model     string       `json:"model"`
	Summary   *SpecSummary `json:"summary,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// SchemaConforms reports whether Text decoded into a SpecSummary.
func (r *SummaryResult) SchemaConforms() bool {
	return r.Summary != nil
}

// SpecSummary is the object shape the prompt asks the model to produce.
type SpecSummary struct {
	Division      string   `json:"Division"`
	Section       string   `json:"Section"`
	Title         string   `json:"Title"`
	Products      []string `json:"Products"`
	Performance   string   `json:"Performance"`
	Install       string   `json:"Install"`
	Warranty      string   `json:"Warranty"`
	Manufacturers []string `json:"Manufacturers"`
}

// Validate checks the CSI numbering fields.
func (s *SpecSummary) Validate() error {
	if !isDigits(s.Division, 2) {
		return &ValidationError{Field: "Division", Message: "must be a 2-digit CSI division"}
	}
	if !isDigits(s.Section, 6) {
		return &ValidationError{Field: "Section", Message: "must be a 6-digit CSI section"}
	}
	return nil
}

// DecodeSummary is a best-effort decode of completion text. Markdown code
// fences and text around the outermost object are ignored.
func DecodeSummary(text string) (*SpecSummary, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in completion")
	}

	var summary SpecSummary
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	if err := summary.Validate(); err != nil {
		return nil, err
	}
	return &summary, nil
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
