package domain

import "time"

// Session is the working state of one user's interaction. Each stage takes
// a session and returns the updated one.
type Session struct {
	ID string `json:"id"`

	Document        *UploadedDocument `json:"document,omitempty"`
	Extraction      *ExtractionResult `json:"-"`
	ExtractionError string            `json:"extraction_error,omitempty"`
	Result          *SummaryResult    `json:"result,omitempty"`
	CompletionError string            `json:"completion_error,omitempty"`
	Review          ReviewState       `json:"review"`

	// Flash is a one-shot message for the next page render.
	Flash string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
}

// NewSession returns an empty session.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Review:    ReviewPending,
		CreatedAt: now,
		LastSeen:  now,
	}
}

// Clone returns a copy whose top-level fields can be changed without
// touching the receiver. Document bytes are shared; they are never mutated.
func (s *Session) Clone() *Session {
	c := *s
	if s.Document != nil {
		d := *s.Document
		c.Document = &d
	}
	if s.Extraction != nil {
		e := *s.Extraction
		c.Extraction = &e
	}
	if s.Result != nil {
		r := *s.Result
		c.Result = &r
	}
	return &c
}

// HasDocument reports whether a file has been uploaded.
func (s *Session) HasDocument() bool {
	return s.Document != nil
}

// HasExtraction reports whether extraction succeeded for the current upload.
func (s *Session) HasExtraction() bool {
	return s.Extraction != nil
}

// CanReview reports whether there is a summary the user can approve or flag.
func (s *Session) CanReview() bool {
	return s.Result != nil
}

// Acknowledgment returns the status message for the current review state.
func (s *Session) Acknowledgment() string {
	return s.Review.Acknowledgment()
}
