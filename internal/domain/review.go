package domain

// ReviewState is the estimator's decision on the current summary.
type ReviewState string

const (
	ReviewPending  ReviewState = "pending"
	ReviewApproved ReviewState = "approved"
	ReviewFlagged  ReviewState = "flagged"
)

const (
	AckApproved = "Summary approved. Ready for Agent 2: Product Matcher."
	AckFlagged  = "This section has been flagged. Please revise before continuing."
)

// Transition moves a pending review to a decision. Decisions are terminal
// until a new summary resets the state to pending.
func (s ReviewState) Transition(to ReviewState) (ReviewState, error) {
	if to != ReviewApproved && to != ReviewFlagged {
		return s, ErrInvalidTransition
	}
	if s != ReviewPending && s != "" {
		return s, ErrReviewClosed
	}
	return to, nil
}

// Acknowledgment is the one-line message shown for a decided state.
func (s ReviewState) Acknowledgment() string {
	switch s {
	case ReviewApproved:
		return AckApproved
	case ReviewFlagged:
		return AckFlagged
	default:
		return ""
	}
}

// Decided reports whether the review reached a terminal state.
func (s ReviewState) Decided() bool {
	return s == ReviewApproved || s == ReviewFlagged
}
