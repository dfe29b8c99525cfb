package domain

import (
	"errors"
	"testing"
)

func TestReviewState_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    ReviewState
		to      ReviewState
		want    ReviewState
		wantErr error
	}{
		{name: "approve pending", from: ReviewPending, to: ReviewApproved, want: ReviewApproved},
		{name: "flag pending", from: ReviewPending, to: ReviewFlagged, want: ReviewFlagged},
		{name: "zero value counts as pending", from: "", to: ReviewFlagged, want: ReviewFlagged},
		{name: "approved is terminal", from: ReviewApproved, to: ReviewFlagged, want: ReviewApproved, wantErr: ErrReviewClosed},
		{name: "flagged is terminal", from: ReviewFlagged, to: ReviewApproved, want: ReviewFlagged, wantErr: ErrReviewClosed},
		{name: "back to pending rejected", from: ReviewPending, to: ReviewPending, want: ReviewPending, wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Transition() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Transition() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestReviewState_Acknowledgment(t *testing.T) {
	if ReviewPending.Acknowledgment() != "" {
		t.Fatalf("pending has no acknowledgment")
	}
	if ReviewApproved.Acknowledgment() != AckApproved {
		t.Fatalf("unexpected approve message: %s", ReviewApproved.Acknowledgment())
	}
	if ReviewFlagged.Acknowledgment() != AckFlagged {
		t.Fatalf("unexpected flag message: %s", ReviewFlagged.Acknowledgment())
	}
	if AckApproved == AckFlagged {
		t.Fatalf("acknowledgments must differ")
	}
}
