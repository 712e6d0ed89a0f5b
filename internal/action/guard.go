package action

import (
	"strings"
	"time"
)

// Transition is a candidate state change awaiting the guard check.
type Transition struct {
	// Prior is the stored item, or nil when the candidate is being created.
	Prior     *Item
	Candidate Item
	// CompletedAtSet is true when the caller supplied completedAt explicitly.
	CompletedAtSet bool
	Now            time.Time
}

// Guard checks the preconditions of the candidate's status and applies the
// completedAt side effects. Any status may follow any other; only the
// preconditions below can reject a change.
func Guard(t Transition) (Item, error) {
	next := t.Candidate.clone()

	switch next.Status {
	case StatusInProgress:
		if needsRollbackPlan(next) && strings.TrimSpace(next.ChangeControl.RollbackPlan) == "" {
			return Item{}, ErrRollbackPlanRequired
		}
	case StatusDone:
		if next.Verification.Required && !hasEvidence(next.Verification) {
			return Item{}, ErrVerificationRequired
		}
		entering := t.Prior == nil || t.Prior.Status != StatusDone
		if entering && !t.CompletedAtSet {
			next.CompletedAt = t.Now.UTC().Format(time.RFC3339Nano)
		}
	case StatusPlanned, StatusBlocked, StatusDeferred, StatusCancelled:
	}

	if p := t.Prior; p != nil && p.Status == StatusDone && next.Status != StatusDone {
		if next.CompletedAt == p.CompletedAt {
			next.CompletedAt = ""
		}
	}
	return next, nil
}

func needsRollbackPlan(it Item) bool {
	return it.Risk == RiskHigh || it.ChangeControl.Required
}

func hasEvidence(v Verification) bool {
	return v.Result != "" &&
		strings.TrimSpace(v.CheckedBy) != "" &&
		strings.TrimSpace(v.CheckedAt) != ""
}
