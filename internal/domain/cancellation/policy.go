// Package cancellation evaluates what a customer pays to cancel a job.
package cancellation

import (
	"strings"
	"time"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
)

type Policy struct {
	GracePeriod            time.Duration
	StandardFeeCents       int64
	WorkInProgressFeeCents int64
}

func DefaultPolicy() Policy {
	return Policy{
		GracePeriod:            5 * time.Minute,
		StandardFeeCents:       1500,
		WorkInProgressFeeCents: 2500,
	}
}

// Quote is the result of evaluating the policy at a point in time.
type Quote struct {
	Free     bool  `json:"free"`
	FeeCents int64 `json:"fee_cents"`
	// GraceEndsAt is set while the free window is still open.
	GraceEndsAt *time.Time `json:"grace_ends_at,omitempty"`
}

// Evaluate is a pure function of (accepted_at, now, phase). It prices the
// work_in_progress case even though cancelling from that phase is refused
// elsewhere.
func (p Policy) Evaluate(acceptedAt *time.Time, now time.Time, phase lifecycle.Phase) Quote {
	if acceptedAt == nil {
		return Quote{Free: true}
	}
	if now.Sub(*acceptedAt) <= p.GracePeriod {
		ends := acceptedAt.Add(p.GracePeriod)
		return Quote{Free: true, GraceEndsAt: &ends}
	}
	if phase == lifecycle.PhaseWorkInProgress {
		return Quote{FeeCents: p.WorkInProgressFeeCents}
	}
	return Quote{FeeCents: p.StandardFeeCents}
}

// ValidateReason checks the reason against the fixed list and returns the
// trimmed note. "other" requires a note.
func ValidateReason(raw, note string) (entities.CancellationReason, string, error) {
	reason, ok := entities.ParseCancellationReason(raw)
	if !ok {
		return "", "", entities.NewValidationError("unknown cancellation reason %q", raw)
	}
	note = strings.TrimSpace(note)
	if reason == entities.CancelOther && note == "" {
		return "", "", entities.NewValidationError("a note is required when the reason is other")
	}
	return reason, note, nil
}
