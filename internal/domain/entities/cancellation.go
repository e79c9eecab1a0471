package entities

import (
	"strings"
	"time"
)

type CancellationReason string

const (
	CancelFoundOtherMechanic CancellationReason = "found_other_mechanic"
	CancelIssueResolved      CancellationReason = "issue_resolved"
	CancelWrongVehicle       CancellationReason = "wrong_vehicle"
	CancelTooExpensive       CancellationReason = "too_expensive"
	CancelScheduledConflict  CancellationReason = "scheduled_conflict"
	CancelOther              CancellationReason = "other"
)

var cancellationReasons = map[CancellationReason]string{
	CancelFoundOtherMechanic: "Found another mechanic",
	CancelIssueResolved:      "Issue resolved on its own",
	CancelWrongVehicle:       "Wrong vehicle selected",
	CancelTooExpensive:       "Quote is too expensive",
	CancelScheduledConflict:  "Schedule conflict",
	CancelOther:              "Other reason",
}

func ParseCancellationReason(s string) (CancellationReason, bool) {
	r := CancellationReason(strings.ToLower(strings.TrimSpace(s)))
	_, ok := cancellationReasons[r]
	return r, ok
}

func (r CancellationReason) Label() string {
	return cancellationReasons[r]
}

// CancellationRecord is written exactly once, in the same commit that moves the
// contract to cancelled.
type CancellationRecord struct {
	JobID       string             `json:"job_id"`
	Reason      CancellationReason `json:"reason"`
	Note        string             `json:"note,omitempty"`
	FeeCents    int64              `json:"fee_cents"`
	CancelledBy Role               `json:"cancelled_by"`
	CancelledAt time.Time          `json:"cancelled_at"`
}

// DisputeRecord marks a job as disputed. Resolution happens outside this service.
type DisputeRecord struct {
	JobID       string    `json:"job_id"`
	OpenedBy    Role      `json:"opened_by"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	OpenedAt    time.Time `json:"opened_at"`
}
