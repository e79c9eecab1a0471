package entities

import "time"

// Acknowledgement records that a party accepted the per-job disclosure text.
//
// Storage model (DynamoDB):
//   - PK: job_id
//   - SK: role#version
type Acknowledgement struct {
	ID         string    `json:"id"`
	JobID      string    `json:"job_id"`
	UserID     string    `json:"user_id"`
	Role       Role      `json:"role"`
	Version    string    `json:"version"`
	Text       string    `json:"text"`
	AcceptedAt time.Time `json:"accepted_at"`
}

func (a Acknowledgement) Key() string {
	return string(a.Role) + "#" + a.Version
}

// EvidenceCategory classifies photos attached to a job.
type EvidenceCategory string

const (
	EvidenceBefore EvidenceCategory = "before"
	EvidenceAfter  EvidenceCategory = "after"
)
