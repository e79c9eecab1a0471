package response

import (
	"time"

	"mecanica_jobs/internal/domain/cancellation"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase"
)

type JobResponse struct {
	Success bool               `json:"success"`
	Job     projection.JobView `json:"job"`
}

func FromJobView(v projection.JobView) JobResponse {
	return JobResponse{Success: true, Job: v}
}

type OpenContractResponse struct {
	Success bool               `json:"success"`
	Created bool               `json:"created"`
	Job     projection.JobView `json:"job"`
}

type LineItemResponse struct {
	Success  bool                     `json:"success"`
	LineItem entities.InvoiceLineItem `json:"line_item"`
	Job      projection.JobView       `json:"job"`
}

// JobEventResponse is the timeline entry shown to clients. The notification
// recipient stays internal.
type JobEventResponse struct {
	ID          string    `json:"id"`
	EventType   string    `json:"event_type"`
	ActorID     string    `json:"actor_id,omitempty"`
	ActorRole   string    `json:"actor_role,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	AmountCents *int64    `json:"amount_cents,omitempty"`
	EntityType  string    `json:"entity_type,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type JobEventsResponse struct {
	Success bool               `json:"success"`
	Events  []JobEventResponse `json:"events"`
}

func FromJobEvents(events []entities.JobEvent) JobEventsResponse {
	out := make([]JobEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, JobEventResponse{
			ID:          ev.ID,
			EventType:   string(ev.Type),
			ActorID:     ev.ActorID,
			ActorRole:   string(ev.ActorRole),
			Title:       ev.Title,
			Description: ev.Description,
			AmountCents: ev.AmountCents,
			EntityType:  ev.EntityType,
			EntityID:    ev.EntityID,
			CreatedAt:   ev.CreatedAt,
		})
	}
	return JobEventsResponse{Success: true, Events: out}
}

type CancellationQuoteResponse struct {
	Success bool               `json:"success"`
	Quote   cancellation.Quote `json:"quote"`
}

type AcknowledgementResponse struct {
	Success         bool                     `json:"success"`
	Acknowledgement entities.Acknowledgement `json:"acknowledgement"`
}

type AcknowledgementStatusResponse struct {
	Success  bool   `json:"success"`
	UserID   string `json:"user_id,omitempty"`
	Role     string `json:"role"`
	Accepted bool   `json:"accepted"`
}

type SweepResponse struct {
	Success bool                `json:"success"`
	Result  usecase.SweepResult `json:"result"`
}
