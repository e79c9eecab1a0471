package entities

import "time"

type JobEventType string

const (
	EventContractCreated          JobEventType = "contract_created"
	EventMechanicDeparted         JobEventType = "mechanic_departed"
	EventMechanicArrived          JobEventType = "mechanic_arrived"
	EventCustomerConfirmedArrival JobEventType = "customer_confirmed_arrival"
	EventAcknowledgementAccepted  JobEventType = "acknowledgement_accepted"
	EventWorkStarted              JobEventType = "work_started"
	EventLineItemAdded            JobEventType = "line_item_added"
	EventLineItemApproved         JobEventType = "line_item_approved"
	EventLineItemRejected         JobEventType = "line_item_rejected"
	EventWorkCompletedMechanic    JobEventType = "work_completed_mechanic"
	EventWorkCompletedCustomer    JobEventType = "work_completed_customer"
	EventJobFinalized             JobEventType = "job_finalized"
	EventPaymentCaptured          JobEventType = "payment_captured"
	EventPaymentFailed            JobEventType = "payment_failed"
	EventCancelled                JobEventType = "cancelled"
	EventDisputeOpened            JobEventType = "dispute_opened"
)

// JobEvent is an entry of the job timeline. Events are written in the same
// commit as the state change they describe and double as the notification
// outbox: when NotifyUserID is set, the event is delivered to that user after
// the commit succeeds.
type JobEvent struct {
	ID          string       `json:"id"`
	JobID       string       `json:"job_id"`
	Type        JobEventType `json:"event_type"`
	ActorID     string       `json:"actor_id,omitempty"`
	ActorRole   Role         `json:"actor_role,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	AmountCents *int64       `json:"amount_cents,omitempty"`
	EntityType  string       `json:"entity_type,omitempty"`
	EntityID    string       `json:"entity_id,omitempty"`

	NotifyUserID string `json:"notify_user_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// Notification is what the notification sink receives.
type Notification struct {
	UserID     string `json:"user_id"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Type       string `json:"type"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
}

// Notification builds the outbound message for an event with a recipient.
func (e JobEvent) Notification() (Notification, bool) {
	if e.NotifyUserID == "" {
		return Notification{}, false
	}
	entityType, entityID := e.EntityType, e.EntityID
	if entityType == "" {
		entityType, entityID = "job", e.JobID
	}
	return Notification{
		UserID:     e.NotifyUserID,
		Title:      e.Title,
		Body:       e.Description,
		Type:       string(e.Type),
		EntityType: entityType,
		EntityID:   entityID,
	}, true
}
