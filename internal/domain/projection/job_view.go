// Package projection builds the read-only job view consumed by presentation
// layers and pushed on the change feed.
package projection

import (
	"time"

	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
)

type AcknowledgementStatus struct {
	Customer bool `json:"customer"`
	Mechanic bool `json:"mechanic"`
}

// JobView is recomputed on every read; nothing in it is stored.
type JobView struct {
	JobID            string                       `json:"job_id"`
	Phase            lifecycle.Phase              `json:"phase"`
	PhaseLabel       string                       `json:"phase_label"`
	PhaseIndex       int                          `json:"phase_index"`
	Version          int64                        `json:"version"`
	Contract         entities.JobContract         `json:"contract"`
	Progress         entities.JobProgress         `json:"progress"`
	Invoice          billing.Invoice              `json:"invoice"`
	PendingApproval  bool                         `json:"pending_approval"`
	Cancellation     *entities.CancellationRecord `json:"cancellation,omitempty"`
	Dispute          *entities.DisputeRecord      `json:"dispute,omitempty"`
	Acknowledgements AcknowledgementStatus        `json:"acknowledgements"`
}

// Build derives the view of s for viewer. The mechanic's invoice omits
// platform fee items and the contract hides the customer-side fee breakdown.
func Build(s entities.JobState, viewer entities.Role) JobView {
	phase := lifecycle.PhaseOf(s.Progress, s.Contract.Status)
	contract := s.Contract
	if viewer == entities.RoleMechanic {
		contract.PlatformFeeCents = 0
		contract.PromoDiscountCents = 0
		contract.TotalCustomerCents = 0
		contract.PaymentReference = ""
	}
	return JobView{
		JobID:           s.Contract.JobID,
		Phase:           phase,
		PhaseLabel:      phase.Label(),
		PhaseIndex:      phase.Index(),
		Version:         s.Contract.Version,
		Contract:        contract,
		Progress:        s.Progress.Clone(),
		Invoice:         billing.BuildInvoice(s.LineItems, viewer),
		PendingApproval: s.PendingItemCount() > 0,
		Cancellation:    s.Cancellation,
		Dispute:         s.Dispute,
		Acknowledgements: AcknowledgementStatus{
			Customer: s.HasAcknowledgement(s.Contract.CustomerID, entities.RoleCustomer),
			Mechanic: s.HasAcknowledgement(s.Contract.MechanicID, entities.RoleMechanic),
		},
	}
}

// Change announces that a job moved to a new version. Subscribers re-read the
// view for their own role.
type Change struct {
	JobID      string          `json:"job_id"`
	Version    int64           `json:"version"`
	Phase      lifecycle.Phase `json:"phase"`
	OccurredAt time.Time       `json:"occurred_at"`
}

func ChangeOf(s entities.JobState, at time.Time) Change {
	return Change{
		JobID:      s.Contract.JobID,
		Version:    s.Contract.Version,
		Phase:      lifecycle.PhaseOf(s.Progress, s.Contract.Status),
		OccurredAt: at,
	}
}
