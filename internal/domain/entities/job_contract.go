package entities

import "time"

// ContractStatus is the stored status of a job contract.
//
// Domain notes:
//   - The stored status is a cached projection. The phase shown to clients is
//     always derived from JobProgress plus this status (see lifecycle.PhaseOf).
//   - Only the absorbing outcomes (completed, cancelled, disputed) are ever
//     written here after the contract is opened.
type ContractStatus string

const (
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
	ContractStatusCancelled ContractStatus = "cancelled"
	ContractStatusDisputed  ContractStatus = "disputed"
)

func (s ContractStatus) Terminal() bool {
	return s == ContractStatusCompleted || s == ContractStatusCancelled || s == ContractStatusDisputed
}

// JobContract is created when a customer accepts a mechanic's quote.
//
// Storage model (DynamoDB):
//   - PK: job_id
//   - version is incremented on every write and used as the per-job
//     serialization point (optimistic locking).
//
// Monetary representation:
//   - All amounts are integer cents.
//   - TotalCustomerCents == SubtotalCents + PlatformFeeCents - PromoDiscountCents
//   - MechanicPayoutCents == SubtotalCents - MechanicCommissionCents
type JobContract struct {
	JobID      string         `json:"job_id"`
	CustomerID string         `json:"customer_id"`
	MechanicID string         `json:"mechanic_id"`
	Status     ContractStatus `json:"status"`

	QuotedPriceCents        int64 `json:"quoted_price_cents"`
	SubtotalCents           int64 `json:"subtotal_cents"`
	PlatformFeeCents        int64 `json:"platform_fee_cents"`
	PromoDiscountCents      int64 `json:"promo_discount_cents"`
	TotalCustomerCents      int64 `json:"total_customer_cents"`
	MechanicCommissionCents int64 `json:"mechanic_commission_cents"`
	MechanicPayoutCents     int64 `json:"mechanic_payout_cents"`

	ScheduledStart *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd   *time.Time `json:"scheduled_end,omitempty"`

	PaymentReference  string     `json:"payment_reference,omitempty"`
	PaymentCapturedAt *time.Time `json:"payment_captured_at,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AcceptedAt is the moment the quote was accepted; the cancellation grace
// period counts from here.
func (c JobContract) AcceptedAt() *time.Time {
	if c.CreatedAt.IsZero() {
		return nil
	}
	t := c.CreatedAt
	return &t
}

// PartyRole reports which side of the contract userID is on.
func (c JobContract) PartyRole(userID string) (Role, bool) {
	switch {
	case userID == "":
		return "", false
	case userID == c.CustomerID:
		return RoleCustomer, true
	case userID == c.MechanicID:
		return RoleMechanic, true
	}
	return "", false
}

// CounterpartyID returns the user on the other side of role.
func (c JobContract) CounterpartyID(role Role) string {
	if role == RoleCustomer {
		return c.MechanicID
	}
	return c.CustomerID
}

// PartyID returns the user acting as role on this contract.
func (c JobContract) PartyID(role Role) string {
	switch role {
	case RoleCustomer:
		return c.CustomerID
	case RoleMechanic:
		return c.MechanicID
	}
	return ""
}
