package entities

import (
	"strings"
	"time"
)

type LineItemType string

const (
	LineItemAdditionalLabor LineItemType = "additional_labor"
	LineItemParts           LineItemType = "parts"
	LineItemDiagnostic      LineItemType = "diagnostic"
	LineItemPlatformFee     LineItemType = "platform_fee"
)

func ParseLineItemType(s string) (LineItemType, bool) {
	switch t := LineItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case LineItemAdditionalLabor, LineItemParts, LineItemDiagnostic, LineItemPlatformFee:
		return t, true
	}
	return "", false
}

// IsLabor reports whether the item counts toward the commission base.
func (t LineItemType) IsLabor() bool {
	return t == LineItemAdditionalLabor
}

type ApprovalStatus string

const (
	ApprovalPending      ApprovalStatus = "pending"
	ApprovalApproved     ApprovalStatus = "approved"
	ApprovalRejected     ApprovalStatus = "rejected"
	ApprovalAutoRejected ApprovalStatus = "auto_rejected"
)

// Resolved reports whether the status is terminal.
func (s ApprovalStatus) Resolved() bool {
	return s != ApprovalPending
}

// IsRejection treats auto_rejected the same as rejected.
func (s ApprovalStatus) IsRejection() bool {
	return s == ApprovalRejected || s == ApprovalAutoRejected
}

// InvoiceLineItem is a billable addition to a contract beyond the original quote.
//
// Storage model (DynamoDB):
//   - PK: id
//   - GSI1 (job_id-index): job_id
//   - GSI2 (approval_status-index): approval_status, approval_deadline (sweep)
//
// Lifecycle: created pending by the mechanic, resolved once by the customer
// (approved/rejected) or by the sweep (auto_rejected). platform_fee items are
// created by the system already approved.
type InvoiceLineItem struct {
	ID             string         `json:"id"`
	JobID          string         `json:"job_id"`
	ItemType       LineItemType   `json:"item_type"`
	Description    string         `json:"description"`
	Quantity       float64        `json:"quantity"`
	UnitPriceCents int64          `json:"unit_price_cents"`
	TotalCents     int64          `json:"total_cents"`
	ApprovalStatus ApprovalStatus `json:"approval_status"`
	Notes          string         `json:"notes,omitempty"`
	PartNumber     string         `json:"part_number,omitempty"`
	PartSource     string         `json:"part_source,omitempty"`

	AddedBy          string     `json:"added_by"`
	ApprovalDeadline *time.Time `json:"approval_deadline,omitempty"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy       string     `json:"resolved_by,omitempty"`
	RejectionReason  string     `json:"rejection_reason,omitempty"`
	SortOrder        int        `json:"sort_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CustomerFacing is false for system items that never go through approval.
func (i InvoiceLineItem) CustomerFacing() bool {
	return i.ItemType != LineItemPlatformFee
}
