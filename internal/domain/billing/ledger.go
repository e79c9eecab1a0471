package billing

import (
	"math"
	"strings"
	"time"

	"mecanica_jobs/internal/domain/entities"
)

// DefaultMaxPendingItems is how many items may wait for approval on one job.
const DefaultMaxPendingItems = 20

// CheckPendingLimit refuses a new item while limit items are already pending.
func CheckPendingLimit(items []entities.InvoiceLineItem, limit int) error {
	if limit <= 0 {
		limit = DefaultMaxPendingItems
	}
	pending := 0
	for _, it := range items {
		if it.ApprovalStatus == entities.ApprovalPending {
			pending++
		}
	}
	if pending >= limit {
		return entities.NewPreconditionFailed("%d line items are waiting for approval; resolve them before adding more", pending)
	}
	return nil
}

// NewLineItemInput is what a mechanic submits for an invoice addition.
type NewLineItemInput struct {
	ItemType       entities.LineItemType
	Description    string
	Quantity       float64
	UnitPriceCents int64
	Notes          string
	PartNumber     string
	PartSource     string
}

// NewLineItem validates in and builds a pending item. platform_fee is reserved
// for the system. The line total must stay within r.MaxLineTotalCents.
func NewLineItem(id, jobID, addedBy string, in NewLineItemInput, r Rates, now time.Time, approvalWindow time.Duration, sortOrder int) (entities.InvoiceLineItem, error) {
	switch in.ItemType {
	case entities.LineItemAdditionalLabor, entities.LineItemParts, entities.LineItemDiagnostic:
	case entities.LineItemPlatformFee:
		return entities.InvoiceLineItem{}, entities.NewValidationError("platform_fee items are created by the system")
	default:
		return entities.InvoiceLineItem{}, entities.NewValidationError("unknown item_type %q", in.ItemType)
	}
	desc := strings.TrimSpace(in.Description)
	if desc == "" {
		return entities.InvoiceLineItem{}, entities.NewValidationError("description is required")
	}
	if math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) {
		return entities.InvoiceLineItem{}, entities.NewValidationError("quantity must be a finite number")
	}
	if in.Quantity <= 0 {
		return entities.InvoiceLineItem{}, entities.NewValidationError("quantity must be greater than zero")
	}
	if in.UnitPriceCents <= 0 {
		return entities.InvoiceLineItem{}, entities.NewValidationError("unit_price_cents must be greater than zero")
	}
	maxTotal := r.maxLineTotal()
	if in.Quantity*float64(in.UnitPriceCents) > float64(maxTotal) {
		return entities.InvoiceLineItem{}, entities.NewValidationError("line total must not exceed %d cents", maxTotal)
	}
	total := LineTotal(in.Quantity, in.UnitPriceCents)
	if total <= 0 {
		return entities.InvoiceLineItem{}, entities.NewValidationError("line total rounds to zero")
	}
	partNumber, partSource := strings.TrimSpace(in.PartNumber), strings.TrimSpace(in.PartSource)
	if in.ItemType != entities.LineItemParts && (partNumber != "" || partSource != "") {
		return entities.InvoiceLineItem{}, entities.NewValidationError("part_number and part_source are only allowed on parts")
	}

	item := entities.InvoiceLineItem{
		ID:             id,
		JobID:          jobID,
		ItemType:       in.ItemType,
		Description:    desc,
		Quantity:       in.Quantity,
		UnitPriceCents: in.UnitPriceCents,
		TotalCents:     total,
		ApprovalStatus: entities.ApprovalPending,
		Notes:          strings.TrimSpace(in.Notes),
		PartNumber:     partNumber,
		PartSource:     partSource,
		AddedBy:        addedBy,
		SortOrder:      sortOrder,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if approvalWindow > 0 {
		item.ApprovalDeadline = entities.TimePtr(now.Add(approvalWindow))
	}
	return item, nil
}

// NewPlatformFeeItem is the system line item created with the contract.
func NewPlatformFeeItem(id, jobID string, feeCents int64, now time.Time) entities.InvoiceLineItem {
	return entities.InvoiceLineItem{
		ID:             id,
		JobID:          jobID,
		ItemType:       entities.LineItemPlatformFee,
		Description:    "Platform fee",
		Quantity:       1,
		UnitPriceCents: feeCents,
		TotalCents:     feeCents,
		ApprovalStatus: entities.ApprovalApproved,
		AddedBy:        string(entities.RoleSystem),
		ResolvedAt:     entities.TimePtr(now),
		ResolvedBy:     string(entities.RoleSystem),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Resolve moves a pending item to a terminal status. A repeat of the same
// decision is reported as unchanged; a different decision on an already
// resolved item means another writer won the race.
func Resolve(item *entities.InvoiceLineItem, to entities.ApprovalStatus, by string, reason string, now time.Time) (bool, error) {
	if !to.Resolved() {
		return false, entities.NewValidationError("invalid target status %q", to)
	}
	if !item.CustomerFacing() {
		return false, entities.NewInvalidTransition("platform fee items are not subject to approval")
	}
	if item.ApprovalStatus.Resolved() {
		if item.ApprovalStatus == to || (to == entities.ApprovalRejected && item.ApprovalStatus == entities.ApprovalAutoRejected) {
			return false, nil
		}
		return false, entities.NewConcurrencyConflict("line item %s is already %s", item.ID, item.ApprovalStatus)
	}
	item.ApprovalStatus = to
	item.ResolvedAt = entities.TimePtr(now)
	item.ResolvedBy = by
	item.RejectionReason = strings.TrimSpace(reason)
	item.UpdatedAt = now
	return true, nil
}
