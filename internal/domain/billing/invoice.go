package billing

import (
	"sort"

	"mecanica_jobs/internal/domain/entities"
)

// Invoice is the derived, never persisted view over a contract's line items.
type Invoice struct {
	ApprovedItems         []entities.InvoiceLineItem `json:"approved_items"`
	PendingItems          []entities.InvoiceLineItem `json:"pending_items"`
	RejectedItems         []entities.InvoiceLineItem `json:"rejected_items"`
	ApprovedSubtotalCents int64                      `json:"approved_subtotal_cents"`
	PendingSubtotalCents  int64                      `json:"pending_subtotal_cents"`
}

// BuildInvoice groups items by approval status. auto_rejected items are listed
// with the rejected ones. The mechanic's view omits platform_fee items.
func BuildInvoice(items []entities.InvoiceLineItem, viewer entities.Role) Invoice {
	sorted := make([]entities.InvoiceLineItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SortOrder != sorted[j].SortOrder {
			return sorted[i].SortOrder < sorted[j].SortOrder
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	inv := Invoice{
		ApprovedItems: []entities.InvoiceLineItem{},
		PendingItems:  []entities.InvoiceLineItem{},
		RejectedItems: []entities.InvoiceLineItem{},
	}
	for _, it := range sorted {
		if viewer == entities.RoleMechanic && !it.CustomerFacing() {
			continue
		}
		switch {
		case it.ApprovalStatus == entities.ApprovalApproved:
			inv.ApprovedItems = append(inv.ApprovedItems, it)
			if it.CustomerFacing() {
				inv.ApprovedSubtotalCents += it.TotalCents
			}
		case it.ApprovalStatus == entities.ApprovalPending:
			inv.PendingItems = append(inv.PendingItems, it)
			inv.PendingSubtotalCents += it.TotalCents
		case it.ApprovalStatus.IsRejection():
			inv.RejectedItems = append(inv.RejectedItems, it)
		}
	}
	return inv
}
