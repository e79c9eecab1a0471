// Package billing holds the invoice ledger rules: line item validation,
// commission and payout math, and the derived invoice view.
package billing

import (
	"math"

	"mecanica_jobs/internal/domain/entities"
)

// Rates are the platform's pricing constants.
type Rates struct {
	CommissionRate     float64
	CommissionCapCents int64
	PlatformFeeCents   int64
	// MaxLineTotalCents bounds round(quantity × unit price) of one line item.
	MaxLineTotalCents int64
}

// DefaultMaxLineTotalCents is R$100.000,00.
const DefaultMaxLineTotalCents int64 = 10_000_000

func DefaultRates() Rates {
	return Rates{
		CommissionRate:     0.12,
		CommissionCapCents: 5000,
		PlatformFeeCents:   1500,
		MaxLineTotalCents:  DefaultMaxLineTotalCents,
	}
}

func (r Rates) maxLineTotal() int64 {
	if r.MaxLineTotalCents <= 0 {
		return DefaultMaxLineTotalCents
	}
	return r.MaxLineTotalCents
}

// LineTotal is round(quantity × unit price), saturated to the int64 range.
func LineTotal(quantity float64, unitPriceCents int64) int64 {
	v := math.Round(quantity * float64(unitPriceCents))
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	}
	return int64(v)
}

// addCents adds two non-negative amounts, saturating at math.MaxInt64.
func addCents(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// Commission is the platform's cut of labor revenue: a rate applied to the
// labor subtotal only, capped.
func Commission(laborSubtotalCents int64, r Rates) int64 {
	if laborSubtotalCents <= 0 {
		return 0
	}
	c := int64(math.Round(r.CommissionRate * float64(laborSubtotalCents)))
	if c > r.CommissionCapCents {
		return r.CommissionCapCents
	}
	return c
}

// Totals are the contract amounts derived from the quote and the approved items.
type Totals struct {
	LaborSubtotalCents      int64
	SubtotalCents           int64
	MechanicCommissionCents int64
	MechanicPayoutCents     int64
	TotalCustomerCents      int64
}

// ComputeTotals derives every monetary field of the contract. The quoted price
// counts as base labor; approved additional_labor items extend the labor base;
// parts and diagnostics only extend the subtotal. platform_fee items never count.
func ComputeTotals(c entities.JobContract, items []entities.InvoiceLineItem, r Rates) Totals {
	labor := c.QuotedPriceCents
	subtotal := c.QuotedPriceCents
	for _, it := range items {
		if it.ApprovalStatus != entities.ApprovalApproved || !it.CustomerFacing() {
			continue
		}
		if it.TotalCents <= 0 {
			continue
		}
		subtotal = addCents(subtotal, it.TotalCents)
		if it.ItemType.IsLabor() {
			labor = addCents(labor, it.TotalCents)
		}
	}
	commission := Commission(labor, r)
	return Totals{
		LaborSubtotalCents:      labor,
		SubtotalCents:           subtotal,
		MechanicCommissionCents: commission,
		MechanicPayoutCents:     subtotal - commission,
		TotalCustomerCents:      addCents(subtotal, c.PlatformFeeCents) - c.PromoDiscountCents,
	}
}

// Recompute writes ComputeTotals into c. It must be called with the full set of
// line items read in the same snapshot as c.
func Recompute(c *entities.JobContract, items []entities.InvoiceLineItem, r Rates) {
	t := ComputeTotals(*c, items, r)
	c.SubtotalCents = t.SubtotalCents
	c.MechanicCommissionCents = t.MechanicCommissionCents
	c.MechanicPayoutCents = t.MechanicPayoutCents
	c.TotalCustomerCents = t.TotalCustomerCents
}
