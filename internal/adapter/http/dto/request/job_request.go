package request

import (
	"strings"
	"time"

	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase"
)

type GeoPointRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (g *GeoPointRequest) toEntity() *entities.GeoPoint {
	if g == nil {
		return nil
	}
	return &entities.GeoPoint{Lat: g.Lat, Lng: g.Lng}
}

// OpenContractRequest is sent by the quote service when a customer accepts a
// mechanic's quote.
type OpenContractRequest struct {
	JobID              string     `json:"job_id" binding:"required"`
	CustomerID         string     `json:"customer_id" binding:"required"`
	MechanicID         string     `json:"mechanic_id" binding:"required"`
	QuotedPriceCents   int64      `json:"quoted_price_cents" binding:"required"`
	PromoDiscountCents int64      `json:"promo_discount_cents"`
	ScheduledStart     *time.Time `json:"scheduled_start"`
	ScheduledEnd       *time.Time `json:"scheduled_end"`
}

func (r OpenContractRequest) ToInput() usecase.OpenContractInput {
	return usecase.OpenContractInput{
		JobID:              r.JobID,
		CustomerID:         r.CustomerID,
		MechanicID:         r.MechanicID,
		QuotedPriceCents:   r.QuotedPriceCents,
		PromoDiscountCents: r.PromoDiscountCents,
		ScheduledStart:     r.ScheduledStart,
		ScheduledEnd:       r.ScheduledEnd,
	}
}

type DepartRequest struct {
	Location   *GeoPointRequest `json:"location"`
	ETAMinutes *int             `json:"eta_minutes"`
}

func (r DepartRequest) ToInput() usecase.DepartInput {
	return usecase.DepartInput{Location: r.Location.toEntity(), EstimatedMinutes: r.ETAMinutes}
}

type ArriveRequest struct {
	Location *GeoPointRequest `json:"location"`
}

func (r ArriveRequest) ToInput() usecase.ArriveInput {
	return usecase.ArriveInput{Location: r.Location.toEntity()}
}

type CompleteRequest struct {
	WorkSummary string `json:"work_summary"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"required"`
	Note   string `json:"note"`
}

type DisputeRequest struct {
	Category    string `json:"category"`
	Description string `json:"description" binding:"required"`
}

type AcknowledgementRequest struct {
	Role    string `json:"role"`
	Version string `json:"version"`
	Text    string `json:"text"`
}

func (r AcknowledgementRequest) ToInput() usecase.AcknowledgementInput {
	return usecase.AcknowledgementInput{
		Role:    entities.Role(strings.ToLower(strings.TrimSpace(r.Role))),
		Version: r.Version,
		Text:    r.Text,
	}
}

type LineItemRequest struct {
	ItemType       string  `json:"item_type" binding:"required"`
	Description    string  `json:"description" binding:"required"`
	Quantity       float64 `json:"quantity"`
	UnitPriceCents int64   `json:"unit_price_cents" binding:"required"`
	Notes          string  `json:"notes"`
	PartNumber     string  `json:"part_number"`
	PartSource     string  `json:"part_source"`
}

// ToInput defaults a missing quantity to 1.
func (r LineItemRequest) ToInput() billing.NewLineItemInput {
	qty := r.Quantity
	if qty == 0 {
		qty = 1
	}
	return billing.NewLineItemInput{
		ItemType:       entities.LineItemType(strings.ToLower(strings.TrimSpace(r.ItemType))),
		Description:    r.Description,
		Quantity:       qty,
		UnitPriceCents: r.UnitPriceCents,
		Notes:          r.Notes,
		PartNumber:     r.PartNumber,
		PartSource:     r.PartSource,
	}
}

type RejectLineItemRequest struct {
	Reason string `json:"reason"`
}
