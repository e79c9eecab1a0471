package interfaces

import (
	"context"
	"encoding/json"
)

// ChargeRequest describes one charge against the customer's payment method on
// file.
type ChargeRequest struct {
	// ExternalReference ties the provider payment back to the job; it is also
	// used as the idempotency key.
	ExternalReference string
	Description       string
	AmountCents       int64
	PayerID           string
}

type ChargeResult struct {
	ProviderPaymentID string
	ProviderStatus    string
	ProviderResponse  json.RawMessage
}

// IPaymentGateway abstracts external payment providers (e.g. Mercado Pago).
//
// It is called after finalization to capture the customer total, and after a
// paid cancellation to charge the fee.
type IPaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
