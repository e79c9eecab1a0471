package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mecanica_jobs/internal/usecase/interfaces"
	"mecanica_jobs/pkg/logger"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

var ErrMissingMercadoPagoAccessToken = errors.New("missing MERCADOPAGO_ACCESS_TOKEN")
var ErrMercadoPagoGatewayNotConfigured = errors.New("mercado pago gateway not configured")

// paymentCreator is the slice of the SDK client the gateway uses.
type paymentCreator interface {
	Create(ctx context.Context, request payment.Request) (*payment.Response, error)
}

type MercadoPagoGateway struct {
	client   paymentCreator
	mockMode bool
}

var _ interfaces.IPaymentGateway = (*MercadoPagoGateway)(nil)

// NewMercadoPagoGateway builds the gateway. In mock mode every charge is
// approved locally and no token is needed.
func NewMercadoPagoGateway(accessToken string, mockMode bool) (*MercadoPagoGateway, error) {
	ctx := context.Background()
	if mockMode {
		logger.Info(ctx, "[payment][gateway] mock mode enabled")
		return &MercadoPagoGateway{mockMode: true}, nil
	}

	if accessToken == "" {
		logger.Error(ctx, "[payment][gateway] missing MERCADOPAGO_ACCESS_TOKEN")
		return nil, ErrMissingMercadoPagoAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		logger.Error(ctx, "[payment][gateway] failed creating sdk config", "err", err)
		return nil, err
	}
	logger.Info(ctx, "[payment][gateway] Mercado Pago client initialized")

	return &MercadoPagoGateway{client: payment.NewClient(cfg)}, nil
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, req interfaces.ChargeRequest) (interfaces.ChargeResult, error) {
	if req.AmountCents <= 0 {
		return interfaces.ChargeResult{}, fmt.Errorf("charge %s: amount must be positive", req.ExternalReference)
	}

	if g != nil && g.mockMode {
		id := strconv.FormatInt(time.Now().UTC().UnixNano(), 10)
		now := time.Now().UTC().Format(time.RFC3339Nano)
		b, err := json.Marshal(map[string]any{
			"id":                 id,
			"status":             "approved",
			"status_detail":      "accredited",
			"external_reference": req.ExternalReference,
			"transaction_amount": centsToAmount(req.AmountCents),
			"date_created":       now,
			"date_approved":      now,
		})
		if err != nil {
			return interfaces.ChargeResult{}, err
		}
		logger.Info(ctx, "[payment][gateway] mock charge approved", "provider_payment_id", id, "reference", req.ExternalReference)
		return interfaces.ChargeResult{ProviderPaymentID: id, ProviderStatus: "approved", ProviderResponse: b}, nil
	}

	if g == nil || g.client == nil {
		logger.Error(ctx, "[payment][gateway] gateway not configured")
		return interfaces.ChargeResult{}, ErrMercadoPagoGatewayNotConfigured
	}
	logger.Debug(ctx, "[payment][gateway] create start", "reference", req.ExternalReference, "amount_cents", req.AmountCents)

	resp, err := g.client.Create(ctx, buildPaymentRequest(req))
	if err != nil {
		logger.Error(ctx, "[payment][gateway] sdk create failed", "reference", req.ExternalReference, "err", err)
		return interfaces.ChargeResult{}, err
	}

	b, err := json.Marshal(resp)
	if err != nil {
		logger.Error(ctx, "[payment][gateway] response marshal failed", "err", err)
		return interfaces.ChargeResult{}, err
	}
	switch resp.Status {
	case "rejected", "cancelled":
		return interfaces.ChargeResult{}, fmt.Errorf("payment %d %s: %s", resp.ID, resp.Status, resp.StatusDetail)
	}
	logger.Info(ctx, "[payment][gateway] create success", "provider_payment_id", resp.ID, "provider_status", resp.Status)

	return interfaces.ChargeResult{
		ProviderPaymentID: fmt.Sprintf("%d", resp.ID),
		ProviderStatus:    resp.Status,
		ProviderResponse:  b,
	}, nil
}

func buildPaymentRequest(req interfaces.ChargeRequest) payment.Request {
	return payment.Request{
		TransactionAmount: centsToAmount(req.AmountCents),
		Description:       req.Description,
		ExternalReference: req.ExternalReference,
		Payer: &payment.PayerRequest{
			Type: "customer",
			ID:   req.PayerID,
		},
	}
}

func centsToAmount(cents int64) float64 {
	return float64(cents) / 100
}
