package usecase

import (
	"context"
	"fmt"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"
	"mecanica_jobs/pkg/logger"
)

const (
	paymentKindFinal        = "final"
	paymentKindCancellation = "cancellation"
)

// captureFinalPayment charges the customer total once both parties confirmed
// completion. The finalization claim guarantees this runs for one commit only.
func (u *JobUseCase) captureFinalPayment(ctx context.Context, s entities.JobState) {
	c := s.Contract
	if c.PaymentReference != "" || c.TotalCustomerCents <= 0 {
		return
	}
	u.charge(ctx, paymentKindFinal, c, interfaces.ChargeRequest{
		ExternalReference: fmt.Sprintf("job:%s:final", c.JobID),
		Description:       fmt.Sprintf("Mobile mechanic job %s", c.JobID),
		AmountCents:       c.TotalCustomerCents,
		PayerID:           c.CustomerID,
	})
}

func (u *JobUseCase) chargeCancellationFee(ctx context.Context, s entities.JobState, fee int64) {
	c := s.Contract
	u.charge(ctx, paymentKindCancellation, c, interfaces.ChargeRequest{
		ExternalReference: fmt.Sprintf("job:%s:cancellation", c.JobID),
		Description:       fmt.Sprintf("Cancellation fee for job %s", c.JobID),
		AmountCents:       fee,
		PayerID:           c.CustomerID,
	})
}

func (u *JobUseCase) charge(ctx context.Context, kind string, c entities.JobContract, req interfaces.ChargeRequest) {
	if u.gateway == nil {
		logger.Warn(ctx, "[job][payment] gateway not configured, charge skipped", "job_id", c.JobID, "kind", kind, "amount_cents", req.AmountCents)
		return
	}

	res, err := u.gateway.Charge(ctx, req)
	if err != nil {
		u.incPayment(kind, "failed")
		logger.Error(ctx, "[job][payment] charge failed", "job_id", c.JobID, "kind", kind, "reference", req.ExternalReference, "err", err)
		if rerr := u.recordPayment(ctx, c.JobID, kind, req.AmountCents, "", err); rerr != nil {
			logger.Error(ctx, "[job][payment] failed to record charge failure", "job_id", c.JobID, "err", rerr)
		}
		return
	}

	u.incPayment(kind, "captured")
	logger.Info(ctx, "[job][payment] charge captured", "job_id", c.JobID, "kind", kind, "payment_id", res.ProviderPaymentID, "status", res.ProviderStatus)
	if err := u.recordPayment(ctx, c.JobID, kind, req.AmountCents, res.ProviderPaymentID, nil); err != nil {
		logger.Error(ctx, "[job][payment] failed to record captured charge", "job_id", c.JobID, "payment_id", res.ProviderPaymentID, "err", err)
	}
}

// recordPayment stores the charge outcome on the job as its own versioned
// commit, so the outcome lands in the timeline and reaches the customer.
func (u *JobUseCase) recordPayment(ctx context.Context, jobID, kind string, amount int64, providerID string, chargeErr error) error {
	_, err := u.command(ctx, "record-payment", systemActor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		if chargeErr != nil {
			t.emit(entities.JobEvent{
				Type:         entities.EventPaymentFailed,
				Title:        "Payment failed",
				Description:  fmt.Sprintf("We could not charge %s for this job. Please update your payment method.", formatCents(amount)),
				AmountCents:  &amount,
				EntityType:   "payment",
				EntityID:     kind,
				NotifyUserID: c.CustomerID,
			})
			return nil
		}
		if c.PaymentReference == providerID {
			return nil
		}
		at := t.now
		t.state.Contract.PaymentReference = providerID
		t.state.Contract.PaymentCapturedAt = &at
		t.dirty = true

		title := "Payment received"
		if kind == paymentKindCancellation {
			title = "Cancellation fee charged"
		}
		t.emit(entities.JobEvent{
			Type:         entities.EventPaymentCaptured,
			Title:        title,
			Description:  fmt.Sprintf("%s was charged to your payment method.", formatCents(amount)),
			AmountCents:  &amount,
			EntityType:   "payment",
			EntityID:     providerID,
			NotifyUserID: c.CustomerID,
		})
		return nil
	})
	return err
}

func (u *JobUseCase) incPayment(kind, result string) {
	if u.metrics != nil {
		u.metrics.IncPayment(kind, result)
	}
}
