package usecase

import (
	"context"
	"fmt"
	"strings"

	"mecanica_jobs/internal/domain/cancellation"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
	"mecanica_jobs/internal/domain/projection"
)

const maxDisputeDescriptionLen = 4000

// CancelJob cancels a job that has not started yet. Only a customer
// cancellation after the grace period carries a fee; repeating the call on an
// already cancelled job succeeds without effect.
func (u *JobUseCase) CancelJob(ctx context.Context, actor entities.Actor, jobID string, in CancelInput) (projection.JobView, error) {
	out, err := u.command(ctx, "cancel-job", actor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		role, err := requireParty(c, actor)
		if err != nil {
			return err
		}
		if c.Status == entities.ContractStatusCancelled && t.state.Cancellation != nil {
			return nil
		}
		reason, note, err := cancellation.ValidateReason(in.Reason, in.Note)
		if err != nil {
			return err
		}
		if err := lifecycle.CanCancel(t.state.Progress, c.Status); err != nil {
			return err
		}

		var fee int64
		if role == entities.RoleCustomer {
			fee = u.policy.Cancellation.Evaluate(c.AcceptedAt(), t.now, t.phase()).FeeCents
		}
		rec := entities.CancellationRecord{
			JobID:       c.JobID,
			Reason:      reason,
			Note:        note,
			FeeCents:    fee,
			CancelledBy: role,
			CancelledAt: t.now,
		}
		t.state.Contract.Status = entities.ContractStatusCancelled
		t.state.Cancellation = &rec
		t.change.Cancellation = &rec
		t.cancellationFee = fee

		desc := fmt.Sprintf("The %s cancelled the job: %s.", role, reason.Label())
		if note != "" {
			desc += " " + note
		}
		t.emit(entities.JobEvent{
			Type:         entities.EventCancelled,
			Title:        "Job cancelled",
			Description:  desc,
			AmountCents:  &fee,
			NotifyUserID: c.CounterpartyID(role),
		})
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

// CancellationQuote previews what CancelJob would charge the caller right now.
func (u *JobUseCase) CancellationQuote(ctx context.Context, actor entities.Actor, jobID string) (cancellation.Quote, error) {
	var q cancellation.Quote
	err := u.observe(ctx, "cancellation-quote", actor, jobID, func(ctx context.Context) error {
		state, _, err := u.load(ctx, actor, jobID)
		if err != nil {
			return err
		}
		role, err := requireParty(state.Contract, actor)
		if err != nil {
			return err
		}
		if err := lifecycle.CanCancel(state.Progress, state.Contract.Status); err != nil {
			return err
		}
		if role != entities.RoleCustomer {
			q = cancellation.Quote{Free: true}
			return nil
		}
		phase := lifecycle.PhaseOf(state.Progress, state.Contract.Status)
		q = u.policy.Cancellation.Evaluate(state.Contract.AcceptedAt(), u.now(), phase)
		return nil
	})
	return q, err
}

// OpenDispute marks a job disputed. It is the only exit once work started and
// is absorbing; resolution happens outside this service.
func (u *JobUseCase) OpenDispute(ctx context.Context, actor entities.Actor, jobID string, in DisputeInput) (projection.JobView, error) {
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = "other"
	}
	description := strings.TrimSpace(in.Description)

	out, err := u.command(ctx, "open-dispute", actor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		role, err := requireParty(c, actor)
		if err != nil {
			return err
		}
		if c.Status == entities.ContractStatusDisputed && t.state.Dispute != nil {
			return nil
		}
		if description == "" {
			return entities.NewValidationError("description is required")
		}
		if len(description) > maxDisputeDescriptionLen {
			return entities.NewValidationError("description must be at most %d characters", maxDisputeDescriptionLen)
		}
		if err := lifecycle.CanDispute(t.state.Progress, c.Status); err != nil {
			return err
		}
		rec := entities.DisputeRecord{
			JobID:       c.JobID,
			OpenedBy:    role,
			Category:    category,
			Description: description,
			OpenedAt:    t.now,
		}
		t.state.Contract.Status = entities.ContractStatusDisputed
		t.state.Dispute = &rec
		t.change.Dispute = &rec
		t.emit(entities.JobEvent{
			Type:         entities.EventDisputeOpened,
			Title:        "Dispute opened",
			Description:  fmt.Sprintf("The %s opened a dispute (%s). Our support team will reach out.", role, category),
			NotifyUserID: c.CounterpartyID(role),
		})
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}
