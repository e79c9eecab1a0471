package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase/interfaces"
)

var ErrChangeFeedNotConfigured = errors.New("change feed not configured")

// OpenContract materializes the contract of an accepted quote. Opening a job
// id that already exists with the same parties returns the stored job and
// created=false.
func (u *JobUseCase) OpenContract(ctx context.Context, actor entities.Actor, in OpenContractInput) (projection.JobView, bool, error) {
	var (
		view    projection.JobView
		created bool
	)
	in.JobID = strings.TrimSpace(in.JobID)
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	in.MechanicID = strings.TrimSpace(in.MechanicID)

	err := u.observe(ctx, "open-contract", actor, in.JobID, func(ctx context.Context) error {
		if actor.Role != entities.RoleSystem {
			return entities.NewNotAuthorized("only the platform can open contracts")
		}
		if err := validateOpenContract(in, u.policy.Rates); err != nil {
			return err
		}

		now := u.now()
		state := newContractState(in, now, u.policy.Rates, u.newID())
		ev := entities.JobEvent{
			ID:           u.newID(),
			JobID:        in.JobID,
			Type:         entities.EventContractCreated,
			ActorID:      actor.UserID,
			ActorRole:    actor.Role,
			Title:        "New job confirmed",
			Description:  fmt.Sprintf("The customer accepted your quote of %s.", formatCents(in.QuotedPriceCents)),
			NotifyUserID: in.MechanicID,
			CreatedAt:    now,
		}

		err := u.repo.CreateContract(ctx, state, []entities.JobEvent{ev})
		if errors.Is(err, interfaces.ErrJobAlreadyExists) {
			existing, err := u.repo.GetState(ctx, in.JobID)
			if err != nil {
				return fmt.Errorf("load job %s: %w", in.JobID, err)
			}
			if existing.Contract.CustomerID != in.CustomerID || existing.Contract.MechanicID != in.MechanicID {
				return entities.NewValidationError("job %s already exists for different parties", in.JobID)
			}
			view = projection.Build(existing, entities.RoleSystem)
			return nil
		}
		if err != nil {
			return fmt.Errorf("create job %s: %w", in.JobID, err)
		}

		created = true
		view = projection.Build(state, entities.RoleSystem)
		u.afterCommit(ctx, outcome{state: state, change: &entities.JobChange{JobID: in.JobID, Events: []entities.JobEvent{ev}}})
		return nil
	})
	return view, created, err
}

func validateOpenContract(in OpenContractInput, rates billing.Rates) error {
	switch {
	case in.JobID == "":
		return entities.NewValidationError("job_id is required")
	case in.CustomerID == "" || in.MechanicID == "":
		return entities.NewValidationError("customer_id and mechanic_id are required")
	case in.CustomerID == in.MechanicID:
		return entities.NewValidationError("customer and mechanic must be different users")
	case in.QuotedPriceCents <= 0:
		return entities.NewValidationError("quoted_price_cents must be greater than zero")
	case in.PromoDiscountCents < 0:
		return entities.NewValidationError("promo_discount_cents must not be negative")
	case in.PromoDiscountCents > in.QuotedPriceCents+rates.PlatformFeeCents:
		return entities.NewValidationError("promo_discount_cents exceeds the job total")
	case in.ScheduledStart != nil && in.ScheduledEnd != nil && in.ScheduledEnd.Before(*in.ScheduledStart):
		return entities.NewValidationError("scheduled_end must not be before scheduled_start")
	}
	return nil
}

func newContractState(in OpenContractInput, now time.Time, rates billing.Rates, feeItemID string) entities.JobState {
	contract := entities.JobContract{
		JobID:              in.JobID,
		CustomerID:         in.CustomerID,
		MechanicID:         in.MechanicID,
		Status:             entities.ContractStatusActive,
		QuotedPriceCents:   in.QuotedPriceCents,
		PlatformFeeCents:   rates.PlatformFeeCents,
		PromoDiscountCents: in.PromoDiscountCents,
		ScheduledStart:     in.ScheduledStart,
		ScheduledEnd:       in.ScheduledEnd,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	items := []entities.InvoiceLineItem{billing.NewPlatformFeeItem(feeItemID, in.JobID, rates.PlatformFeeCents, now)}
	billing.Recompute(&contract, items, rates)
	return entities.JobState{
		Contract:         contract,
		Progress:         entities.JobProgress{JobID: in.JobID, CreatedAt: now},
		LineItems:        items,
		Acknowledgements: []entities.Acknowledgement{},
	}
}

func (u *JobUseCase) GetJobView(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error) {
	var view projection.JobView
	err := u.observe(ctx, "get-job", actor, jobID, func(ctx context.Context) error {
		state, role, err := u.load(ctx, actor, jobID)
		if err != nil {
			return err
		}
		view = projection.Build(state, role)
		return nil
	})
	return view, err
}

func (u *JobUseCase) ListEvents(ctx context.Context, actor entities.Actor, jobID string) ([]entities.JobEvent, error) {
	var events []entities.JobEvent
	err := u.observe(ctx, "list-events", actor, jobID, func(ctx context.Context) error {
		if _, _, err := u.load(ctx, actor, jobID); err != nil {
			return err
		}
		var err error
		events, err = u.repo.ListEvents(ctx, jobID)
		if err != nil {
			return fmt.Errorf("list events of job %s: %w", jobID, err)
		}
		return nil
	})
	return events, err
}

// SubscribeChanges authorizes the actor and opens a change-feed subscription
// for the job.
func (u *JobUseCase) SubscribeChanges(ctx context.Context, actor entities.Actor, jobID string) (<-chan projection.Change, func(), error) {
	var (
		ch     <-chan projection.Change
		cancel func()
	)
	err := u.observe(ctx, "subscribe-changes", actor, jobID, func(octx context.Context) error {
		if u.feed == nil {
			return ErrChangeFeedNotConfigured
		}
		if _, _, err := u.load(octx, actor, jobID); err != nil {
			return err
		}
		var err error
		ch, cancel, err = u.feed.Subscribe(ctx, jobID)
		return err
	})
	return ch, cancel, err
}
