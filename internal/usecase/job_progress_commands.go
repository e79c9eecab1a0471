package usecase

import (
	"context"
	"fmt"
	"strings"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
	"mecanica_jobs/internal/domain/projection"
)

const maxWorkSummaryLen = 2000

func (u *JobUseCase) MarkDeparted(ctx context.Context, actor entities.Actor, jobID string, in DepartInput) (projection.JobView, error) {
	out, err := u.command(ctx, "mark-departed", actor, jobID, func(ctx context.Context, t *tx) error {
		if err := requireRole(t.state.Contract, actor, entities.RoleMechanic, "mark departure"); err != nil {
			return err
		}
		if err := validateGeoPoint(in.Location); err != nil {
			return err
		}
		if in.EstimatedMinutes != nil && (*in.EstimatedMinutes < 0 || *in.EstimatedMinutes > 24*60) {
			return entities.NewValidationError("eta_minutes must be between 0 and 1440")
		}
		res, err := lifecycle.MarkDeparted(&t.state.Progress, t.state.Contract.Status, t.now, lifecycle.DepartureDetails{
			Location:         in.Location,
			EstimatedMinutes: in.EstimatedMinutes,
		})
		if err != nil {
			return err
		}
		t.applyProgress(res)
		if res.Changed {
			desc := "Your mechanic is on the way."
			if eta := t.state.Progress.EstimatedArrival; eta != nil {
				desc = fmt.Sprintf("Your mechanic is on the way, estimated arrival at %s.", eta.Format("15:04 MST"))
			}
			t.emit(entities.JobEvent{
				Type:         entities.EventMechanicDeparted,
				Title:        "Mechanic on the way",
				Description:  desc,
				NotifyUserID: t.state.Contract.CustomerID,
			})
		}
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

func (u *JobUseCase) MarkArrived(ctx context.Context, actor entities.Actor, jobID string, in ArriveInput) (projection.JobView, error) {
	out, err := u.command(ctx, "mark-arrived", actor, jobID, func(ctx context.Context, t *tx) error {
		if err := requireRole(t.state.Contract, actor, entities.RoleMechanic, "mark arrival"); err != nil {
			return err
		}
		if err := validateGeoPoint(in.Location); err != nil {
			return err
		}
		res, err := lifecycle.MarkArrived(&t.state.Progress, t.state.Contract.Status, t.now, in.Location)
		if err != nil {
			return err
		}
		t.applyProgress(res)
		if res.Changed {
			t.emit(entities.JobEvent{
				Type:         entities.EventMechanicArrived,
				Title:        "Mechanic has arrived",
				Description:  "Please confirm your mechanic's arrival so work can begin.",
				NotifyUserID: t.state.Contract.CustomerID,
			})
		}
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

func (u *JobUseCase) ConfirmArrival(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error) {
	out, err := u.command(ctx, "confirm-arrival", actor, jobID, func(ctx context.Context, t *tx) error {
		if err := requireRole(t.state.Contract, actor, entities.RoleCustomer, "confirm arrival"); err != nil {
			return err
		}
		res, err := lifecycle.ConfirmArrival(&t.state.Progress, t.state.Contract.Status, t.now)
		if err != nil {
			return err
		}
		t.applyProgress(res)
		if res.Changed {
			t.emit(entities.JobEvent{
				Type:         entities.EventCustomerConfirmedArrival,
				Title:        "Arrival confirmed",
				Description:  "The customer confirmed your arrival. Take before-photos and start the job.",
				NotifyUserID: t.state.Contract.MechanicID,
			})
		}
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

func (u *JobUseCase) StartWork(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error) {
	out, err := u.command(ctx, "start-work", actor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		if err := requireRole(c, actor, entities.RoleMechanic, "start work"); err != nil {
			return err
		}
		guards := lifecycle.StartWorkGuards{
			MechanicAcknowledged: t.state.HasAcknowledgement(c.MechanicID, entities.RoleMechanic),
		}
		if t.state.Progress.WorkStartedAt == nil && t.phase() == lifecycle.PhaseReadyToStart {
			n, err := u.countEvidence(ctx, c.JobID, entities.EvidenceBefore, c.MechanicID)
			if err != nil {
				return err
			}
			guards.BeforeEvidenceCount = n
		}
		res, err := lifecycle.StartWork(&t.state.Progress, c.Status, t.now, guards)
		if err != nil {
			return err
		}
		t.applyProgress(res)
		if res.Changed {
			t.emit(entities.JobEvent{
				Type:         entities.EventWorkStarted,
				Title:        "Work started",
				Description:  "Your mechanic has started working on your vehicle.",
				NotifyUserID: c.CustomerID,
			})
		}
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

func (u *JobUseCase) MarkComplete(ctx context.Context, actor entities.Actor, jobID string, in CompleteInput) (projection.JobView, error) {
	summary := strings.TrimSpace(in.WorkSummary)
	out, err := u.command(ctx, "mark-complete", actor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		if err := requireRole(c, actor, entities.RoleMechanic, "mark the job complete"); err != nil {
			return err
		}
		if len(summary) > maxWorkSummaryLen {
			return entities.NewValidationError("work_summary must be at most %d characters", maxWorkSummaryLen)
		}
		p := t.state.Progress
		guards := lifecycle.CompleteGuards{PendingLineItems: t.state.PendingItemCount()}
		if p.MechanicCompletedAt == nil && p.WorkStartedAt != nil && !t.phase().Terminal() && guards.PendingLineItems == 0 {
			n, err := u.countEvidence(ctx, c.JobID, entities.EvidenceAfter, c.MechanicID)
			if err != nil {
				return err
			}
			guards.AfterEvidenceCount = n
		}
		res, err := lifecycle.MarkComplete(&t.state.Progress, c.Status, t.now, guards, summary)
		if err != nil {
			return err
		}
		t.applyProgress(res)
		if res.Changed {
			t.emit(entities.JobEvent{
				Type:         entities.EventWorkCompletedMechanic,
				Title:        "Work completed",
				Description:  "Your mechanic marked the job complete. Please review and confirm.",
				NotifyUserID: c.CustomerID,
			})
		}
		if res.Finalized {
			t.emitFinalized()
		}
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

func (u *JobUseCase) ConfirmComplete(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error) {
	out, err := u.command(ctx, "confirm-complete", actor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		if err := requireRole(c, actor, entities.RoleCustomer, "confirm completion"); err != nil {
			return err
		}
		res, err := lifecycle.ConfirmComplete(&t.state.Progress, c.Status, t.now)
		if err != nil {
			return err
		}
		t.applyProgress(res)
		if res.Changed {
			t.emit(entities.JobEvent{
				Type:         entities.EventWorkCompletedCustomer,
				Title:        "Customer confirmed completion",
				Description:  "The customer confirmed the job is complete.",
				NotifyUserID: c.MechanicID,
			})
		}
		if res.Finalized {
			t.emitFinalized()
		}
		return nil
	})
	if err != nil {
		return projection.JobView{}, err
	}
	return projection.Build(out.state, actor.Role), nil
}

func (t *tx) emitFinalized() {
	payout := t.state.Contract.MechanicPayoutCents
	t.emit(entities.JobEvent{
		Type:         entities.EventJobFinalized,
		Title:        "Job completed",
		Description:  fmt.Sprintf("Both parties confirmed completion. Payout of %s released.", formatCents(payout)),
		AmountCents:  &payout,
		NotifyUserID: t.state.Contract.MechanicID,
	})
}

func (u *JobUseCase) countEvidence(ctx context.Context, jobID string, category entities.EvidenceCategory, actorID string) (int, error) {
	if u.evidence == nil {
		return 0, fmt.Errorf("evidence store not configured")
	}
	n, err := u.evidence.CountEvidence(ctx, jobID, category, actorID)
	if err != nil {
		return 0, fmt.Errorf("count %s evidence: %w", category, err)
	}
	return n, nil
}

func validateGeoPoint(g *entities.GeoPoint) error {
	if g == nil {
		return nil
	}
	if g.Lat < -90 || g.Lat > 90 || g.Lng < -180 || g.Lng > 180 {
		return entities.NewValidationError("coordinates out of range")
	}
	return nil
}

func formatCents(c int64) string {
	sign := ""
	if c < 0 {
		sign = "-"
		c = -c
	}
	return fmt.Sprintf("%s$%d.%02d", sign, c/100, c%100)
}
