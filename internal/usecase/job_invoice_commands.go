package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/pkg/logger"

	"golang.org/x/sync/errgroup"
)

func (u *JobUseCase) AddLineItem(ctx context.Context, actor entities.Actor, jobID string, in billing.NewLineItemInput) (entities.InvoiceLineItem, projection.JobView, error) {
	var added entities.InvoiceLineItem
	out, err := u.command(ctx, "add-line-item", actor, jobID, func(ctx context.Context, t *tx) error {
		c := t.state.Contract
		if err := requireRole(c, actor, entities.RoleMechanic, "add line items"); err != nil {
			return err
		}
		if err := lifecycle.CanAddLineItem(t.state.Progress, c.Status); err != nil {
			return err
		}
		if err := billing.CheckPendingLimit(t.state.LineItems, u.policy.MaxPendingLineItems); err != nil {
			return err
		}
		item, err := billing.NewLineItem(u.newID(), c.JobID, actor.UserID, in, u.policy.Rates, t.now, u.policy.ApprovalWindow, nextSortOrder(t.state.LineItems))
		if err != nil {
			return err
		}
		t.putLineItem(item, "")
		amount := item.TotalCents
		t.emit(entities.JobEvent{
			Type:         entities.EventLineItemAdded,
			Title:        "Approval needed",
			Description:  fmt.Sprintf("Your mechanic added %s (%s). Please approve or reject it.", item.Description, formatCents(item.TotalCents)),
			AmountCents:  &amount,
			EntityType:   "line_item",
			EntityID:     item.ID,
			NotifyUserID: c.CustomerID,
		})
		added = item
		return nil
	})
	if err != nil {
		return entities.InvoiceLineItem{}, projection.JobView{}, err
	}
	return added, projection.Build(out.state, actor.Role), nil
}

func (u *JobUseCase) ApproveLineItem(ctx context.Context, actor entities.Actor, itemID string) (projection.JobView, error) {
	return u.resolveLineItem(ctx, "approve-line-item", actor, itemID, entities.ApprovalApproved, "")
}

func (u *JobUseCase) RejectLineItem(ctx context.Context, actor entities.Actor, itemID string, reason string) (projection.JobView, error) {
	return u.resolveLineItem(ctx, "reject-line-item", actor, itemID, entities.ApprovalRejected, reason)
}

// resolveLineItem moves one item out of pending. Approvals recompute the
// contract totals from the full item set read in the same snapshot; the
// version check on commit turns a concurrent approval of a sibling item into
// a retry instead of a lost update.
func (u *JobUseCase) resolveLineItem(ctx context.Context, name string, actor entities.Actor, itemID string, to entities.ApprovalStatus, reason string) (projection.JobView, error) {
	var view projection.JobView
	itemID = strings.TrimSpace(itemID)
	err := u.observe(ctx, name, actor, "", func(ctx context.Context) error {
		if itemID == "" {
			return entities.NewValidationError("item id is required")
		}
		jobID, err := u.repo.FindJobIDByLineItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("find line item %s: %w", itemID, err)
		}
		if jobID == "" {
			return entities.NewNotFound("line item %s not found", itemID)
		}
		out, err := u.execute(ctx, name, actor, jobID, func(ctx context.Context, t *tx) error {
			if err := requireRole(t.state.Contract, actor, entities.RoleCustomer, "approve or reject line items"); err != nil {
				return err
			}
			item, ok := t.state.LineItem(itemID)
			if !ok {
				return entities.NewNotFound("line item %s not found", itemID)
			}
			if item.ApprovalStatus == entities.ApprovalPending {
				if phase := t.phase(); phase.Terminal() {
					return entities.NewInvalidTransition("cannot resolve line items: job is %s", phase)
				}
			}
			changed, err := billing.Resolve(&item, to, actor.UserID, reason, t.now)
			if err != nil || !changed {
				return err
			}
			t.putLineItem(item, entities.ApprovalPending)

			amount := item.TotalCents
			ev := entities.JobEvent{
				AmountCents:  &amount,
				EntityType:   "line_item",
				EntityID:     item.ID,
				NotifyUserID: t.state.Contract.MechanicID,
			}
			if to == entities.ApprovalApproved {
				billing.Recompute(&t.state.Contract, t.state.LineItems, u.policy.Rates)
				ev.Type = entities.EventLineItemApproved
				ev.Title = "Line item approved"
				ev.Description = fmt.Sprintf("The customer approved %s (%s).", item.Description, formatCents(item.TotalCents))
			} else {
				ev.Type = entities.EventLineItemRejected
				ev.Title = "Line item rejected"
				ev.Description = fmt.Sprintf("The customer rejected %s.", item.Description)
				if item.RejectionReason != "" {
					ev.Description += " Reason: " + item.RejectionReason
				}
			}
			t.emit(ev)
			return nil
		})
		if err != nil {
			return err
		}
		view = projection.Build(out.state, actor.Role)
		return nil
	})
	return view, err
}

// sweepRecorder is implemented by metrics sinks that also track sweeps.
type sweepRecorder interface {
	RecordSweep(autoRejected, failed int)
}

// SweepExpiredLineItems auto-rejects pending items whose approval deadline has
// passed, job by job in bounded commits, several jobs in parallel. Failures on one job
// are counted and do not stop the others.
func (u *JobUseCase) SweepExpiredLineItems(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	err := u.observe(ctx, "sweep-line-items", systemActor, "", func(ctx context.Context) error {
		now := u.now()
		items, err := u.repo.ListExpiredPendingLineItems(ctx, now, u.policy.SweepBatchSize)
		if err != nil {
			return fmt.Errorf("list expired line items: %w", err)
		}
		seen := map[string]bool{}
		var jobIDs []string
		for _, it := range items {
			if !seen[it.JobID] {
				seen[it.JobID] = true
				jobIDs = append(jobIDs, it.JobID)
			}
		}
		sort.Strings(jobIDs)

		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(u.policy.SweepConcurrency)
		for _, jobID := range jobIDs {
			g.Go(func() error {
				n, err := u.autoRejectExpired(gctx, jobID)
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					res.Failed++
					logger.Warn(gctx, "[job][sweep] auto-reject failed", "job_id", jobID, "err", err)
					return nil
				}
				res.Jobs++
				res.AutoRejected += n
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		if r, ok := u.metrics.(sweepRecorder); ok {
			r.RecordSweep(res.AutoRejected, res.Failed)
		}
		if res.AutoRejected > 0 || res.Failed > 0 {
			logger.Info(ctx, "[job][sweep] done", "jobs", res.Jobs, "auto_rejected", res.AutoRejected, "failed", res.Failed)
		}
		return nil
	})
	return res, err
}

// autoRejectChunk bounds how many items one commit resolves. Each costs an
// item update and an event, which keeps the change under MaxCommitWrites.
const autoRejectChunk = 40

func (u *JobUseCase) autoRejectExpired(ctx context.Context, jobID string) (int, error) {
	total := 0
	for {
		n, err := u.autoRejectBatch(ctx, jobID, autoRejectChunk)
		total += n
		if err != nil {
			return total, err
		}
		if n < autoRejectChunk {
			return total, nil
		}
	}
}

func (u *JobUseCase) autoRejectBatch(ctx context.Context, jobID string, limit int) (int, error) {
	var n int
	_, err := u.execute(ctx, "auto-reject-line-items", systemActor, jobID, func(ctx context.Context, t *tx) error {
		n = 0
		for _, it := range t.state.LineItems {
			if n == limit {
				break
			}
			if it.ApprovalStatus != entities.ApprovalPending || it.ApprovalDeadline == nil || it.ApprovalDeadline.After(t.now) {
				continue
			}
			item := it
			if _, err := billing.Resolve(&item, entities.ApprovalAutoRejected, string(entities.RoleSystem), "approval window expired", t.now); err != nil {
				return err
			}
			t.putLineItem(item, entities.ApprovalPending)
			amount := item.TotalCents
			t.emit(entities.JobEvent{
				Type:         entities.EventLineItemRejected,
				Title:        "Line item expired",
				Description:  fmt.Sprintf("%s was not approved in time and was automatically rejected.", item.Description),
				AmountCents:  &amount,
				EntityType:   "line_item",
				EntityID:     item.ID,
				NotifyUserID: t.state.Contract.MechanicID,
			})
			n++
		}
		return nil
	})
	return n, err
}

func nextSortOrder(items []entities.InvoiceLineItem) int {
	highest := 0
	for _, it := range items {
		if it.SortOrder > highest {
			highest = it.SortOrder
		}
	}
	return highest + 1
}
