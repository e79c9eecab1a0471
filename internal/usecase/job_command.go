package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/lifecycle"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase/interfaces"
	"mecanica_jobs/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mecanica_jobs/internal/usecase")

var systemActor = entities.Actor{UserID: string(entities.RoleSystem), Role: entities.RoleSystem}

// tx is the working copy of one job that a command mutates during a single
// attempt. Nothing in it is visible to other callers until the change commits.
type tx struct {
	actor  entities.Actor
	now    time.Time
	before entities.JobState
	state  entities.JobState
	change entities.JobChange

	dirty           bool
	progressDirty   bool
	finalized       bool
	cancellationFee int64
}

func newTx(actor entities.Actor, state entities.JobState, now time.Time) *tx {
	return &tx{
		actor:  actor,
		now:    now,
		before: state,
		state:  cloneState(state),
		change: entities.JobChange{
			JobID:           state.Contract.JobID,
			ExpectedVersion: state.Contract.Version,
		},
	}
}

func cloneState(s entities.JobState) entities.JobState {
	out := s
	out.Progress = s.Progress.Clone()
	out.LineItems = append([]entities.InvoiceLineItem(nil), s.LineItems...)
	out.Acknowledgements = append([]entities.Acknowledgement(nil), s.Acknowledgements...)
	return out
}

func (t *tx) phase() lifecycle.Phase {
	return lifecycle.PhaseOf(t.state.Progress, t.state.Contract.Status)
}

// applyProgress records the outcome of a lifecycle transition. A finalizing
// transition claims finalized_at with a compare-and-set at commit time.
func (t *tx) applyProgress(res lifecycle.Result) {
	if !res.Changed {
		return
	}
	t.dirty = true
	t.progressDirty = true
	if res.Finalized {
		t.finalized = true
		t.change.ClaimFinalization = true
		t.state.Contract.Status = entities.ContractStatusCompleted
	}
}

// putLineItem inserts item (expected == "") or updates it conditionally on its
// stored status.
func (t *tx) putLineItem(item entities.InvoiceLineItem, expected entities.ApprovalStatus) {
	replaced := false
	for i := range t.state.LineItems {
		if t.state.LineItems[i].ID == item.ID {
			t.state.LineItems[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		t.state.LineItems = append(t.state.LineItems, item)
	}
	t.change.LineItems = append(t.change.LineItems, entities.LineItemWrite{Item: item, ExpectedStatus: expected})
	t.dirty = true
}

func (t *tx) emit(ev entities.JobEvent) {
	ev.JobID = t.state.Contract.JobID
	if ev.ActorID == "" {
		ev.ActorID = t.actor.UserID
		ev.ActorRole = t.actor.Role
	}
	ev.CreatedAt = t.now
	t.change.Events = append(t.change.Events, ev)
	t.dirty = true
}

// build finalizes the JobChange: every commit bumps the contract version, which
// is what serializes writers of the same job.
func (t *tx) build() entities.JobChange {
	t.state.Contract.Version = t.before.Contract.Version + 1
	t.state.Contract.UpdatedAt = t.now
	ch := t.change
	ch.Contract = t.state.Contract
	if t.progressDirty {
		p := t.state.Progress.Clone()
		ch.Progress = &p
	}
	return ch
}

type applyFunc func(ctx context.Context, t *tx) error

type outcome struct {
	state entities.JobState
	// change is nil when the command was an idempotent replay.
	change          *entities.JobChange
	finalized       bool
	cancellationFee int64
}

// command runs apply under tracing, metrics and logging.
func (u *JobUseCase) command(ctx context.Context, name string, actor entities.Actor, jobID string, apply applyFunc) (outcome, error) {
	var out outcome
	err := u.observe(ctx, name, actor, jobID, func(ctx context.Context) error {
		var err error
		out, err = u.execute(ctx, name, actor, jobID, apply)
		return err
	})
	return out, err
}

// execute is the optimistic read-modify-write loop. A lost version race
// re-reads the job and re-applies the command; when retries run out the
// caller gets ConcurrencyConflict.
func (u *JobUseCase) execute(ctx context.Context, name string, actor entities.Actor, jobID string, apply applyFunc) (outcome, error) {
	var out outcome
	attempt := 0
	op := func() error {
		attempt++
		state, err := u.repo.GetState(ctx, jobID)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("load job %s: %w", jobID, err))
		}
		if !state.Found() {
			return backoff.Permanent(entities.NewNotFound("job %s not found", jobID))
		}

		t := newTx(actor, state, u.now())
		if err := apply(ctx, t); err != nil {
			return backoff.Permanent(err)
		}
		if !t.dirty {
			out = outcome{state: state}
			return nil
		}
		if err := lifecycle.CheckMonotonic(state.Progress, t.state.Progress); err != nil {
			return backoff.Permanent(err)
		}

		ch := t.build()
		for i := range ch.Events {
			if ch.Events[i].ID == "" {
				ch.Events[i].ID = u.newID()
			}
		}
		if err := u.repo.Commit(ctx, ch); err != nil {
			if errors.Is(err, interfaces.ErrVersionConflict) {
				return err
			}
			return backoff.Permanent(fmt.Errorf("commit job %s: %w", jobID, err))
		}
		out = outcome{state: t.state, change: &ch, finalized: t.finalized, cancellationFee: t.cancellationFee}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if u.metrics != nil {
			u.metrics.IncConflictRetry(name)
		}
		logger.Debug(ctx, "[job][usecase] version conflict, retrying", "command", name, "job_id", jobID, "attempt", attempt, "wait", wait)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(u.newBackOff(), ctx), notify)
	if errors.Is(err, interfaces.ErrVersionConflict) {
		err = &entities.CommandError{
			Code:    entities.CodeConcurrencyConflict,
			Message: "job was changed concurrently, re-read state and retry",
			Err:     err,
		}
	}
	if err != nil {
		return outcome{}, err
	}

	if out.change == nil {
		logger.Debug(ctx, "[job][usecase] replay, nothing to commit", "command", name, "job_id", jobID)
		return out, nil
	}
	logger.Info(ctx, "[job][usecase] committed", "command", name, "job_id", jobID, "version", out.state.Contract.Version, "events", len(out.change.Events), "finalized", out.finalized)
	u.afterCommit(ctx, out)
	return out, nil
}

// observe wraps a façade entry point with a span, a metric sample and the
// outcome log line. Concurrency conflicts are expected under contention and
// only logged at debug.
func (u *JobUseCase) observe(ctx context.Context, name string, actor entities.Actor, jobID string, fn func(ctx context.Context) error) error {
	ctx, span := tracer.Start(ctx, "job."+name, trace.WithAttributes(
		attribute.String("job.id", jobID),
		attribute.String("job.command", name),
		attribute.String("actor.role", string(actor.Role)),
	))
	defer span.End()
	if jobID != "" {
		ctx = logger.With(ctx, logger.JobIDKey, jobID)
	}
	start := time.Now()

	err := fn(ctx)

	result := "ok"
	switch code := entities.CodeOf(err); {
	case err == nil:
	case code == entities.CodeConcurrencyConflict:
		result = string(code)
		logger.Debug(ctx, "[job][usecase] lost concurrent update", "command", name, "err", err)
	case code != "":
		result = string(code)
		logger.Info(ctx, "[job][usecase] command rejected", "command", name, "code", code, "err", err)
	default:
		result = "INTERNAL"
		logger.Error(ctx, "[job][usecase] command failed", "command", name, "err", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.String("job.result", result))
	if u.metrics != nil {
		u.metrics.ObserveCommand(name, result, time.Since(start))
	}
	return err
}

// afterCommit runs the best-effort side effects of a committed change. None of
// them can fail the command.
func (u *JobUseCase) afterCommit(ctx context.Context, out outcome) {
	ctx = context.WithoutCancel(ctx)
	u.dispatch(ctx, out.change.Events)
	u.publish(ctx, out.state)
	if out.finalized {
		u.captureFinalPayment(ctx, out.state)
	}
	if out.cancellationFee > 0 {
		u.chargeCancellationFee(ctx, out.state, out.cancellationFee)
	}
}

func (u *JobUseCase) dispatch(ctx context.Context, events []entities.JobEvent) {
	if u.notifier == nil {
		return
	}
	for _, ev := range events {
		n, ok := ev.Notification()
		if !ok {
			continue
		}
		if err := u.notifier.Notify(ctx, n); err != nil {
			logger.Warn(ctx, "[job][usecase] notification failed", "event", ev.Type, "user_id", n.UserID, "err", err)
		}
	}
}

func (u *JobUseCase) publish(ctx context.Context, s entities.JobState) {
	if u.feed == nil {
		return
	}
	if err := u.feed.Publish(ctx, projection.ChangeOf(s, u.now())); err != nil {
		logger.Warn(ctx, "[job][usecase] change feed publish failed", "job_id", s.Contract.JobID, "err", err)
	}
}

// load reads one job for a query and authorizes the reader.
func (u *JobUseCase) load(ctx context.Context, actor entities.Actor, jobID string) (entities.JobState, entities.Role, error) {
	state, err := u.repo.GetState(ctx, jobID)
	if err != nil {
		return entities.JobState{}, "", fmt.Errorf("load job %s: %w", jobID, err)
	}
	if !state.Found() {
		return entities.JobState{}, "", entities.NewNotFound("job %s not found", jobID)
	}
	role, err := requireReader(state.Contract, actor)
	if err != nil {
		return entities.JobState{}, "", err
	}
	return state, role, nil
}

func requireParty(c entities.JobContract, actor entities.Actor) (entities.Role, error) {
	if actor.UserID == "" {
		return "", entities.NewNotAuthorized("missing actor identity")
	}
	role, ok := c.PartyRole(actor.UserID)
	if !ok {
		return "", entities.NewNotAuthorized("actor is not a party to job %s", c.JobID)
	}
	if actor.Role != role {
		return "", entities.NewNotAuthorized("actor is the %s on job %s, not the %s", role, c.JobID, actor.Role)
	}
	return role, nil
}

func requireRole(c entities.JobContract, actor entities.Actor, want entities.Role, action string) error {
	role, err := requireParty(c, actor)
	if err != nil {
		return err
	}
	if role != want {
		return entities.NewNotAuthorized("only the %s can %s", want, action)
	}
	return nil
}

// requireReader lets either party or the platform read a job.
func requireReader(c entities.JobContract, actor entities.Actor) (entities.Role, error) {
	if actor.Role == entities.RoleSystem {
		return entities.RoleSystem, nil
	}
	return requireParty(c, actor)
}
