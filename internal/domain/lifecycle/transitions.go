package lifecycle

import (
	"time"

	"mecanica_jobs/internal/domain/entities"
)

// Result describes what a transition did to the progress record.
type Result struct {
	// Changed is false when the command was a replay of an already-applied
	// transition.
	Changed bool
	// Finalized is true only for the call that observed both completion
	// confirmations and claimed finalization.
	Finalized bool
}

type DepartureDetails struct {
	Location         *entities.GeoPoint
	EstimatedMinutes *int
}

// StartWorkGuards carries the facts owned by other components that gate
// mechanicStartWork.
type StartWorkGuards struct {
	MechanicAcknowledged bool
	BeforeEvidenceCount  int
}

// CompleteGuards carries the facts owned by other components that gate
// mechanicMarkComplete.
type CompleteGuards struct {
	PendingLineItems   int
	AfterEvidenceCount int
}

func ensureOpen(p *entities.JobProgress, status entities.ContractStatus, action string) error {
	if phase := PhaseOf(*p, status); phase.Terminal() {
		return entities.NewInvalidTransition("cannot %s: job is %s", action, phase)
	}
	return nil
}

// MarkDeparted sets mechanic_departed_at. Only legal from quote_accepted.
func MarkDeparted(p *entities.JobProgress, status entities.ContractStatus, now time.Time, d DepartureDetails) (Result, error) {
	if p.MechanicDepartedAt != nil {
		return Result{}, nil
	}
	if err := ensureOpen(p, status, "mark departed"); err != nil {
		return Result{}, err
	}
	if phase := PhaseOf(*p, status); phase != PhaseQuoteAccepted {
		return Result{}, entities.NewInvalidTransition("cannot mark departed from %s", phase)
	}
	p.MechanicDepartedAt = entities.TimePtr(now)
	p.DepartureLocation = d.Location
	if d.EstimatedMinutes != nil && *d.EstimatedMinutes > 0 {
		p.EstimatedArrival = entities.TimePtr(now.Add(time.Duration(*d.EstimatedMinutes) * time.Minute))
	}
	return Result{Changed: true}, nil
}

// MarkArrived sets mechanic_arrived_at once the mechanic has departed.
func MarkArrived(p *entities.JobProgress, status entities.ContractStatus, now time.Time, location *entities.GeoPoint) (Result, error) {
	if p.MechanicArrivedAt != nil {
		return Result{}, nil
	}
	if err := ensureOpen(p, status, "mark arrived"); err != nil {
		return Result{}, err
	}
	if p.MechanicDepartedAt == nil {
		return Result{}, entities.NewInvalidTransition("mechanic has not departed yet")
	}
	p.MechanicArrivedAt = entities.TimePtr(now)
	p.ArrivalLocation = location
	return Result{Changed: true}, nil
}

// ConfirmArrival sets customer_confirmed_arrival_at. It is the only way into
// ready_to_start.
func ConfirmArrival(p *entities.JobProgress, status entities.ContractStatus, now time.Time) (Result, error) {
	if p.CustomerConfirmedArrivalAt != nil {
		return Result{}, nil
	}
	if err := ensureOpen(p, status, "confirm arrival"); err != nil {
		return Result{}, err
	}
	if p.MechanicArrivedAt == nil {
		return Result{}, entities.NewInvalidTransition("mechanic has not arrived yet")
	}
	p.CustomerConfirmedArrivalAt = entities.TimePtr(now)
	return Result{Changed: true}, nil
}

// StartWork sets work_started_at from ready_to_start. Requires the mechanic's
// acknowledgement and at least one before photo.
func StartWork(p *entities.JobProgress, status entities.ContractStatus, now time.Time, g StartWorkGuards) (Result, error) {
	if p.WorkStartedAt != nil {
		return Result{}, nil
	}
	if err := ensureOpen(p, status, "start work"); err != nil {
		return Result{}, err
	}
	if phase := PhaseOf(*p, status); phase != PhaseReadyToStart {
		return Result{}, entities.NewInvalidTransition("cannot start work from %s: customer must confirm arrival first", phase)
	}
	if g.BeforeEvidenceCount < 1 {
		return Result{}, entities.NewPreconditionFailed("add before-photos first")
	}
	if !g.MechanicAcknowledged {
		return Result{}, entities.NewPreconditionFailed("accept the job acknowledgement first")
	}
	p.WorkStartedAt = entities.TimePtr(now)
	return Result{Changed: true}, nil
}

// MarkComplete records the mechanic's completion. Requires every line item to be
// resolved and at least one after photo. Finalizes when the customer has
// already confirmed.
func MarkComplete(p *entities.JobProgress, status entities.ContractStatus, now time.Time, g CompleteGuards, summary string) (Result, error) {
	if p.MechanicCompletedAt != nil {
		return Result{}, nil
	}
	if err := ensureOpen(p, status, "mark complete"); err != nil {
		return Result{}, err
	}
	if p.WorkStartedAt == nil {
		return Result{}, entities.NewInvalidTransition("work has not started yet")
	}
	if g.PendingLineItems > 0 {
		return Result{}, entities.NewPreconditionFailed("%d line item(s) awaiting customer approval", g.PendingLineItems)
	}
	if g.AfterEvidenceCount < 1 {
		return Result{}, entities.NewPreconditionFailed("add after-photos first")
	}
	p.MechanicCompletedAt = entities.TimePtr(now)
	if summary != "" {
		p.WorkSummary = summary
	}
	return Result{Changed: true, Finalized: tryFinalize(p, now)}, nil
}

// ConfirmComplete records the customer's completion. The customer may confirm
// before the mechanic; whichever confirmation lands second finalizes.
func ConfirmComplete(p *entities.JobProgress, status entities.ContractStatus, now time.Time) (Result, error) {
	if p.CustomerCompletedAt != nil {
		return Result{}, nil
	}
	if err := ensureOpen(p, status, "confirm completion"); err != nil {
		return Result{}, err
	}
	if p.WorkStartedAt == nil {
		return Result{}, entities.NewInvalidTransition("work has not started yet")
	}
	p.CustomerCompletedAt = entities.TimePtr(now)
	return Result{Changed: true, Finalized: tryFinalize(p, now)}, nil
}

func tryFinalize(p *entities.JobProgress, now time.Time) bool {
	if p.FinalizedAt != nil || p.MechanicCompletedAt == nil || p.CustomerCompletedAt == nil {
		return false
	}
	p.FinalizedAt = entities.TimePtr(now)
	if p.WorkStartedAt != nil {
		m := int(now.Sub(*p.WorkStartedAt).Round(time.Minute) / time.Minute)
		p.ActualWorkDurationMinutes = &m
	}
	return true
}

// CanCancel allows cancellation from any open phase before work starts.
// Once work has started the only exit is a dispute.
func CanCancel(p entities.JobProgress, status entities.ContractStatus) error {
	if phase := PhaseOf(p, status); phase.Terminal() {
		return entities.NewInvalidTransition("cannot cancel: job is %s", phase)
	}
	if p.WorkStartedAt != nil {
		return entities.NewInvalidTransition("work has already started; open a dispute instead")
	}
	return nil
}

// CanDispute allows a dispute from any non-terminal phase.
func CanDispute(p entities.JobProgress, status entities.ContractStatus) error {
	if phase := PhaseOf(p, status); phase.Terminal() {
		return entities.NewInvalidTransition("cannot open dispute: job is %s", phase)
	}
	return nil
}

// CanAddLineItem restricts invoice changes to the window between work start
// and the mechanic's completion.
func CanAddLineItem(p entities.JobProgress, status entities.ContractStatus) error {
	if phase := PhaseOf(p, status); phase.Terminal() {
		return entities.NewInvalidTransition("cannot add line items: job is %s", phase)
	}
	if p.WorkStartedAt == nil {
		return entities.NewInvalidTransition("line items can only be added once work has started")
	}
	if p.MechanicCompletedAt != nil {
		return entities.NewInvalidTransition("line items cannot be added after the mechanic marked the job complete")
	}
	if p.CustomerCompletedAt != nil {
		return entities.NewInvalidTransition("line items cannot be added after the customer confirmed completion")
	}
	return nil
}

// CheckMonotonic verifies that next only fills timestamps that were null in
// prev. It guards every commit against accidental rollback.
func CheckMonotonic(prev, next entities.JobProgress) error {
	pairs := []struct {
		name string
		a, b *time.Time
	}{
		{"mechanic_departed_at", prev.MechanicDepartedAt, next.MechanicDepartedAt},
		{"mechanic_arrived_at", prev.MechanicArrivedAt, next.MechanicArrivedAt},
		{"customer_confirmed_arrival_at", prev.CustomerConfirmedArrivalAt, next.CustomerConfirmedArrivalAt},
		{"work_started_at", prev.WorkStartedAt, next.WorkStartedAt},
		{"mechanic_completed_at", prev.MechanicCompletedAt, next.MechanicCompletedAt},
		{"customer_completed_at", prev.CustomerCompletedAt, next.CustomerCompletedAt},
		{"finalized_at", prev.FinalizedAt, next.FinalizedAt},
	}
	for _, p := range pairs {
		if p.a == nil {
			continue
		}
		if p.b == nil || !p.b.Equal(*p.a) {
			return entities.NewInvalidTransition("%s cannot be cleared or moved", p.name)
		}
	}
	return nil
}
