package usecase

import (
	"context"
	"time"

	"mecanica_jobs/internal/domain/acknowledgement"
	"mecanica_jobs/internal/domain/billing"
	"mecanica_jobs/internal/domain/cancellation"
	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase/interfaces"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
)

// IJobUseCase is the coordination façade: the only surface clients call.
//
// Every command:
//   - authenticates the actor against the job's customer/mechanic
//   - validates the transition against the current phase and preconditions
//   - commits all of its effects atomically (progress, contract totals, line
//     items, events) or none of them
//   - returns the refreshed view or a typed entities.CommandError

type IJobUseCase interface {
	OpenContract(ctx context.Context, actor entities.Actor, in OpenContractInput) (projection.JobView, bool, error)

	MarkDeparted(ctx context.Context, actor entities.Actor, jobID string, in DepartInput) (projection.JobView, error)
	MarkArrived(ctx context.Context, actor entities.Actor, jobID string, in ArriveInput) (projection.JobView, error)
	ConfirmArrival(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error)
	StartWork(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error)
	MarkComplete(ctx context.Context, actor entities.Actor, jobID string, in CompleteInput) (projection.JobView, error)
	ConfirmComplete(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error)

	CancelJob(ctx context.Context, actor entities.Actor, jobID string, in CancelInput) (projection.JobView, error)
	CancellationQuote(ctx context.Context, actor entities.Actor, jobID string) (cancellation.Quote, error)
	OpenDispute(ctx context.Context, actor entities.Actor, jobID string, in DisputeInput) (projection.JobView, error)

	AddLineItem(ctx context.Context, actor entities.Actor, jobID string, in billing.NewLineItemInput) (entities.InvoiceLineItem, projection.JobView, error)
	ApproveLineItem(ctx context.Context, actor entities.Actor, itemID string) (projection.JobView, error)
	RejectLineItem(ctx context.Context, actor entities.Actor, itemID string, reason string) (projection.JobView, error)
	SweepExpiredLineItems(ctx context.Context) (SweepResult, error)

	AcceptAcknowledgement(ctx context.Context, actor entities.Actor, jobID string, in AcknowledgementInput) (entities.Acknowledgement, error)
	CheckAcknowledgement(ctx context.Context, actor entities.Actor, jobID string, userID string, role entities.Role) (bool, error)

	GetJobView(ctx context.Context, actor entities.Actor, jobID string) (projection.JobView, error)
	ListEvents(ctx context.Context, actor entities.Actor, jobID string) ([]entities.JobEvent, error)
	SubscribeChanges(ctx context.Context, actor entities.Actor, jobID string) (<-chan projection.Change, func(), error)
}

type OpenContractInput struct {
	JobID              string
	CustomerID         string
	MechanicID         string
	QuotedPriceCents   int64
	PromoDiscountCents int64
	ScheduledStart     *time.Time
	ScheduledEnd       *time.Time
}

type DepartInput struct {
	Location         *entities.GeoPoint
	EstimatedMinutes *int
}

type ArriveInput struct {
	Location *entities.GeoPoint
}

type CompleteInput struct {
	WorkSummary string
}

type CancelInput struct {
	Reason string
	Note   string
}

type DisputeInput struct {
	Category    string
	Description string
}

type AcknowledgementInput struct {
	// Role defaults to the actor's role.
	Role    entities.Role
	Version string
	Text    string
}

type SweepResult struct {
	Jobs         int `json:"jobs"`
	AutoRejected int `json:"auto_rejected"`
	Failed       int `json:"failed"`
}

// Policy carries the pricing and timing rules the façade applies.
type Policy struct {
	Rates                  billing.Rates
	Cancellation           cancellation.Policy
	ApprovalWindow         time.Duration
	AcknowledgementVersion string
	MaxPendingLineItems    int
	SweepBatchSize         int
	SweepConcurrency       int
}

func DefaultPolicy() Policy {
	return Policy{
		Rates:                  billing.DefaultRates(),
		Cancellation:           cancellation.DefaultPolicy(),
		ApprovalWindow:         30 * time.Minute,
		AcknowledgementVersion: acknowledgement.DefaultVersion,
		MaxPendingLineItems:    billing.DefaultMaxPendingItems,
		SweepBatchSize:         500,
		SweepConcurrency:       4,
	}
}

type JobUseCase struct {
	repo     interfaces.IJobRepository
	evidence interfaces.IEvidenceStore
	notifier interfaces.INotificationSink
	feed     interfaces.IChangeFeed
	gateway  interfaces.IPaymentGateway
	metrics  interfaces.ICommandMetrics

	policy     Policy
	now        func() time.Time
	newID      func() string
	newBackOff func() backoff.BackOff
}

var _ IJobUseCase = (*JobUseCase)(nil)

type Option func(*JobUseCase)

func WithClock(now func() time.Time) Option {
	return func(u *JobUseCase) { u.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(u *JobUseCase) { u.newID = newID }
}

func WithMetrics(m interfaces.ICommandMetrics) Option {
	return func(u *JobUseCase) { u.metrics = m }
}

// WithBackOff replaces the retry schedule used on version conflicts. The
// factory must return a fresh BackOff on each call.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(u *JobUseCase) { u.newBackOff = f }
}

// NewJobUseCase wires the façade. notifier, feed, gateway and metrics may be nil;
// their side effects are then skipped.
func NewJobUseCase(
	repo interfaces.IJobRepository,
	evidence interfaces.IEvidenceStore,
	notifier interfaces.INotificationSink,
	feed interfaces.IChangeFeed,
	gateway interfaces.IPaymentGateway,
	policy Policy,
	opts ...Option,
) *JobUseCase {
	u := &JobUseCase{
		repo:       repo,
		evidence:   evidence,
		notifier:   notifier,
		feed:       feed,
		gateway:    gateway,
		policy:     policy,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.NewString() },
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.policy.SweepBatchSize <= 0 {
		u.policy.SweepBatchSize = 500
	}
	if u.policy.SweepConcurrency <= 0 {
		u.policy.SweepConcurrency = 1
	}
	return u
}

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond
	bo.MaxElapsedTime = 3 * time.Second
	return backoff.WithMaxRetries(bo, 10)
}
