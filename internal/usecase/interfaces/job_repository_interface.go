package interfaces

import (
	"context"
	"errors"
	"time"

	"mecanica_jobs/internal/domain/entities"
)

var (
	// ErrVersionConflict is returned by Commit when any condition of the change
	// no longer holds (stale version, finalization already claimed, line item
	// no longer in the expected status). Nothing was written.
	ErrVersionConflict = errors.New("job version conflict")
	// ErrJobAlreadyExists is returned by CreateContract for a known job id.
	ErrJobAlreadyExists = errors.New("job already exists")
	// ErrChangeTooLarge is returned by Commit when the change needs more than
	// MaxCommitWrites writes.
	ErrChangeTooLarge = errors.New("job change exceeds the transaction write limit")
)

// MaxCommitWrites matches the DynamoDB TransactWriteItems action limit.
const MaxCommitWrites = 100

// IJobRepository abstracts persistence of the job aggregate (contract,
// progress, line items, cancellation, dispute, acknowledgements, events).
//
// The coordination rules need to:
//   - load a consistent snapshot of one job
//   - commit a JobChange atomically, guarded by the contract version
//   - find the job of a line item (approve/reject are addressed by item id)
//   - list expired pending line items for the auto-reject sweep

type IJobRepository interface {
	CreateContract(ctx context.Context, state entities.JobState, events []entities.JobEvent) error
	// GetState returns a zero JobState (Found() == false) for unknown jobs.
	GetState(ctx context.Context, jobID string) (entities.JobState, error)
	// FindJobIDByLineItem returns "" for unknown items.
	FindJobIDByLineItem(ctx context.Context, itemID string) (string, error)
	Commit(ctx context.Context, change entities.JobChange) error
	ListEvents(ctx context.Context, jobID string) ([]entities.JobEvent, error)
	ListExpiredPendingLineItems(ctx context.Context, now time.Time, limit int) ([]entities.InvoiceLineItem, error)
}
