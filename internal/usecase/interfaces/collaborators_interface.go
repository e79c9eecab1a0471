package interfaces

import (
	"context"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/domain/projection"
)

// IEvidenceStore counts photos attached to a job by one actor. The count is
// only used as a boolean gate.
type IEvidenceStore interface {
	CountEvidence(ctx context.Context, jobID string, category entities.EvidenceCategory, actorID string) (int, error)
}

// INotificationSink delivers a notification fire-and-forget. Errors are
// logged by the caller and never fail a command.
type INotificationSink interface {
	Notify(ctx context.Context, n entities.Notification) error
}

// IChangeFeed announces job changes to presentation layers.
type IChangeFeed interface {
	Publish(ctx context.Context, change projection.Change) error
	// Subscribe delivers changes of jobID until ctx is done or the returned
	// cancel func is called.
	Subscribe(ctx context.Context, jobID string) (<-chan projection.Change, func(), error)
}
