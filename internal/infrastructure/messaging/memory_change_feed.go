package messaging

import (
	"context"
	"sync"

	"mecanica_jobs/internal/domain/projection"
	"mecanica_jobs/internal/usecase/interfaces"
)

// MemoryChangeFeed delivers changes inside one process. Slow subscribers miss
// changes instead of blocking publishers; every change carries the version,
// so a reader only needs the latest one.
type MemoryChangeFeed struct {
	mu   sync.Mutex
	subs map[string]map[chan projection.Change]struct{}
}

var _ interfaces.IChangeFeed = (*MemoryChangeFeed)(nil)

func NewMemoryChangeFeed() *MemoryChangeFeed {
	return &MemoryChangeFeed{subs: map[string]map[chan projection.Change]struct{}{}}
}

func (f *MemoryChangeFeed) Publish(_ context.Context, change projection.Change) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subs[change.JobID] {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

func (f *MemoryChangeFeed) Subscribe(ctx context.Context, jobID string) (<-chan projection.Change, func(), error) {
	ch := make(chan projection.Change, 8)
	f.mu.Lock()
	if f.subs[jobID] == nil {
		f.subs[jobID] = map[chan projection.Change]struct{}{}
	}
	f.subs[jobID][ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs[jobID], ch)
			if len(f.subs[jobID]) == 0 {
				delete(f.subs, jobID)
			}
			f.mu.Unlock()
			close(ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ch, cancel, nil
}
