package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"
)

// JobMemoryRepository keeps jobs in process memory. It honours the same
// JobChange conditions as the DynamoDB repository and backs local runs and
// use case tests.
type JobMemoryRepository struct {
	mu     sync.Mutex
	jobs   map[string]*entities.JobState
	items  map[string]string // line item id -> job id
	events map[string][]entities.JobEvent
}

var _ interfaces.IJobRepository = (*JobMemoryRepository)(nil)

func NewJobMemoryRepository() *JobMemoryRepository {
	return &JobMemoryRepository{
		jobs:   map[string]*entities.JobState{},
		items:  map[string]string{},
		events: map[string][]entities.JobEvent{},
	}
}

func (r *JobMemoryRepository) CreateContract(_ context.Context, state entities.JobState, events []entities.JobEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	jobID := state.Contract.JobID
	if _, ok := r.jobs[jobID]; ok {
		return interfaces.ErrJobAlreadyExists
	}
	s := copyState(state)
	r.jobs[jobID] = &s
	for _, it := range s.LineItems {
		r.items[it.ID] = jobID
	}
	r.events[jobID] = append(r.events[jobID], events...)
	return nil
}

func (r *JobMemoryRepository) GetState(_ context.Context, jobID string) (entities.JobState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.jobs[jobID]
	if !ok {
		return entities.JobState{}, nil
	}
	return copyState(*s), nil
}

func (r *JobMemoryRepository) FindJobIDByLineItem(_ context.Context, itemID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[itemID], nil
}

// Commit checks every condition of the change before applying any part of it.
func (r *JobMemoryRepository) Commit(_ context.Context, ch entities.JobChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.jobs[ch.JobID]
	if !ok {
		return interfaces.ErrVersionConflict
	}
	if s.Contract.Version != ch.ExpectedVersion || ch.Contract.Version != ch.ExpectedVersion+1 {
		return interfaces.ErrVersionConflict
	}
	if n := ch.WriteCount(); n > interfaces.MaxCommitWrites {
		return fmt.Errorf("commit job %s with %d writes: %w", ch.JobID, n, interfaces.ErrChangeTooLarge)
	}
	if ch.ClaimFinalization && s.Progress.FinalizedAt != nil {
		return interfaces.ErrVersionConflict
	}
	for _, w := range ch.LineItems {
		idx := indexOfItem(s.LineItems, w.Item.ID)
		switch {
		case w.ExpectedStatus == "" && idx >= 0:
			return interfaces.ErrVersionConflict
		case w.ExpectedStatus != "" && (idx < 0 || s.LineItems[idx].ApprovalStatus != w.ExpectedStatus):
			return interfaces.ErrVersionConflict
		}
	}
	if ch.Cancellation != nil && s.Cancellation != nil {
		return interfaces.ErrVersionConflict
	}
	if ch.Dispute != nil && s.Dispute != nil {
		return interfaces.ErrVersionConflict
	}
	if a := ch.Acknowledgement; a != nil {
		if _, found := s.FindAcknowledgement(a.Role, a.Version); found {
			return interfaces.ErrVersionConflict
		}
	}

	next := copyState(*s)
	next.Contract = ch.Contract
	if ch.Progress != nil {
		next.Progress = ch.Progress.Clone()
	}
	for _, w := range ch.LineItems {
		if idx := indexOfItem(next.LineItems, w.Item.ID); idx >= 0 {
			next.LineItems[idx] = w.Item
		} else {
			next.LineItems = append(next.LineItems, w.Item)
			r.items[w.Item.ID] = ch.JobID
		}
	}
	if ch.Cancellation != nil {
		c := *ch.Cancellation
		next.Cancellation = &c
	}
	if ch.Dispute != nil {
		d := *ch.Dispute
		next.Dispute = &d
	}
	if ch.Acknowledgement != nil {
		next.Acknowledgements = append(next.Acknowledgements, *ch.Acknowledgement)
	}
	r.jobs[ch.JobID] = &next
	r.events[ch.JobID] = append(r.events[ch.JobID], ch.Events...)
	return nil
}

func (r *JobMemoryRepository) ListEvents(_ context.Context, jobID string) ([]entities.JobEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.JobEvent(nil), r.events[jobID]...), nil
}

func (r *JobMemoryRepository) ListExpiredPendingLineItems(_ context.Context, now time.Time, limit int) ([]entities.InvoiceLineItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []entities.InvoiceLineItem
	for _, s := range r.jobs {
		for _, it := range s.LineItems {
			if it.ApprovalStatus == entities.ApprovalPending && it.ApprovalDeadline != nil && !it.ApprovalDeadline.After(now) {
				out = append(out, it)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ApprovalDeadline.Before(*out[j].ApprovalDeadline) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyState(s entities.JobState) entities.JobState {
	out := s
	out.Progress = s.Progress.Clone()
	out.LineItems = append([]entities.InvoiceLineItem(nil), s.LineItems...)
	out.Acknowledgements = append([]entities.Acknowledgement(nil), s.Acknowledgements...)
	if s.Cancellation != nil {
		c := *s.Cancellation
		out.Cancellation = &c
	}
	if s.Dispute != nil {
		d := *s.Dispute
		out.Dispute = &d
	}
	return out
}

func indexOfItem(items []entities.InvoiceLineItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
