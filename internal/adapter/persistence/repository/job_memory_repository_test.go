package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"
)

func seedJob(t *testing.T, r *JobMemoryRepository, now time.Time) entities.JobState {
	t.Helper()
	s := entities.JobState{
		Contract: entities.JobContract{
			JobID:      "job-1",
			CustomerID: "cust-1",
			MechanicID: "mech-1",
			Status:     entities.ContractStatusActive,
			Version:    1,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		Progress: entities.JobProgress{JobID: "job-1", CreatedAt: now},
		LineItems: []entities.InvoiceLineItem{{
			ID:             "fee-1",
			JobID:          "job-1",
			ItemType:       entities.LineItemPlatformFee,
			ApprovalStatus: entities.ApprovalApproved,
		}},
	}
	if err := r.CreateContract(context.Background(), s, []entities.JobEvent{{ID: "ev-1", JobID: "job-1", Type: entities.EventContractCreated}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestJobMemoryRepository_CreateContract(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("duplicate job id", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		if err := r.CreateContract(ctx, s, nil); !errors.Is(err, interfaces.ErrJobAlreadyExists) {
			t.Fatalf("expected ErrJobAlreadyExists, got %v", err)
		}
	})

	t.Run("indexes line items and events", func(t *testing.T) {
		r := NewJobMemoryRepository()
		seedJob(t, r, now)
		jobID, _ := r.FindJobIDByLineItem(ctx, "fee-1")
		if jobID != "job-1" {
			t.Fatalf("expected job-1, got %q", jobID)
		}
		evs, _ := r.ListEvents(ctx, "job-1")
		if len(evs) != 1 {
			t.Fatalf("expected 1 event, got %d", len(evs))
		}
	})

	t.Run("unknown job is zero state", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s, err := r.GetState(ctx, "nope")
		if err != nil || s.Found() {
			t.Fatalf("expected zero state, got %+v err=%v", s, err)
		}
	})
}

func TestJobMemoryRepository_Commit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	change := func(s entities.JobState) entities.JobChange {
		c := s.Contract
		c.Version = s.Contract.Version + 1
		return entities.JobChange{JobID: c.JobID, ExpectedVersion: s.Contract.Version, Contract: c}
	}

	t.Run("bumps version", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		if err := r.Commit(ctx, change(s)); err != nil {
			t.Fatalf("commit: %v", err)
		}
		got, _ := r.GetState(ctx, "job-1")
		if got.Contract.Version != 2 {
			t.Fatalf("expected version 2, got %d", got.Contract.Version)
		}
	})

	t.Run("stale version", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		if err := r.Commit(ctx, change(s)); err != nil {
			t.Fatalf("commit: %v", err)
		}
		if err := r.Commit(ctx, change(s)); !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("finalization claimed once", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		ch := change(s)
		p := s.Progress.Clone()
		p.FinalizedAt = entities.TimePtr(now)
		ch.Progress = &p
		ch.ClaimFinalization = true
		if err := r.Commit(ctx, ch); err != nil {
			t.Fatalf("commit: %v", err)
		}
		cur, _ := r.GetState(ctx, "job-1")
		again := change(cur)
		again.Progress = &p
		again.ClaimFinalization = true
		if err := r.Commit(ctx, again); !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected conflict on second claim, got %v", err)
		}
	})

	t.Run("line item status condition", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		ch := change(s)
		ch.LineItems = []entities.LineItemWrite{{
			Item:           entities.InvoiceLineItem{ID: "fee-1", JobID: "job-1", ApprovalStatus: entities.ApprovalRejected},
			ExpectedStatus: entities.ApprovalPending,
		}}
		if err := r.Commit(ctx, ch); !errors.Is(err, interfaces.ErrVersionConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
		got, _ := r.GetState(ctx, "job-1")
		if got.Contract.Version != 1 {
			t.Fatalf("failed commit must not write, version=%d", got.Contract.Version)
		}
	})

	t.Run("inserts item and events atomically", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		ch := change(s)
		ch.LineItems = []entities.LineItemWrite{{Item: entities.InvoiceLineItem{ID: "item-2", JobID: "job-1", ApprovalStatus: entities.ApprovalPending}}}
		ch.Events = []entities.JobEvent{{ID: "ev-2", JobID: "job-1", Type: entities.EventLineItemAdded}}
		if err := r.Commit(ctx, ch); err != nil {
			t.Fatalf("commit: %v", err)
		}
		if id, _ := r.FindJobIDByLineItem(ctx, "item-2"); id != "job-1" {
			t.Fatalf("item not indexed")
		}
		evs, _ := r.ListEvents(ctx, "job-1")
		if len(evs) != 2 {
			t.Fatalf("expected 2 events, got %d", len(evs))
		}
	})

	t.Run("refuses changes above the transaction write limit", func(t *testing.T) {
		r := NewJobMemoryRepository()
		s := seedJob(t, r, now)
		ch := change(s)
		// 1 contract + 50 item updates + 50 events
		for i := 0; i < 50; i++ {
			ch.LineItems = append(ch.LineItems, entities.LineItemWrite{
				Item:           entities.InvoiceLineItem{ID: fmt.Sprintf("item-%d", i), JobID: "job-1", ApprovalStatus: entities.ApprovalAutoRejected},
				ExpectedStatus: entities.ApprovalPending,
			})
			ch.Events = append(ch.Events, entities.JobEvent{ID: fmt.Sprintf("ev-%d", i), JobID: "job-1"})
		}
		if got := ch.WriteCount(); got != 101 {
			t.Fatalf("expected 101 writes, got %d", got)
		}
		if err := r.Commit(ctx, ch); !errors.Is(err, interfaces.ErrChangeTooLarge) {
			t.Fatalf("expected ErrChangeTooLarge, got %v", err)
		}
		got, _ := r.GetState(ctx, "job-1")
		if got.Contract.Version != 1 {
			t.Fatalf("oversized commit must not write, version=%d", got.Contract.Version)
		}
	})
}

func TestJobMemoryRepository_ListExpiredPendingLineItems(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	r := NewJobMemoryRepository()
	s := seedJob(t, r, now)

	ch := entities.JobChange{JobID: "job-1", ExpectedVersion: 1, Contract: s.Contract}
	ch.Contract.Version = 2
	ch.LineItems = []entities.LineItemWrite{
		{Item: entities.InvoiceLineItem{ID: "late", JobID: "job-1", ApprovalStatus: entities.ApprovalPending, ApprovalDeadline: entities.TimePtr(now.Add(-time.Minute))}},
		{Item: entities.InvoiceLineItem{ID: "fresh", JobID: "job-1", ApprovalStatus: entities.ApprovalPending, ApprovalDeadline: entities.TimePtr(now.Add(time.Minute))}},
	}
	if err := r.Commit(ctx, ch); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := r.ListExpiredPendingLineItems(ctx, now, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != "late" {
		t.Fatalf("expected only the late item, got %+v", got)
	}
}
