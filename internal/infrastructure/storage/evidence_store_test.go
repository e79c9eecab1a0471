package storage

import (
	"context"
	"testing"

	"mecanica_jobs/internal/domain/entities"
)

func TestEvidencePrefix(t *testing.T) {
	got := EvidencePrefix("job-1", entities.EvidenceBefore, "mech-1")
	if got != "jobs/job-1/before/mech-1/" {
		t.Fatalf("unexpected prefix %q", got)
	}
}

func TestMemoryEvidenceStore(t *testing.T) {
	s := NewMemoryEvidenceStore()
	s.Add("job-1", entities.EvidenceBefore, "mech-1", 2)
	s.Add("job-1", entities.EvidenceBefore, "mech-1", 1)

	n, err := s.CountEvidence(context.Background(), "job-1", entities.EvidenceBefore, "mech-1")
	if err != nil || n != 3 {
		t.Fatalf("expected 3, got %d err=%v", n, err)
	}
	n, _ = s.CountEvidence(context.Background(), "job-1", entities.EvidenceAfter, "mech-1")
	if n != 0 {
		t.Fatalf("after photos must be counted separately, got %d", n)
	}
	n, _ = s.CountEvidence(context.Background(), "job-1", entities.EvidenceBefore, "cust-1")
	if n != 0 {
		t.Fatalf("photos are counted per actor, got %d", n)
	}
}
