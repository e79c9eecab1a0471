package storage

import (
	"context"
	"sync"

	"mecanica_jobs/internal/domain/entities"
	"mecanica_jobs/internal/usecase/interfaces"
)

// MemoryEvidenceStore is the evidence store of the memory storage driver.
type MemoryEvidenceStore struct {
	mu     sync.Mutex
	counts map[string]int
}

var _ interfaces.IEvidenceStore = (*MemoryEvidenceStore)(nil)

func NewMemoryEvidenceStore() *MemoryEvidenceStore {
	return &MemoryEvidenceStore{counts: map[string]int{}}
}

// Add records n photos for the job/category/actor.
func (s *MemoryEvidenceStore) Add(jobID string, category entities.EvidenceCategory, actorID string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[EvidencePrefix(jobID, category, actorID)] += n
}

func (s *MemoryEvidenceStore) CountEvidence(_ context.Context, jobID string, category entities.EvidenceCategory, actorID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[EvidencePrefix(jobID, category, actorID)], nil
}
