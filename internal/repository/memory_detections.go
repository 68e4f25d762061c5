package repository

import (
	"context"
	"sort"
	"sync"

	"stresswatch/internal/domain"
)

// MemoryDetectionsRepo keeps detection histories in memory. Used when the DB
// is disabled and as the store in service tests.
type MemoryDetectionsRepo struct {
	mu        sync.RWMutex
	bySubject map[string][]domain.DetectionRecord
}

func NewMemoryDetectionsRepo() *MemoryDetectionsRepo {
	return &MemoryDetectionsRepo{
		bySubject: map[string][]domain.DetectionRecord{},
	}
}

var _ DetectionsRepo = (*MemoryDetectionsRepo)(nil)

func (r *MemoryDetectionsRepo) Insert(_ context.Context, rec domain.DetectionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySubject[rec.SubjectID] = append(r.bySubject[rec.SubjectID], rec)
	return nil
}

func (r *MemoryDetectionsRepo) ListBySubject(_ context.Context, subjectID string) ([]domain.DetectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.DetectionRecord, len(r.bySubject[subjectID]))
	copy(records, r.bySubject[subjectID])
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

func (r *MemoryDetectionsRepo) Latest(_ context.Context, subjectID string) (*domain.DetectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.DetectionRecord
	for i := range r.bySubject[subjectID] {
		rec := r.bySubject[subjectID][i]
		if latest == nil || rec.Timestamp.After(latest.Timestamp) {
			latest = &rec
		}
	}
	if latest == nil {
		return nil, nil
	}
	out := *latest
	return &out, nil
}

// DeleteBySubject mirrors the schema-level cascade for the in-memory pair.
func (r *MemoryDetectionsRepo) DeleteBySubject(_ context.Context, subjectID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bySubject, subjectID)
}
