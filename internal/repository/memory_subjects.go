package repository

import (
	"context"
	"sort"
	"sync"

	"stresswatch/internal/domain"
)

// MemorySubjectsRepo keeps subjects in memory (DB-disabled mode and tests).
type MemorySubjectsRepo struct {
	mu       sync.RWMutex
	subjects map[string]domain.Subject
	cascade  *MemoryDetectionsRepo
}

func NewMemorySubjectsRepo() *MemorySubjectsRepo {
	return &MemorySubjectsRepo{
		subjects: map[string]domain.Subject{},
	}
}

var _ SubjectsRepo = (*MemorySubjectsRepo)(nil)

func (r *MemorySubjectsRepo) Create(_ context.Context, s domain.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.Condition == "" {
		s.Condition = domain.ConditionNotYetMeasured
	}
	r.subjects[s.SubjectID] = s
	return nil
}

func (r *MemorySubjectsRepo) Get(_ context.Context, subjectID string) (*domain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.subjects[subjectID]
	if !ok {
		return nil, ErrNotFound
	}
	out := s
	return &out, nil
}

func (r *MemorySubjectsRepo) List(_ context.Context) ([]domain.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Subject, 0, len(r.subjects))
	for _, s := range r.subjects {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all, nil
}

func (r *MemorySubjectsRepo) Update(_ context.Context, s domain.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.subjects[s.SubjectID]
	if !ok {
		return ErrNotFound
	}
	// profile update never touches the derived condition
	s.Condition = existing.Condition
	r.subjects[s.SubjectID] = s
	return nil
}

func (r *MemorySubjectsRepo) Delete(_ context.Context, subjectID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subjects[subjectID]; !ok {
		return ErrNotFound
	}
	delete(r.subjects, subjectID)
	if r.cascade != nil {
		r.cascade.DeleteBySubject(context.Background(), subjectID)
	}
	return nil
}

// SetCascade registers the detections repo whose per-subject history is
// dropped together with the subject, mirroring the schema-level cascade.
func (r *MemorySubjectsRepo) SetCascade(det *MemoryDetectionsRepo) {
	r.cascade = det
}

func (r *MemorySubjectsRepo) UpdateCondition(_ context.Context, subjectID string, label domain.ConditionLabel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subjects[subjectID]
	if !ok {
		return ErrNotFound
	}
	s.Condition = label
	r.subjects[subjectID] = s
	return nil
}
