package repository

import (
	"context"

	"stresswatch/internal/domain"
)

// SubjectsRepo owns subject identity/profile rows. The detection core uses
// only Get and UpdateCondition; the rest backs the registry CRUD surface.
type SubjectsRepo interface {
	Create(ctx context.Context, s domain.Subject) error
	Get(ctx context.Context, subjectID string) (*domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
	Update(ctx context.Context, s domain.Subject) error
	Delete(ctx context.Context, subjectID string) error

	// UpdateCondition overwrites the denormalized condition label. It is the
	// only mutation the detection core performs on a subject.
	UpdateCondition(ctx context.Context, subjectID string, label domain.ConditionLabel) error
}
