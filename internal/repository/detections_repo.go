package repository

import (
	"context"
	"errors"

	"stresswatch/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// DetectionsRepo is the append-only detection history store. There is no
// update or delete: records are immutable facts, and subject deletion
// cascades at the schema level.
type DetectionsRepo interface {
	// Insert persists one record. Each insert is atomic; concurrent inserts
	// for the same subject are linearizable at the store level.
	Insert(ctx context.Context, rec domain.DetectionRecord) error

	// ListBySubject returns the subject's full history, newest first
	// (ordered by the reading timestamp, not by insertion order).
	ListBySubject(ctx context.Context, subjectID string) ([]domain.DetectionRecord, error)

	// Latest returns the record with the maximum timestamp, or nil when the
	// history is empty. The derived condition label is always computed from
	// this record.
	Latest(ctx context.Context, subjectID string) (*domain.DetectionRecord, error)
}
