package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stresswatch/internal/domain"
)

// PostgresDetectionsRepo stores detection records in the detections table.
type PostgresDetectionsRepo struct {
	db *sql.DB
}

func NewPostgresDetectionsRepo(db *sql.DB) *PostgresDetectionsRepo {
	return &PostgresDetectionsRepo{db: db}
}

var _ DetectionsRepo = (*PostgresDetectionsRepo)(nil)

const detectionColumns = `
	detection_id::text,
	subject_id::text,
	bvp,
	eda,
	temperature,
	activity,
	result,
	COALESCE(advice, '') AS advice,
	timestamp,
	created_at
`

func (r *PostgresDetectionsRepo) Insert(ctx context.Context, rec domain.DetectionRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO detections
			(detection_id, subject_id, bvp, eda, temperature, activity, result, advice, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`,
		rec.DetectionID,
		rec.SubjectID,
		rec.BVP,
		rec.EDA,
		rec.Temp,
		rec.Activity.String(),
		rec.Result,
		rec.Advice,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert detection for subject %s: %w", rec.SubjectID, err)
	}
	return nil
}

func (r *PostgresDetectionsRepo) ListBySubject(ctx context.Context, subjectID string) ([]domain.DetectionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+detectionColumns+`
		FROM detections
		WHERE subject_id = $1
		ORDER BY timestamp DESC`,
		subjectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list detections for subject %s: %w", subjectID, err)
	}
	defer rows.Close()

	var records []domain.DetectionRecord
	for rows.Next() {
		rec, err := scanDetection(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list detections for subject %s: %w", subjectID, err)
	}
	return records, nil
}

func (r *PostgresDetectionsRepo) Latest(ctx context.Context, subjectID string) (*domain.DetectionRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+detectionColumns+`
		FROM detections
		WHERE subject_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`,
		subjectID,
	)

	rec, err := scanDetection(row)
	if err == sql.ErrNoRows {
		// empty history is a regular state, not an error
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest detection for subject %s: %w", subjectID, err)
	}
	return &rec, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDetection(row rowScanner) (domain.DetectionRecord, error) {
	var rec domain.DetectionRecord
	var activity string
	err := row.Scan(
		&rec.DetectionID,
		&rec.SubjectID,
		&rec.BVP,
		&rec.EDA,
		&rec.Temp,
		&activity,
		&rec.Result,
		&rec.Advice,
		&rec.Timestamp,
		&rec.CreatedAt,
	)
	if err != nil {
		return domain.DetectionRecord{}, err
	}
	level, err := domain.ParseActivityLevel(activity)
	if err != nil {
		return domain.DetectionRecord{}, fmt.Errorf("detection %s: stored activity %q: %w", rec.DetectionID, activity, err)
	}
	rec.Activity = level
	return rec, nil
}
