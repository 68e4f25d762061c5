package repository

import (
	"context"
	"database/sql"
	"fmt"

	"stresswatch/internal/domain"
)

// PostgresSubjectsRepo stores subject rows in the subjects table.
type PostgresSubjectsRepo struct {
	db *sql.DB
}

func NewPostgresSubjectsRepo(db *sql.DB) *PostgresSubjectsRepo {
	return &PostgresSubjectsRepo{db: db}
}

var _ SubjectsRepo = (*PostgresSubjectsRepo)(nil)

const subjectColumns = `
	subject_id::text,
	name,
	age,
	cohort,
	gender,
	COALESCE(image_ref, '') AS image_ref,
	condition
`

func (r *PostgresSubjectsRepo) Create(ctx context.Context, s domain.Subject) error {
	if s.Condition == "" {
		s.Condition = domain.ConditionNotYetMeasured
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subjects (subject_id, name, age, cohort, gender, image_ref, condition)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		s.SubjectID, s.Name, s.Age, s.Group, s.Gender, s.ImageRef, string(s.Condition),
	)
	if err != nil {
		return fmt.Errorf("create subject %s: %w", s.SubjectID, err)
	}
	return nil
}

func (r *PostgresSubjectsRepo) Get(ctx context.Context, subjectID string) (*domain.Subject, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		WHERE subject_id = $1`,
		subjectID,
	)

	s, err := scanSubject(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get subject %s: %w", subjectID, err)
	}
	return &s, nil
}

func (r *PostgresSubjectsRepo) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		ORDER BY name ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, fmt.Errorf("list subjects: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (r *PostgresSubjectsRepo) Update(ctx context.Context, s domain.Subject) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subjects
		SET name = $2, age = $3, cohort = $4, gender = $5, image_ref = NULLIF($6, '')
		WHERE subject_id = $1`,
		s.SubjectID, s.Name, s.Age, s.Group, s.Gender, s.ImageRef,
	)
	if err != nil {
		return fmt.Errorf("update subject %s: %w", s.SubjectID, err)
	}
	return requireRowAffected(res, s.SubjectID)
}

func (r *PostgresSubjectsRepo) Delete(ctx context.Context, subjectID string) error {
	// detections has ON DELETE CASCADE on subject_id
	res, err := r.db.ExecContext(ctx, `DELETE FROM subjects WHERE subject_id = $1`, subjectID)
	if err != nil {
		return fmt.Errorf("delete subject %s: %w", subjectID, err)
	}
	return requireRowAffected(res, subjectID)
}

func (r *PostgresSubjectsRepo) UpdateCondition(ctx context.Context, subjectID string, label domain.ConditionLabel) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subjects SET condition = $2 WHERE subject_id = $1`,
		subjectID, string(label),
	)
	if err != nil {
		return fmt.Errorf("update condition for subject %s: %w", subjectID, err)
	}
	return requireRowAffected(res, subjectID)
}

func requireRowAffected(res sql.Result, subjectID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("subject %s: rows affected: %w", subjectID, err)
	}
	if n == 0 {
		return fmt.Errorf("subject %s: %w", subjectID, ErrNotFound)
	}
	return nil
}

func scanSubject(row rowScanner) (domain.Subject, error) {
	var s domain.Subject
	var condition string
	err := row.Scan(&s.SubjectID, &s.Name, &s.Age, &s.Group, &s.Gender, &s.ImageRef, &condition)
	if err != nil {
		return domain.Subject{}, err
	}
	s.Condition = domain.ConditionLabel(condition)
	if !s.Condition.Valid() {
		s.Condition = domain.ConditionNotYetMeasured
	}
	return s, nil
}
