package forecasts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new assessment.
func (r *PGRepo) Create(ctx context.Context, assessment Assessment) error {
	const query = `
INSERT INTO assessments (
	id, change_id, title, environment, change_type,
	risk_score, risk_level, confidence, result, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	payload, err := json.Marshal(assessment.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, query,
		assessment.ID,
		assessment.ChangeID,
		assessment.Title,
		string(assessment.Environment),
		string(assessment.ChangeType),
		assessment.RiskScore,
		string(assessment.RiskLevel),
		string(assessment.Confidence),
		payload,
		assessment.CreatedAt,
	)
	return err
}

// GetByID returns an assessment, including its stored result document.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Assessment, error) {
	const query = `
SELECT id, change_id, title, environment, change_type,
       risk_score, risk_level, confidence, result, created_at
FROM assessments
WHERE id = $1`

	var (
		assessment Assessment
		payload    []byte
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&assessment.ID,
		&assessment.ChangeID,
		&assessment.Title,
		&assessment.Environment,
		&assessment.ChangeType,
		&assessment.RiskScore,
		&assessment.RiskLevel,
		&assessment.Confidence,
		&payload,
		&assessment.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	if err != nil {
		return Assessment{}, err
	}

	if len(payload) > 0 {
		var result ForecastResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return Assessment{}, fmt.Errorf("unmarshal result: %w", err)
		}
		assessment.Result = &result
	}
	return assessment, nil
}

// List returns assessment summaries, most recent first. The stored result
// document is omitted from listings.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Assessment, error) {
	const query = `
SELECT id, change_id, title, environment, change_type,
       risk_score, risk_level, confidence, created_at
FROM assessments
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := make([]Assessment, 0, limit)
	for rows.Next() {
		var assessment Assessment
		if err := rows.Scan(
			&assessment.ID,
			&assessment.ChangeID,
			&assessment.Title,
			&assessment.Environment,
			&assessment.ChangeType,
			&assessment.RiskScore,
			&assessment.RiskLevel,
			&assessment.Confidence,
			&assessment.CreatedAt,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, assessment)
	}
	return assessments, rows.Err()
}
