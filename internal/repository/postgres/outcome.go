package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dtroode/approver/internal/model"
)

var _ model.OutcomeStore = (*OutcomeRepository)(nil)

type OutcomeRepository struct {
	db *sql.DB
}

func NewOutcomeRepository(db *sql.DB) *OutcomeRepository {
	return &OutcomeRepository{
		db: db,
	}
}

func (r *OutcomeRepository) Record(ctx context.Context, o model.Outcome) error {
	query := `INSERT INTO approval_outcomes (id, cycle_id, session_id, user_id, kind, result, choice, message, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	var choice sql.NullInt32
	if o.Choice != nil {
		choice = sql.NullInt32{Int32: int32(*o.Choice), Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.CycleID, o.SessionID, o.UserID, string(o.Kind), string(o.Result), choice, o.Message, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}

	return nil
}

// ListByUser returns the most recent outcomes of userID, newest first.
func (r *OutcomeRepository) ListByUser(ctx context.Context, userID string, limit int) ([]model.Outcome, error) {
	query := `SELECT id, cycle_id, session_id, user_id, kind, result, choice, message, created_at
			  FROM approval_outcomes WHERE user_id = $1
			  ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []model.Outcome
	for rows.Next() {
		var (
			o      model.Outcome
			kind   string
			result string
			choice sql.NullInt32
		)
		if err := rows.Scan(&o.ID, &o.CycleID, &o.SessionID, &o.UserID, &kind, &result, &choice, &o.Message, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Kind = model.RequestKind(kind)
		o.Result = model.OutcomeResult(result)
		if choice.Valid {
			c := int(choice.Int32)
			o.Choice = &c
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	return outcomes, nil
}
