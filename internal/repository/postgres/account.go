package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtroode/approver/internal/model"
)

var (
	_ model.AccountDirectory = (*AccountRepository)(nil)
	_ model.AccountLister    = (*AccountRepository)(nil)
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (r *AccountRepository) LookupAccount(ctx context.Context, userID string) (model.Account, error) {
	var a model.Account
	query := `SELECT user_id, service_name, username, logo_url
			  FROM accounts WHERE user_id = $1`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&a.UserID, &a.ServiceName, &a.Username, &a.LogoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Account{}, model.ErrNotFound
		}
		return model.Account{}, fmt.Errorf("failed to get account by user id: %w", err)
	}

	return a, nil
}

func (r *AccountRepository) ListAccounts(ctx context.Context) ([]model.Account, error) {
	query := `SELECT user_id, service_name, username, logo_url
			  FROM accounts ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var a model.Account
		if err := rows.Scan(&a.UserID, &a.ServiceName, &a.Username, &a.LogoURL); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

// Upsert enrolls an account or refreshes its display fields.
func (r *AccountRepository) Upsert(ctx context.Context, a model.Account) error {
	query := `INSERT INTO accounts (user_id, service_name, username, logo_url)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_id) DO UPDATE
			  SET service_name = EXCLUDED.service_name, username = EXCLUDED.username,
			      logo_url = EXCLUDED.logo_url, updated_at = now()`

	if _, err := r.db.ExecContext(ctx, query, a.UserID, a.ServiceName, a.Username, a.LogoURL); err != nil {
		return fmt.Errorf("failed to upsert account: %w", err)
	}

	return nil
}
