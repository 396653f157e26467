package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fragstats/internal/domain"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

var ErrUsernameTaken = errors.New("username already exists")

type AccountRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewAccountRepository(sqlDB *sql.DB, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{q: sqlDB, logger: logger}
}

func (r *AccountRepository) WithTx(tx *sql.Tx) *AccountRepository {
	return &AccountRepository{q: tx, logger: r.logger}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO accounts (id, username, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, account.ID, account.Username, account.PasswordHash, account.CreatedAt, account.UpdatedAt)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrUsernameTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.scanAccount(r.q.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts
		WHERE id = ?
	`, id))
}

func (r *AccountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.scanAccount(r.q.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at, updated_at
		FROM accounts
		WHERE username = ?
	`, username))
}

func (r *AccountRepository) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Delete removes the account row; match records and the summary row follow
// via ON DELETE CASCADE.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	r.logger.Info().Str("account_id", id).Msg("account deleted")
	return nil
}
