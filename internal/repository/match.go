package repository

import (
	"context"
	"database/sql"
	"fmt"

	"fragstats/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{q: sqlDB, logger: logger}
}

func (r *MatchRepository) WithTx(tx *sql.Tx) *MatchRepository {
	return &MatchRepository{q: tx, logger: r.logger}
}

func (r *MatchRepository) Insert(ctx context.Context, record *domain.MatchRecord) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO match_records (
			id, account_id, played_on, played_at, category, outcome, map_name,
			rounds_won, rounds_lost, damage, kills, deaths, assists, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.AccountID,
		record.PlayedOn,
		record.PlayedAt,
		string(record.Category),
		string(record.Outcome),
		record.MapName,
		record.RoundsWon,
		record.RoundsLost,
		record.Damage,
		record.Kills,
		record.Deaths,
		record.Assists,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match record %s: %w", record.ID, err)
	}
	return nil
}

// Delete removes one record, scoped to its owner so an account can never
// delete another account's match.
func (r *MatchRepository) Delete(ctx context.Context, accountID, recordID string) error {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM match_records WHERE id = ? AND account_id = ?
	`, recordID, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete match record %s: %w", recordID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *MatchRepository) DeleteAllForAccount(ctx context.Context, accountID string) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		DELETE FROM match_records WHERE account_id = ?
	`, accountID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete match records: %w", err)
	}
	return res.RowsAffected()
}

// ListByAccount returns the account's full match set, newest first.
func (r *MatchRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.MatchRecord, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, account_id, played_on, played_at, category, outcome, map_name,
		       rounds_won, rounds_lost, damage, kills, deaths, assists, created_at
		FROM match_records
		WHERE account_id = ?
		ORDER BY played_on DESC, played_at DESC, created_at DESC
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.MatchRecord{}
	for rows.Next() {
		var rec domain.MatchRecord
		var category, outcome string
		err := rows.Scan(
			&rec.ID,
			&rec.AccountID,
			&rec.PlayedOn,
			&rec.PlayedAt,
			&category,
			&outcome,
			&rec.MapName,
			&rec.RoundsWon,
			&rec.RoundsLost,
			&rec.Damage,
			&rec.Kills,
			&rec.Deaths,
			&rec.Assists,
			&rec.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rec.Category = domain.Category(category)
		rec.Outcome = domain.Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}
