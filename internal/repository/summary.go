package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fragstats/internal/domain"

	"github.com/rs/zerolog"
)

type SummaryRepository struct {
	q      DBTX
	logger zerolog.Logger
}

func NewSummaryRepository(sqlDB *sql.DB, logger zerolog.Logger) *SummaryRepository {
	return &SummaryRepository{q: sqlDB, logger: logger}
}

func (r *SummaryRepository) WithTx(tx *sql.Tx) *SummaryRepository {
	return &SummaryRepository{q: tx, logger: r.logger}
}

// Replace overwrites the account's summary row with a freshly aggregated
// one. The row is never updated column by column from deltas.
func (r *SummaryRepository) Replace(ctx context.Context, accountID string, summary domain.Summary) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO account_summaries (
			account_id, kd_ratio, damage_per_round, win_percentage, kills_per_round,
			wins, kills, deaths, assists, total_games, total_rounds, total_damage, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			kd_ratio = excluded.kd_ratio,
			damage_per_round = excluded.damage_per_round,
			win_percentage = excluded.win_percentage,
			kills_per_round = excluded.kills_per_round,
			wins = excluded.wins,
			kills = excluded.kills,
			deaths = excluded.deaths,
			assists = excluded.assists,
			total_games = excluded.total_games,
			total_rounds = excluded.total_rounds,
			total_damage = excluded.total_damage,
			updated_at = excluded.updated_at
	`,
		accountID,
		summary.KDRatio,
		summary.DamagePerRound,
		summary.WinPercentage,
		summary.KillsPerRound,
		summary.Wins,
		summary.Kills,
		summary.Deaths,
		summary.Assists,
		summary.TotalGames,
		summary.TotalRounds,
		summary.TotalDamage,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to replace summary for account %s: %w", accountID, err)
	}
	return nil
}

func (r *SummaryRepository) Get(ctx context.Context, accountID string) (*domain.Summary, error) {
	var s domain.Summary
	err := r.q.QueryRowContext(ctx, `
		SELECT kd_ratio, damage_per_round, win_percentage, kills_per_round,
		       wins, kills, deaths, assists, total_games, total_rounds, total_damage
		FROM account_summaries
		WHERE account_id = ?
	`, accountID).Scan(
		&s.KDRatio,
		&s.DamagePerRound,
		&s.WinPercentage,
		&s.KillsPerRound,
		&s.Wins,
		&s.Kills,
		&s.Deaths,
		&s.Assists,
		&s.TotalGames,
		&s.TotalRounds,
		&s.TotalDamage,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
