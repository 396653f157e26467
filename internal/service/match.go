package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fragstats/internal/constants"
	"fragstats/internal/domain"
	"fragstats/internal/repository"
	"fragstats/internal/stats"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// MatchService owns every mutation of an account's match set. Each mutation
// and the wholesale summary rebuild it triggers commit in one transaction,
// so a failure partway through leaves the previously stored summary intact.
type MatchService struct {
	db        *sql.DB
	matches   *repository.MatchRepository
	summaries *repository.SummaryRepository
	logger    zerolog.Logger
}

func NewMatchService(
	db *sql.DB,
	matches *repository.MatchRepository,
	summaries *repository.SummaryRepository,
	logger zerolog.Logger,
) *MatchService {
	return &MatchService{db: db, matches: matches, summaries: summaries, logger: logger}
}

func (s *MatchService) AddMatch(ctx context.Context, record *domain.MatchRecord) (*domain.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	id, err := gonanoid.New(constants.MatchIDSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate match id: %w", err)
	}
	record.ID = id
	record.CreatedAt = time.Now()

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matches.WithTx(tx).Insert(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("account_id", record.AccountID).Msg("failed to insert match record")
		return nil, err
	}
	if err := s.rebuildSummary(ctx, tx, record.AccountID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().
		Str("account_id", record.AccountID).
		Str("match_id", record.ID).
		Str("map", record.MapName).
		Str("outcome", string(record.Outcome)).
		Msg("match record added")
	return record, nil
}

func (s *MatchService) DeleteMatch(ctx context.Context, accountID, recordID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matches.WithTx(tx).Delete(ctx, accountID, recordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		s.logger.Error().Err(err).Str("match_id", recordID).Msg("failed to delete match record")
		return err
	}
	if err := s.rebuildSummary(ctx, tx, accountID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().Str("account_id", accountID).Str("match_id", recordID).Msg("match record deleted")
	return nil
}

// ResetStats clears the whole match set and brings the summary back to the
// all-zero state.
func (s *MatchService) ResetStats(ctx context.Context, accountID string) (*domain.Summary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deleted, err := s.matches.WithTx(tx).DeleteAllForAccount(ctx, accountID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to clear match records")
		return nil, err
	}
	if err := s.rebuildSummary(ctx, tx, accountID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().Str("account_id", accountID).Int64("deleted", deleted).Msg("stats reset")
	summary := stats.Aggregate(nil)
	return &summary, nil
}

func (s *MatchService) ListMatches(ctx context.Context, accountID string) ([]domain.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.matches.ListByAccount(ctx, accountID)
}

// rebuildSummary re-reads the full match set inside the caller's transaction
// and replaces the stored summary with a fresh aggregate. No incremental
// deltas are trusted.
func (s *MatchService) rebuildSummary(ctx context.Context, tx *sql.Tx, accountID string) error {
	records, err := s.matches.WithTx(tx).ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to load match set for rebuild")
		return err
	}

	summary := stats.Aggregate(records)

	if err := s.summaries.WithTx(tx).Replace(ctx, accountID, summary); err != nil {
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to replace summary")
		return err
	}

	s.logger.Debug().
		Str("account_id", accountID).
		Int("total_games", summary.TotalGames).
		Float64("kd_ratio", summary.KDRatio).
		Msg("summary rebuilt")
	return nil
}
