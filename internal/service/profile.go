package service

import (
	"context"
	"database/sql"
	"errors"

	"fragstats/internal/constants"
	"fragstats/internal/domain"
	"fragstats/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ProfileService serves the read side: public lookups by username and the
// authenticated dashboard.
type ProfileService struct {
	accounts  *repository.AccountRepository
	matches   *repository.MatchRepository
	summaries *repository.SummaryRepository
	logger    zerolog.Logger
}

func NewProfileService(
	accounts *repository.AccountRepository,
	matches *repository.MatchRepository,
	summaries *repository.SummaryRepository,
	logger zerolog.Logger,
) *ProfileService {
	return &ProfileService{accounts: accounts, matches: matches, summaries: summaries, logger: logger}
}

type Profile struct {
	Username string
	Summary  domain.Summary
}

type Dashboard struct {
	Username      string
	Summary       domain.Summary
	RecentMatches []domain.MatchRecord
	TotalMatches  int
}

func (s *ProfileService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	summary, err := s.summaries.Get(ctx, account.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to load summary")
		return nil, err
	}

	return &Profile{Username: account.Username, Summary: *summary}, nil
}

func (s *ProfileService) GetProfileMatches(ctx context.Context, username string) ([]domain.MatchRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return s.matches.ListByAccount(ctx, account.ID)
}

// GetDashboard assembles the signed-in view. The three reads are independent,
// so they run concurrently.
func (s *ProfileService) GetDashboard(ctx context.Context, accountID string) (*Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	var account *domain.Account
	var summary *domain.Summary
	var records []domain.MatchRecord

	g.Go(func() error {
		var err error
		account, err = s.accounts.GetByID(gCtx, accountID)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = s.summaries.Get(gCtx, accountID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.matches.ListByAccount(gCtx, accountID)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		s.logger.Error().Err(err).Str("account_id", accountID).Msg("failed to load dashboard")
		return nil, err
	}

	recent := records
	if len(recent) > constants.RecentMatchesLimit {
		recent = recent[:constants.RecentMatchesLimit]
	}

	return &Dashboard{
		Username:      account.Username,
		Summary:       *summary,
		RecentMatches: recent,
		TotalMatches:  len(records),
	}, nil
}
