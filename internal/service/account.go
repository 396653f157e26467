package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fragstats/internal/auth"
	"fragstats/internal/constants"
	"fragstats/internal/domain"
	"fragstats/internal/repository"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type AccountService struct {
	db        *sql.DB
	accounts  *repository.AccountRepository
	summaries *repository.SummaryRepository
	sessions  auth.SessionStore
	tokens    *auth.TokenIssuer
	logger    zerolog.Logger
}

func NewAccountService(
	db *sql.DB,
	accounts *repository.AccountRepository,
	summaries *repository.SummaryRepository,
	sessions auth.SessionStore,
	tokens *auth.TokenIssuer,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		db:        db,
		accounts:  accounts,
		summaries: summaries,
		sessions:  sessions,
		tokens:    tokens,
		logger:    logger,
	}
}

// Register creates the account together with its all-zero summary row, so a
// profile lookup is valid from the moment the account exists.
func (s *AccountService) Register(ctx context.Context, username, password string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidAccount)
	}
	if len(password) < constants.MinPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidAccount, constants.MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.accounts.WithTx(tx).Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create account")
		return nil, err
	}
	if err := s.summaries.WithTx(tx).Replace(ctx, account.ID, domain.Summary{}); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to seed summary")
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Str("username", username).Msg("account registered")
	return account, nil
}

// Login verifies the credentials, records a fresh session, and returns a
// bearer token carrying it.
func (s *AccountService) Login(ctx context.Context, username, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	sessionID, err := gonanoid.New(constants.SessionIDSize)
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	if err := s.sessions.Save(ctx, sessionID, account.ID, constants.SessionTTL); err != nil {
		s.logger.Error().Err(err).Str("account_id", account.ID).Msg("failed to save session")
		return "", err
	}

	token, err := s.tokens.Issue(account.ID, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info().Str("account_id", account.ID).Str("username", username).Msg("login succeeded")
	return token, nil
}

func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Revoke(ctx, sessionID)
}

// Delete removes the account and, through cascading deletes, its match
// records and summary. The live session goes with it.
func (s *AccountService) Delete(ctx context.Context, accountID, sessionID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.accounts.Delete(ctx, accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("account_id", accountID).Msg("failed to revoke session after account deletion")
	}
	return nil
}
