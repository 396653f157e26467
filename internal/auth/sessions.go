package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fragstats/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var ErrSessionNotFound = errors.New("session not found or expired")

// SessionStore tracks which session ids are live. A token whose session has
// been revoked is rejected even if its signature and expiry still check out.
type SessionStore interface {
	Save(ctx context.Context, sessionID, accountID string, ttl time.Duration) error
	Check(ctx context.Context, sessionID string) (string, error)
	Revoke(ctx context.Context, sessionID string) error
}

func NewRedisClient(cfg *config.Config, logger zerolog.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logger.Error().Err(err).Str("addr", cfg.RedisAddr).Msg("failed to connect to redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("addr", cfg.RedisAddr).Msg("redis connection established")
	return rdb, nil
}

type RedisSessionStore struct {
	rdb    *redis.Client
	logger zerolog.Logger
}

func NewRedisSessionStore(rdb *redis.Client, logger zerolog.Logger) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, logger: logger}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID, accountID string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(sessionID), accountID, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Check returns the account id the session belongs to.
func (s *RedisSessionStore) Check(ctx context.Context, sessionID string) (string, error) {
	accountID, err := s.rdb.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return "", ErrSessionNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to check session: %w", err)
	}
	return accountID, nil
}

func (s *RedisSessionStore) Revoke(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}
