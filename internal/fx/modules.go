package fx

import (
	"fragstats/internal/auth"
	"fragstats/internal/config"
	"fragstats/internal/database"
	"fragstats/internal/logger"
	"fragstats/internal/repository"
	"fragstats/internal/server"
	"fragstats/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideSessionStore(rdb *redis.Client, log zerolog.Logger) auth.SessionStore {
	return auth.NewRedisSessionStore(rdb, log)
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// auth
	fx.Provide(auth.NewRedisClient),
	fx.Provide(ProvideSessionStore),
	fx.Provide(auth.NewTokenIssuer),
	// repos
	fx.Provide(repository.NewAccountRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewSummaryRepository),
	// svc
	fx.Provide(service.NewAccountService),
	fx.Provide(service.NewMatchService),
	fx.Provide(service.NewProfileService),
	// server
	fx.Provide(server.NewServer),
)
