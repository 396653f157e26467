package constants

import "time"

const (
	DatabaseTimeout = 5 * time.Second
	RequestTimeout  = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	SessionTTL     = 24 * time.Hour
	SessionIDSize  = 21
	MatchIDSize    = 12
	MinPasswordLen = 8
)

const (
	RecentMatchesLimit = 20
)
