package domain

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryRanked     Category = "Ranked"
	CategoryCasual     Category = "Casual"
	CategoryTournament Category = "Tournament"
	CategoryPractice   Category = "Practice"
)

type Outcome string

const (
	OutcomeWin  Outcome = "Win"
	OutcomeLoss Outcome = "Loss"
	OutcomeDraw Outcome = "Draw"
)

type Account struct {
	ID           string // uuid
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MatchRecord is one submitted game result. Records are immutable once
// created: there is no edit operation, only delete.
type MatchRecord struct {
	ID         string // nanoid
	AccountID  string
	PlayedOn   string // calendar date, "2006-01-02"
	PlayedAt   string // local time of day, "15:04", independent of PlayedOn
	Category   Category
	Outcome    Outcome
	MapName    string
	RoundsWon  int
	RoundsLost int
	Damage     int
	Kills      int
	Deaths     int
	Assists    int
	CreatedAt  time.Time
}

// Rounds is derived, never stored.
func (m *MatchRecord) Rounds() int {
	return m.RoundsWon + m.RoundsLost
}

const (
	playedOnLayout = "2006-01-02"
	playedAtLayout = "15:04"
)

// Validate enforces the record-creation boundary rules. Aggregation assumes
// every record already passed this check.
func (m *MatchRecord) Validate() error {
	if m.AccountID == "" {
		return fmt.Errorf("account id is required")
	}
	if m.MapName == "" {
		return fmt.Errorf("map name is required")
	}
	if m.PlayedOn == "" {
		return fmt.Errorf("played date is required")
	}
	if _, err := time.Parse(playedOnLayout, m.PlayedOn); err != nil {
		return fmt.Errorf("played date must be formatted as %s", playedOnLayout)
	}
	if m.PlayedAt == "" {
		return fmt.Errorf("played time is required")
	}
	if _, err := time.Parse(playedAtLayout, m.PlayedAt); err != nil {
		return fmt.Errorf("played time must be formatted as %s", playedAtLayout)
	}

	switch m.Category {
	case CategoryRanked, CategoryCasual, CategoryTournament, CategoryPractice:
	default:
		return fmt.Errorf("unknown category %q", m.Category)
	}

	switch m.Outcome {
	case OutcomeWin, OutcomeLoss, OutcomeDraw:
	default:
		return fmt.Errorf("unknown outcome %q", m.Outcome)
	}

	counters := []struct {
		name  string
		value int
	}{
		{"rounds_won", m.RoundsWon},
		{"rounds_lost", m.RoundsLost},
		{"damage", m.Damage},
		{"kills", m.Kills},
		{"deaths", m.Deaths},
		{"assists", m.Assists},
	}
	for _, c := range counters {
		if c.value < 0 {
			return fmt.Errorf("%s must not be negative", c.name)
		}
	}

	return nil
}

// Summary is the derived aggregate for one account: a cache of a pure
// function over the account's match set, rebuilt wholesale after every
// mutation and never patched field by field.
type Summary struct {
	KDRatio        float64
	DamagePerRound float64
	WinPercentage  float64
	KillsPerRound  float64
	Wins           int
	Kills          int
	Deaths         int
	Assists        int
	TotalGames     int
	TotalRounds    int
	TotalDamage    int
}
