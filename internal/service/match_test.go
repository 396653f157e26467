package service

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"fragstats/internal/database"
	"fragstats/internal/domain"
	"fragstats/internal/repository"

	"github.com/rs/zerolog"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedAccount(t *testing.T, db *sql.DB, id, username string) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	accounts := repository.NewAccountRepository(db, zerolog.Nop())
	summaries := repository.NewSummaryRepository(db, zerolog.Nop())

	err := accounts.Create(ctx, &domain.Account{
		ID: id, Username: username, PasswordHash: "x",
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := summaries.Replace(ctx, id, domain.Summary{}); err != nil {
		t.Fatalf("seed summary: %v", err)
	}
}

func newMatchService(db *sql.DB) *MatchService {
	return NewMatchService(
		db,
		repository.NewMatchRepository(db, zerolog.Nop()),
		repository.NewSummaryRepository(db, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func matchInput(accountID string, outcome domain.Outcome, kills, deaths, assists, damage, won, lost int) *domain.MatchRecord {
	return &domain.MatchRecord{
		AccountID:  accountID,
		PlayedOn:   "2026-08-20",
		PlayedAt:   "21:30",
		Category:   domain.CategoryRanked,
		Outcome:    outcome,
		MapName:    "Ascent",
		RoundsWon:  won,
		RoundsLost: lost,
		Damage:     damage,
		Kills:      kills,
		Deaths:     deaths,
		Assists:    assists,
	}
}

func getSummary(t *testing.T, db *sql.DB, accountID string) domain.Summary {
	t.Helper()
	summaries := repository.NewSummaryRepository(db, zerolog.Nop())
	got, err := summaries.Get(context.Background(), accountID)
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	return *got
}

func TestAddMatchRebuildsSummary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	svc := newMatchService(db)

	created, err := svc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeWin, 15, 10, 5, 3200, 7, 6))
	if err != nil {
		t.Fatalf("add first match: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated match id")
	}

	if _, err := svc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeLoss, 8, 12, 3, 2400, 5, 7)); err != nil {
		t.Fatalf("add second match: %v", err)
	}

	want := domain.Summary{
		KDRatio: 1.05, DamagePerRound: 224, WinPercentage: 50.0, KillsPerRound: 0.92,
		Wins: 1, Kills: 23, Deaths: 22, Assists: 8,
		TotalGames: 2, TotalRounds: 25, TotalDamage: 5600,
	}
	if got := getSummary(t, db, "acct-1"); got != want {
		t.Fatalf("summary after two matches:\n got %+v\nwant %+v", got, want)
	}
}

func TestAddMatchRejectsInvalidRecordAndLeavesSummaryUntouched(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	svc := newMatchService(db)

	if _, err := svc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeWin, 10, 5, 1, 1500, 13, 4)); err != nil {
		t.Fatalf("add valid match: %v", err)
	}
	before := getSummary(t, db, "acct-1")

	bad := matchInput("acct-1", domain.OutcomeWin, -1, 5, 1, 1500, 13, 4)
	if _, err := svc.AddMatch(ctx, bad); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}

	bad = matchInput("acct-1", "Forfeit", 1, 5, 1, 1500, 13, 4)
	if _, err := svc.AddMatch(ctx, bad); !errors.Is(err, ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord for bad outcome, got %v", err)
	}

	if after := getSummary(t, db, "acct-1"); after != before {
		t.Fatalf("summary changed by rejected record:\nbefore %+v\n after %+v", before, after)
	}
	records, err := svc.ListMatches(ctx, "acct-1")
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 stored record, got %d", len(records))
	}
}

func TestDeleteOnlyMatchReturnsSummaryToZero(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	svc := newMatchService(db)

	created, err := svc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeWin, 5, 0, 2, 900, 13, 2))
	if err != nil {
		t.Fatalf("add match: %v", err)
	}

	// single record with zero deaths: kd ratio is the raw kill count
	if got := getSummary(t, db, "acct-1"); got.KDRatio != 5 {
		t.Fatalf("expected kd ratio 5, got %v", got.KDRatio)
	}

	if err := svc.DeleteMatch(ctx, "acct-1", created.ID); err != nil {
		t.Fatalf("delete match: %v", err)
	}

	if got := getSummary(t, db, "acct-1"); got != (domain.Summary{}) {
		t.Fatalf("expected all-zero summary after deleting only match, got %+v", got)
	}
}

func TestDeleteMatchUnknownIDIsNotFound(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	svc := newMatchService(db)

	if err := svc.DeleteMatch(ctx, "acct-1", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestResetStatsClearsRecordsAndSummary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	svc := newMatchService(db)

	for i := 0; i < 3; i++ {
		if _, err := svc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeWin, 10+i, 8, 2, 2000, 13, i)); err != nil {
			t.Fatalf("add match %d: %v", i, err)
		}
	}

	summary, err := svc.ResetStats(ctx, "acct-1")
	if err != nil {
		t.Fatalf("reset stats: %v", err)
	}
	if *summary != (domain.Summary{}) {
		t.Fatalf("expected all-zero summary from reset, got %+v", *summary)
	}

	if got := getSummary(t, db, "acct-1"); got != (domain.Summary{}) {
		t.Fatalf("expected stored all-zero summary, got %+v", got)
	}
	records, err := svc.ListMatches(ctx, "acct-1")
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty match set after reset, got %d", len(records))
	}
}
