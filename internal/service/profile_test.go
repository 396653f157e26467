package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"fragstats/internal/constants"
	"fragstats/internal/domain"
	"fragstats/internal/repository"

	"github.com/rs/zerolog"
)

func newProfileService(db *sql.DB) *ProfileService {
	return NewProfileService(
		repository.NewAccountRepository(db, zerolog.Nop()),
		repository.NewMatchRepository(db, zerolog.Nop()),
		repository.NewSummaryRepository(db, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func TestGetProfileReturnsStoredSummary(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	matchSvc := newMatchService(db)
	profileSvc := newProfileService(db)

	if _, err := matchSvc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeWin, 15, 10, 5, 3200, 7, 6)); err != nil {
		t.Fatalf("add match: %v", err)
	}
	if _, err := matchSvc.AddMatch(ctx, matchInput("acct-1", domain.OutcomeLoss, 8, 12, 3, 2400, 5, 7)); err != nil {
		t.Fatalf("add match: %v", err)
	}

	profile, err := profileSvc.GetProfile(ctx, "player_one")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Username != "player_one" {
		t.Errorf("expected username player_one, got %q", profile.Username)
	}
	if profile.Summary.KDRatio != 1.05 || profile.Summary.TotalGames != 2 {
		t.Errorf("unexpected summary %+v", profile.Summary)
	}
}

func TestGetProfileUnknownUsername(t *testing.T) {
	db := openTestDB(t)
	profileSvc := newProfileService(db)

	if _, err := profileSvc.GetProfile(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := profileSvc.GetProfileMatches(context.Background(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for matches, got %v", err)
	}
}

func TestGetDashboardCapsRecentMatches(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	seedAccount(t, db, "acct-1", "player_one")
	matchSvc := newMatchService(db)
	profileSvc := newProfileService(db)

	total := constants.RecentMatchesLimit + 5
	for i := 0; i < total; i++ {
		in := matchInput("acct-1", domain.OutcomeWin, 10, 8, 1, 1500, 13, 5)
		in.PlayedAt = fmt.Sprintf("%02d:00", i%24)
		if _, err := matchSvc.AddMatch(ctx, in); err != nil {
			t.Fatalf("add match %d: %v", i, err)
		}
	}

	dashboard, err := profileSvc.GetDashboard(ctx, "acct-1")
	if err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if dashboard.Username != "player_one" {
		t.Errorf("expected username player_one, got %q", dashboard.Username)
	}
	if dashboard.TotalMatches != total {
		t.Errorf("expected %d total matches, got %d", total, dashboard.TotalMatches)
	}
	if len(dashboard.RecentMatches) != constants.RecentMatchesLimit {
		t.Errorf("expected recent matches capped at %d, got %d", constants.RecentMatchesLimit, len(dashboard.RecentMatches))
	}
	if dashboard.Summary.TotalGames != total {
		t.Errorf("expected summary over all %d games, got %d", total, dashboard.Summary.TotalGames)
	}
}

func TestGetDashboardUnknownAccount(t *testing.T) {
	db := openTestDB(t)
	profileSvc := newProfileService(db)

	if _, err := profileSvc.GetDashboard(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
