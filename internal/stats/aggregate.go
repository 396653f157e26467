// Package stats rebuilds an account's aggregate summary from its full match
// set. Callers run it after every insert, delete, or reset of the set and
// persist the result wholesale; nothing here keeps running deltas, so a
// rebuilt summary cannot drift from its source records.
package stats

import (
	"math"

	"fragstats/internal/domain"
)

// Aggregate computes the summary for the given match set. It is a pure
// function: same records in, bit-identical summary out, in any input order.
//
// Rounding happens here, exactly once. kd ratio and kills per round carry
// two decimals, win percentage one, damage per round none, so the persisted
// summary and anything rendered from it always agree.
func Aggregate(records []domain.MatchRecord) domain.Summary {
	var s domain.Summary
	if len(records) == 0 {
		return s
	}

	for _, r := range records {
		s.Kills += r.Kills
		s.Deaths += r.Deaths
		s.Assists += r.Assists
		s.TotalDamage += r.Damage
		s.TotalRounds += r.Rounds()
		if r.Outcome == domain.OutcomeWin {
			s.Wins++
		}
	}
	s.TotalGames = len(records)

	if s.Deaths > 0 {
		s.KDRatio = round2(float64(s.Kills) / float64(s.Deaths))
	} else {
		// With zero deaths the ratio is the raw kill count, not infinity.
		// This branch intentionally skips rounding, matching the stored
		// behavior the rest of the system expects.
		s.KDRatio = float64(s.Kills)
	}

	if s.TotalRounds > 0 {
		s.DamagePerRound = math.Round(float64(s.TotalDamage) / float64(s.TotalRounds))
		s.KillsPerRound = round2(float64(s.Kills) / float64(s.TotalRounds))
	}

	// TotalGames > 0 here, so the division is safe.
	s.WinPercentage = round1(float64(s.Wins) / float64(s.TotalGames) * 100)

	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
