package analytics

import (
	"math"

	"github.com/lifedash/questlog/internal/model"
)

type StreakInfo struct {
	Streak         int `json:"streak"`
	BestStreak     int `json:"bestStreak"`
	CompletionRate int `json:"completionRate"`
}

// Streaks computes all streak figures for a date-sorted history.
func Streaks(history []model.HistoryEntry) StreakInfo {
	return StreakInfo{
		Streak:         CurrentStreak(history),
		BestStreak:     BestStreak(history),
		CompletionRate: CompletionRate(history),
	}
}

// CurrentStreak counts trailing entries with a positive value. An empty
// history has no streak yet, which is not the same as a broken one.
func CurrentStreak(history []model.HistoryEntry) int {
	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Value <= 0 {
			break
		}
		streak++
	}
	return streak
}

func BestStreak(history []model.HistoryEntry) int {
	best, run := 0, 0
	for _, entry := range history {
		if entry.Value > 0 {
			run++
			if run > best {
				best = run
			}
			continue
		}
		run = 0
	}
	return best
}

// CompletionRate is the share of logged days with a positive value.
// Zero-valued entries count as logged days here even though they break a
// streak.
func CompletionRate(history []model.HistoryEntry) int {
	if len(history) == 0 {
		return 0
	}
	positive := 0
	for _, entry := range history {
		if entry.Value > 0 {
			positive++
		}
	}
	return roundHalfUp(100 * float64(positive) / float64(len(history)))
}

// Percent is progress toward target, capped at 100. A missing or
// non-positive target has no meaningful progress and yields 0.
func Percent(current, target float64) int {
	if target <= 0 {
		return 0
	}
	pct := roundHalfUp(100 * current / target)
	if pct > 100 {
		return 100
	}
	return pct
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
