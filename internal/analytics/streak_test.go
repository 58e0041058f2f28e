package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lifedash/questlog/internal/model"
)

func entries(values ...float64) []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(values))
	for i, v := range values {
		out[i] = model.HistoryEntry{Date: "2024-01-" + twoDigits(i+1), Value: v}
	}
	return out
}

func twoDigits(n int) string {
	return string(rune('0'+n/10)) + string(rune('0'+n%10))
}

func TestStreaks_Example(t *testing.T) {
	history := []model.HistoryEntry{
		{Date: "2024-01-01", Value: 1},
		{Date: "2024-01-02", Value: 1},
		{Date: "2024-01-03", Value: 0},
		{Date: "2024-01-04", Value: 2},
		{Date: "2024-01-05", Value: 3},
	}

	info := Streaks(history)

	assert.Equal(t, 2, info.Streak)
	assert.Equal(t, 2, info.BestStreak)
	assert.Equal(t, 80, info.CompletionRate)
}

func TestStreaks_EmptyHistory(t *testing.T) {
	assert.Equal(t, StreakInfo{}, Streaks(nil))
}

func TestCurrentStreak_BrokenByTrailingZero(t *testing.T) {
	assert.Equal(t, 0, CurrentStreak(entries(1, 1, 1, 0)))
}

func TestBestStreak_LongestRunWins(t *testing.T) {
	assert.Equal(t, 3, BestStreak(entries(1, 1, 1, 0, 2, 2)))
	assert.Equal(t, 2, CurrentStreak(entries(1, 1, 1, 0, 2, 2)))
}

func TestCompletionRate_CountsZeroDaysInDenominator(t *testing.T) {
	// One of three logged days is zero: 2/3 rounds to 67.
	assert.Equal(t, 67, CompletionRate(entries(1, 0, 4)))
}

func TestPercent(t *testing.T) {
	cases := []struct {
		name            string
		current, target float64
		want            int
	}{
		{"no target", 5, 0, 0},
		{"negative target", 5, -1, 0},
		{"half", 5, 10, 50},
		{"rounds half up", 1, 8, 13},
		{"capped", 30, 10, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Percent(tc.current, tc.target))
		})
	}
}
