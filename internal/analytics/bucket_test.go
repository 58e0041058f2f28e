package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/model"
)

func TestBucket_EmptyHistory(t *testing.T) {
	for _, mode := range []Mode{ModeDaily, ModeWeekly, ModeMonthly} {
		points := Bucket(nil, mode)
		require.NotNil(t, points)
		assert.Empty(t, points)
	}
}

func TestBucket_Daily(t *testing.T) {
	history := []model.HistoryEntry{
		{Date: "2024-03-02", Value: 2},
		{Date: "2024-03-01", Value: 1},
	}

	points := Bucket(history, ModeDaily)

	assert.Equal(t, []Point{{Label: "03-01", Value: 1}, {Label: "03-02", Value: 2}}, points)
}

func TestBucket_WeeklySplitsAtISOYearBoundary(t *testing.T) {
	history := []model.HistoryEntry{
		{Date: "2023-12-31", Value: 3}, // Sunday, ISO week 52 of 2023
		{Date: "2024-01-01", Value: 4}, // Monday, ISO week 1 of 2024
		{Date: "2024-01-07", Value: 1}, // Sunday, still week 1
	}

	points := Bucket(history, ModeWeekly)

	assert.Equal(t, []Point{
		{Label: "2023-W52", Value: 3},
		{Label: "2024-W01", Value: 5},
	}, points)
}

func TestBucket_WeeklyUsesISOYearNotCalendarYear(t *testing.T) {
	// 2021-01-01 is a Friday and belongs to ISO week 53 of 2020.
	points := Bucket([]model.HistoryEntry{{Date: "2021-01-01", Value: 1}}, ModeWeekly)

	require.Len(t, points, 1)
	assert.Equal(t, "2020-W53", points[0].Label)
}

func TestBucket_Monthly(t *testing.T) {
	history := []model.HistoryEntry{
		{Date: "2024-01-30", Value: 1},
		{Date: "2024-01-31", Value: 2},
		{Date: "2024-02-01", Value: 5},
		{Date: "2023-11-15", Value: 7},
	}

	points := Bucket(history, ModeMonthly)

	assert.Equal(t, []Point{
		{Label: "2023-11", Value: 7},
		{Label: "2024-01", Value: 3},
		{Label: "2024-02", Value: 5},
	}, points)
}

func TestBucket_SkipsUnparseableDates(t *testing.T) {
	history := []model.HistoryEntry{
		{Date: "not-a-date", Value: 9},
		{Date: "2024-02-01", Value: 1},
	}

	assert.Equal(t, []Point{{Label: "2024-02", Value: 1}}, Bucket(history, ModeMonthly))
	assert.Equal(t, []Point{{Label: "2024-W05", Value: 1}}, Bucket(history, ModeWeekly))
}

func TestBucket_IsDeterministic(t *testing.T) {
	history := []model.HistoryEntry{
		{Date: "2024-05-01", Value: 1},
		{Date: "2024-05-09", Value: 2},
		{Date: "2024-06-01", Value: 3},
	}

	assert.Equal(t, Bucket(history, ModeWeekly), Bucket(history, ModeWeekly))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, Rollup{}, Summarize(nil))

	r := Summarize([]Point{{Label: "a", Value: 2}, {Label: "b", Value: 6}})
	assert.Equal(t, Rollup{Total: 8, Avg: 4, Max: 6}, r)
}
