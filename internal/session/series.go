package session

import (
	"github.com/lifedash/questlog/internal/analytics"
)

type seriesKey struct {
	goalID int64
	mode   analytics.Mode
}

type seriesEntry struct {
	revision uint64
	points   []analytics.Point
}

// BucketedSeries returns goalID's history bucketed by mode. Results are
// memoized until the history cache changes.
func (s *Session) BucketedSeries(goalID int64, mode analytics.Mode) []analytics.Point {
	cache := s.state.Cache()
	key := seriesKey{goalID: goalID, mode: mode}

	// Revision first: a racing write leaves a stale memo, never a wrong one.
	revision := cache.Revision()

	s.mu.Lock()
	if e, ok := s.series[key]; ok && e.revision == revision {
		s.mu.Unlock()
		return clonePoints(e.points)
	}
	s.mu.Unlock()

	points := analytics.Bucket(cache.Get(goalID), mode)

	s.mu.Lock()
	s.series[key] = seriesEntry{revision: revision, points: points}
	s.mu.Unlock()

	return clonePoints(points)
}

// Rollups are the chart header figures for each bucketing mode.
type Rollups struct {
	Daily   analytics.Rollup `json:"daily"`
	Weekly  analytics.Rollup `json:"weekly"`
	Monthly analytics.Rollup `json:"monthly"`
}

func (s *Session) Rollups(goalID int64) Rollups {
	return Rollups{
		Daily:   analytics.Summarize(s.BucketedSeries(goalID, analytics.ModeDaily)),
		Weekly:  analytics.Summarize(s.BucketedSeries(goalID, analytics.ModeWeekly)),
		Monthly: analytics.Summarize(s.BucketedSeries(goalID, analytics.ModeMonthly)),
	}
}

func clonePoints(points []analytics.Point) []analytics.Point {
	out := make([]analytics.Point, len(points))
	copy(out, points)
	return out
}
