// Package analytics derives chart series, streaks, badge tiers and pacing
// from a goal's daily history. Everything here is pure: the same input
// always yields the same output, so callers may memoize freely.
package analytics

import (
	"fmt"
	"sort"

	"github.com/lifedash/questlog/internal/model"
)

type Mode string

const (
	ModeDaily   Mode = "DAILY"
	ModeWeekly  Mode = "WEEKLY"
	ModeMonthly Mode = "MONTHLY"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeDaily, ModeWeekly, ModeMonthly:
		return true
	}
	return false
}

// Point is one chart bucket.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Bucket groups history into daily, ISO-week or calendar-month buckets.
// Labels are zero padded and year prefixed, so the lexicographic sort of
// the output is also chronological. Empty history yields an empty series.
func Bucket(history []model.HistoryEntry, mode Mode) []Point {
	if len(history) == 0 {
		return []Point{}
	}

	sums := make(map[string]float64, len(history))
	for _, entry := range history {
		label, ok := bucketLabel(entry.Date, mode)
		if !ok {
			continue
		}
		sums[label] += entry.Value
	}

	points := make([]Point, 0, len(sums))
	for label, value := range sums {
		points = append(points, Point{Label: label, Value: value})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Label < points[j].Label
	})

	return points
}

func bucketLabel(date string, mode Mode) (string, bool) {
	switch mode {
	case ModeDaily:
		if len(date) < len(model.DateLayout) {
			return "", false
		}
		return date[5:], true
	case ModeWeekly:
		t, err := model.ParseDate(date)
		if err != nil {
			return "", false
		}
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), true
	case ModeMonthly:
		t, err := model.ParseDate(date)
		if err != nil {
			return "", false
		}
		return fmt.Sprintf("%d-%02d", t.Year(), int(t.Month())), true
	default:
		return "", false
	}
}

// Rollup summarizes a bucketed series for the chart header.
type Rollup struct {
	Total float64 `json:"total"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
}

func Summarize(points []Point) Rollup {
	var r Rollup
	for _, p := range points {
		r.Total += p.Value
		if p.Value > r.Max {
			r.Max = p.Value
		}
	}
	if len(points) > 0 {
		r.Avg = r.Total / float64(len(points))
	}
	return r
}
