package analytics

import (
	"math"
	"time"

	"github.com/lifedash/questlog/internal/model"
)

const day = 24 * time.Hour

// Pacing is the ahead/behind signal for a goal.
//
// Ahead is measured against the midpoint of the target (50%), not against
// how much of the period has elapsed. A goal at 40% on the last day of its
// period and one at 40% on the first day both read as 10 points behind.
type Pacing struct {
	Pct         int       `json:"pct"`
	Delta       int       `json:"delta"`
	Ahead       bool      `json:"ahead"`
	NextCheckIn time.Time `json:"nextCheckIn"`
	Unit        string    `json:"unit,omitempty"`
	Target      float64   `json:"target"`
	Current     float64   `json:"current"`
	GoalName    string    `json:"goalName"`
}

// Pace returns nil when the goal has no positive target.
func Pace(goal model.Goal, now time.Time) *Pacing {
	target := goal.Target()
	if target <= 0 {
		return nil
	}

	pct := Percent(goal.CurrentValue, target)
	delta := pct - 50

	return &Pacing{
		Pct:         pct,
		Delta:       delta,
		Ahead:       delta >= 0,
		NextCheckIn: NextCheckIn(goal, now),
		Unit:        goal.Unit,
		Target:      target,
		Current:     goal.CurrentValue,
		GoalName:    goal.DisplayName(),
	}
}

// NextCheckIn returns the next period boundary for goal as seen from now.
func NextCheckIn(goal model.Goal, now time.Time) time.Time {
	if goal.Period == model.PeriodCustom && goal.CustomPeriodDays != nil && *goal.CustomPeriodDays > 0 {
		return nextCustomBoundary(goal, now)
	}

	switch goal.Period {
	case model.PeriodDaily:
		return now.Add(day)
	case model.PeriodWeekly:
		// Sunday is weekday 0, so on a Sunday the next check-in is a week out.
		return now.Add(time.Duration(7-int(now.Weekday())) * day)
	case model.PeriodMonthly:
		return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	case model.PeriodQuarterly:
		month := int(now.Month()) - 1
		nextQuarterStart := month - month%3 + 3
		return time.Date(now.Year(), time.Month(nextQuarterStart+1), 1, 0, 0, 0, 0, now.Location())
	default:
		return now.Add(day)
	}
}

func nextCustomBoundary(goal model.Goal, now time.Time) time.Time {
	periodDays := *goal.CustomPeriodDays

	start := now
	if goal.StartDate != nil && *goal.StartDate != "" {
		if t, err := time.ParseInLocation(model.DateLayout, *goal.StartDate, now.Location()); err == nil {
			start = t
		}
	}

	daysSince := math.Max(0, now.Sub(start).Hours()/24)
	cycles := math.Floor(daysSince / periodDays)
	offset := (cycles + 1) * periodDays * float64(day)

	return start.Add(time.Duration(offset))
}
