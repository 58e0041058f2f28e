package session

import (
	"fmt"
	"strconv"

	"github.com/lifedash/questlog/internal/history"
	"github.com/lifedash/questlog/internal/model"
)

// Reminder is a goal that has not been logged for today yet.
type Reminder struct {
	GoalID int64  `json:"goalId"`
	Label  string `json:"label"`
}

// Reminders lists goals not yet done on today, in goal order, capped at
// limit (the session default when limit <= 0). A goal counts as done when
// today's history entry is positive; without an entry the today flag
// decides.
func (s *Session) Reminders(today string, limit int) []Reminder {
	if limit <= 0 {
		limit = s.reminderLimit
	}

	out := []Reminder{}
	s.state.View(func(goals []model.Goal, cache *history.Cache) {
		for i := range goals {
			goal := &goals[i]

			var done bool
			if entry, ok := cache.Entry(goal.ID, today); ok {
				done = entry.Value > 0
			} else {
				done, _ = cache.TodayDone(goal.ID, today)
			}
			if done {
				continue
			}

			label := fmt.Sprintf("%s · %s", goalLabel(goal), strconv.FormatFloat(goal.Target(), 'f', -1, 64))
			if goal.Unit != "" {
				label += " " + goal.Unit
			}
			out = append(out, Reminder{GoalID: goal.ID, Label: label})
			if len(out) == limit {
				return
			}
		}
	})
	return out
}
