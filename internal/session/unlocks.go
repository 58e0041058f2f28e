package session

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/lifedash/questlog/internal/analytics"
	"github.com/lifedash/questlog/internal/model"
)

var titleCase = cases.Title(language.English)

// Unlock is a badge tier a goal reached for the first time this session.
type Unlock struct {
	GoalID    int64
	Milestone analytics.Milestone
	Activity  model.Activity
}

// TrackUnlocks runs unlock detection for every goal against the current
// percentage and streak. Newly unlocked tiers are recorded, published to
// the feed as milestone activities and returned. Tiers already unlocked
// are never reported again, and none are ever removed.
func (s *Session) TrackUnlocks() []Unlock {
	generation := s.state.Generation()
	return s.trackUnlocks(generation, s.state.Goals())
}

// trackUnlocks records unlocks for goals read under generation. The pass
// is dropped if the session was torn down since, and goals deleted since
// are skipped, so a stale read never leaks into the current unlock state.
func (s *Session) trackUnlocks(generation uint64, goals []model.Goal) []Unlock {
	cache := s.state.Cache()

	s.mu.Lock()
	if generation != s.state.Generation() {
		s.mu.Unlock()
		return nil
	}

	var unlocked []Unlock
	for i := range goals {
		goal := &goals[i]
		if _, ok := s.state.Goal(goal.ID); !ok {
			continue
		}
		pct := analytics.Percent(goal.CurrentValue, goal.Target())
		streak := analytics.CurrentStreak(cache.Get(goal.ID))

		next, milestones := analytics.DetectUnlocks(s.unlocks[goal.ID], pct, streak)
		s.unlocks[goal.ID] = next
		for _, m := range milestones {
			unlocked = append(unlocked, Unlock{
				GoalID:    goal.ID,
				Milestone: m,
				Activity:  milestoneActivity(goal, m, s.now()),
			})
		}
	}
	s.mu.Unlock()

	if s.feed != nil {
		for _, u := range unlocked {
			s.feed.Publish(u.Activity)
		}
	}
	return unlocked
}

// Unlocked returns the tier keys unlocked for goalID, sorted.
func (s *Session) Unlocked(goalID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocks[goalID].Keys()
}

func milestoneActivity(goal *model.Goal, m analytics.Milestone, now time.Time) model.Activity {
	var description string
	switch m.Tier.Kind {
	case analytics.TierPercent:
		description = fmt.Sprintf("%s badge unlocked for %s", m.Tier.Label, goalLabel(goal))
	default:
		description = fmt.Sprintf("%s for %s", m.Tier.Label, goalLabel(goal))
	}

	value := goal.CurrentValue
	if goal.TargetValue != nil {
		value = *goal.TargetValue
	}

	return model.Activity{
		Type:        model.ActivityCustom,
		RpgStat:     goal.RpgStat,
		Description: description,
		Value:       &value,
		Metadata:    model.MetadataMilestone,
		OccurredAt:  now.UTC(),
	}
}

// goalLabel is the goal name, or its activity type in title case
// ("GITHUB_COMMITS" reads "Github Commits").
func goalLabel(goal *model.Goal) string {
	if name := strings.TrimSpace(goal.Name); name != "" {
		return name
	}
	return titleCase.String(strings.ReplaceAll(string(goal.ActivityType), "_", " "))
}
