package analytics

import (
	"sort"

	"github.com/lifedash/questlog/internal/model"
)

type TierKind string

const (
	TierPercent TierKind = "percent"
	TierStreak  TierKind = "streak"
)

// Tier is a one-time badge unlocked when a goal crosses Threshold, either
// a percentage of target or a streak length in days.
type Tier struct {
	Key       string   `json:"key"`
	Label     string   `json:"label"`
	Threshold int      `json:"threshold"`
	Kind      TierKind `json:"kind"`
}

const (
	confettiPercentThreshold = 100
	confettiStreakThreshold  = 21

	// nudgeWindow is how close (in percentage points) a goal must be to its
	// next tier before it is surfaced as "almost there".
	nudgeWindow = 5
)

var PercentTiers = []Tier{
	{Key: "bronze", Label: "Bronze", Threshold: 25, Kind: TierPercent},
	{Key: "silver", Label: "Silver", Threshold: 50, Kind: TierPercent},
	{Key: "gold", Label: "Gold", Threshold: 100, Kind: TierPercent},
}

var StreakTiers = []Tier{
	{Key: "streak7", Label: "7d streak", Threshold: 7, Kind: TierStreak},
	{Key: "streak21", Label: "21d streak", Threshold: 21, Kind: TierStreak},
	{Key: "streak90", Label: "90d streak", Threshold: 90, Kind: TierStreak},
}

// UnlockSet holds the tier keys already unlocked for one goal.
type UnlockSet map[string]struct{}

func (s UnlockSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

func (s UnlockSet) Clone() UnlockSet {
	out := make(UnlockSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Keys returns the unlocked keys in sorted order.
func (s UnlockSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Milestone is emitted the first time a tier unlocks.
type Milestone struct {
	Tier     Tier `json:"tier"`
	Confetti bool `json:"confetti"`
}

// DetectUnlocks diffs the current percentage and streak against the prior
// unlock set. The returned set is a superset of prior: tiers are never
// removed, even when pct or streak has since dropped. Milestones are only
// returned for tiers that were not unlocked before, so recomputing with the
// same inputs is a no-op.
func DetectUnlocks(prior UnlockSet, pct, streak int) (UnlockSet, []Milestone) {
	next := prior.Clone()
	var milestones []Milestone

	for _, tier := range PercentTiers {
		if pct >= tier.Threshold && !next.Has(tier.Key) {
			next[tier.Key] = struct{}{}
			milestones = append(milestones, Milestone{Tier: tier, Confetti: tier.Threshold >= confettiPercentThreshold})
		}
	}

	for _, tier := range StreakTiers {
		if streak >= tier.Threshold && !next.Has(tier.Key) {
			next[tier.Key] = struct{}{}
			milestones = append(milestones, Milestone{Tier: tier, Confetti: tier.Threshold >= confettiStreakThreshold})
		}
	}

	return next, milestones
}

// Nudge is the goal closest to its next percentage tier.
type Nudge struct {
	GoalID   int64  `json:"goalId"`
	GoalName string `json:"goalName"`
	Tier     Tier   `json:"tier"`
	Gap      int    `json:"gap"`
}

// UpcomingNudge finds the (goal, tier) pair with the smallest gap of at
// most nudgeWindow points. Ties keep the goal seen first.
func UpcomingNudge(goals []model.Goal) *Nudge {
	var best *Nudge
	for i := range goals {
		goal := &goals[i]
		pct := Percent(goal.CurrentValue, goal.Target())
		for _, tier := range PercentTiers {
			if pct >= tier.Threshold {
				continue
			}
			gap := tier.Threshold - pct
			if gap <= nudgeWindow && (best == nil || gap < best.Gap) {
				best = &Nudge{GoalID: goal.ID, GoalName: goal.DisplayName(), Tier: tier, Gap: gap}
			}
		}
	}
	return best
}
