package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestDetectUnlocks_FiresOncePerTier(t *testing.T) {
	next, milestones := DetectUnlocks(UnlockSet{}, 55, 0)

	assert.Equal(t, []string{"bronze", "silver"}, next.Keys())
	require.Len(t, milestones, 2)
	assert.False(t, milestones[0].Confetti)
	assert.False(t, milestones[1].Confetti)

	again, milestones := DetectUnlocks(next, 55, 0)
	assert.Equal(t, next.Keys(), again.Keys())
	assert.Empty(t, milestones)
}

func TestDetectUnlocks_GoldHasConfetti(t *testing.T) {
	_, milestones := DetectUnlocks(UnlockSet{"bronze": {}, "silver": {}}, 100, 0)

	require.Len(t, milestones, 1)
	assert.Equal(t, "gold", milestones[0].Tier.Key)
	assert.True(t, milestones[0].Confetti)
}

func TestDetectUnlocks_StreakConfettiFromTwentyOneDays(t *testing.T) {
	_, milestones := DetectUnlocks(UnlockSet{}, 0, 21)

	require.Len(t, milestones, 2)
	assert.Equal(t, "streak7", milestones[0].Tier.Key)
	assert.False(t, milestones[0].Confetti)
	assert.Equal(t, "streak21", milestones[1].Tier.Key)
	assert.True(t, milestones[1].Confetti)
}

func TestDetectUnlocks_NeverRemovesTiers(t *testing.T) {
	prior := UnlockSet{"gold": {}, "streak7": {}}

	next, milestones := DetectUnlocks(prior, 10, 0)

	assert.True(t, next.Has("gold"))
	assert.True(t, next.Has("streak7"))
	assert.Empty(t, milestones)
}

func TestDetectUnlocks_DoesNotMutatePrior(t *testing.T) {
	prior := UnlockSet{}

	DetectUnlocks(prior, 100, 90)

	assert.Empty(t, prior)
}

func TestUpcomingNudge(t *testing.T) {
	// 80% is 20 from gold, 47% is 3 from silver, 98% is 2 from gold.
	goals := []model.Goal{
		{ID: 1, Name: "far", TargetValue: ptr(10), CurrentValue: 8},
		{ID: 2, Name: "close", TargetValue: ptr(100), CurrentValue: 47},
		{ID: 3, Name: "closer", TargetValue: ptr(100), CurrentValue: 98},
	}

	nudge := UpcomingNudge(goals)

	require.NotNil(t, nudge)
	assert.Equal(t, int64(3), nudge.GoalID)
	assert.Equal(t, "gold", nudge.Tier.Key)
	assert.Equal(t, 2, nudge.Gap)
}

func TestUpcomingNudge_TieKeepsFirstGoal(t *testing.T) {
	goals := []model.Goal{
		{ID: 1, TargetValue: ptr(100), CurrentValue: 22},
		{ID: 2, TargetValue: ptr(100), CurrentValue: 47},
	}

	nudge := UpcomingNudge(goals)

	require.NotNil(t, nudge)
	assert.Equal(t, int64(1), nudge.GoalID)
	assert.Equal(t, 3, nudge.Gap)
}

func TestUpcomingNudge_NoneWithinWindow(t *testing.T) {
	goals := []model.Goal{
		{ID: 1, TargetValue: ptr(10), CurrentValue: 8},
		{ID: 2, TargetValue: nil, CurrentValue: 8},
		{ID: 3, TargetValue: ptr(10), CurrentValue: 10},
	}

	assert.Nil(t, UpcomingNudge(goals))
}
