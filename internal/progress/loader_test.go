package progress

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifedash/questlog/internal/history"
	"github.com/lifedash/questlog/internal/model"
)

func TestLoadAll_InstallsHistories(t *testing.T) {
	goals := []model.Goal{{ID: 1}, {ID: 2}}
	svc := newFakeGoalService(goals...)
	svc.histories[1] = []model.HistoryEntry{
		{Date: "2024-05-15", Value: 2},
		{Date: "2024-05-13", Value: 1},
	}
	svc.histories[2] = []model.HistoryEntry{{Date: "2024-05-14", Value: 0}}

	state := NewState(history.NewCache())
	state.SetGoals(goals)
	report, err := NewLoader(state, svc, fixedToday, 2).LoadAll(context.Background(), goals)

	require.NoError(t, err)
	assert.Equal(t, 2, report.Loaded)
	assert.Empty(t, report.Failed)
	assert.Equal(t, []model.HistoryEntry{
		{Date: "2024-05-13", Value: 1},
		{Date: "2024-05-15", Value: 2},
	}, state.Cache().Get(1))
	assert.Equal(t, []model.HistoryEntry{{Date: "2024-05-14", Value: 0}}, state.Cache().Get(2))

	done, ok := state.Cache().TodayDone(1, today)
	assert.True(t, ok)
	assert.True(t, done)
	_, ok = state.Cache().TodayDone(2, today)
	assert.False(t, ok)
}

func TestLoadAll_FailedGoalDegradesToEmpty(t *testing.T) {
	goals := []model.Goal{{ID: 1}, {ID: 2}}
	svc := newFakeGoalService(goals...)
	svc.histories[1] = []model.HistoryEntry{{Date: "2024-05-15", Value: 2}}
	svc.historyErr[2] = errNetwork

	state := NewState(history.NewCache())
	state.SetGoals(goals)
	state.Cache().Upsert(2, model.HistoryEntry{Date: "2024-05-01", Value: 9})

	report, err := NewLoader(state, svc, fixedToday, 0).LoadAll(context.Background(), goals)

	require.NoError(t, err)
	assert.Equal(t, 1, report.Loaded)
	assert.ErrorIs(t, report.Failed[2], errNetwork)
	assert.Empty(t, state.Cache().Get(2))
	assert.Len(t, state.Cache().Get(1), 1)
}

func TestLoadAll_KeepsInFlightWrite(t *testing.T) {
	goals := []model.Goal{{ID: 1, TargetValue: target(10)}}
	svc := newFakeGoalService(goals...)
	svc.histories[1] = []model.HistoryEntry{
		{Date: "2024-05-14", Value: 1},
		{Date: today, Value: 1},
	}
	svc.setEntered = make(chan setCall, 1)
	svc.setGate = make(chan struct{})

	state := NewState(history.NewCache())
	state.SetGoals(goals)
	r := NewReconciler(state, svc, fixedToday)

	errs := make(chan error, 1)
	go func() {
		_, err := r.Reconcile(context.Background(), 1, today, 5)
		errs <- err
	}()
	<-svc.setEntered

	_, err := NewLoader(state, svc, fixedToday, 1).LoadAll(context.Background(), goals)
	require.NoError(t, err)

	assert.Equal(t, []model.HistoryEntry{
		{Date: "2024-05-14", Value: 1},
		{Date: today, Value: 5},
	}, state.Cache().Get(1))

	close(svc.setGate)
	require.NoError(t, <-errs)

	entry, ok := state.Cache().Entry(1, today)
	require.True(t, ok)
	assert.Equal(t, float64(5), entry.Value)
}

func TestLoadAll_KeepsWriteConfirmedDuringLoad(t *testing.T) {
	goals := []model.Goal{{ID: 1, TargetValue: target(10)}}
	svc := newFakeGoalService(goals...)
	svc.histories[1] = []model.HistoryEntry{{Date: today, Value: 1}}
	svc.fetchCalled = make(chan int64, 1)
	svc.fetchGate = make(chan struct{})

	state := NewState(history.NewCache())
	state.SetGoals(goals)
	r := NewReconciler(state, svc, fixedToday)

	errs := make(chan error, 1)
	go func() {
		_, err := NewLoader(state, svc, fixedToday, 1).LoadAll(context.Background(), goals)
		errs <- err
	}()
	<-svc.fetchCalled

	_, err := r.Reconcile(context.Background(), 1, today, 6)
	require.NoError(t, err)

	close(svc.fetchGate)
	require.NoError(t, <-errs)

	assert.Equal(t, []model.HistoryEntry{{Date: today, Value: 6}}, state.Cache().Get(1))
}

func TestLoadAll_DiscardedAfterReset(t *testing.T) {
	goals := []model.Goal{{ID: 1}}
	svc := newFakeGoalService(goals...)
	svc.histories[1] = []model.HistoryEntry{{Date: today, Value: 3}}
	svc.fetchCalled = make(chan int64, 1)
	svc.fetchGate = make(chan struct{})

	state := NewState(history.NewCache())
	state.SetGoals(goals)

	errs := make(chan error, 1)
	go func() {
		_, err := NewLoader(state, svc, fixedToday, 1).LoadAll(context.Background(), goals)
		errs <- err
	}()
	<-svc.fetchCalled

	state.Reset()
	close(svc.fetchGate)

	assert.ErrorIs(t, <-errs, ErrSessionEnded)
	assert.Empty(t, state.Cache().GoalIDs())
}

func TestLoadAll_Cancelled(t *testing.T) {
	goals := []model.Goal{{ID: 1}}
	svc := newFakeGoalService(goals...)
	svc.fetchGate = make(chan struct{})

	state := NewState(history.NewCache())
	state.SetGoals(goals)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(state, svc, fixedToday, 1).LoadAll(ctx, goals)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, state.Cache().Get(1))
}

func TestLoadAll_SkipsGoalDeletedDuringLoad(t *testing.T) {
	goals := []model.Goal{{ID: 1}, {ID: 2}}
	svc := newFakeGoalService(goals...)
	svc.histories[1] = []model.HistoryEntry{{Date: today, Value: 3}}
	svc.histories[2] = []model.HistoryEntry{{Date: today, Value: 4}}
	svc.fetchCalled = make(chan int64, 2)
	svc.fetchGate = make(chan struct{})

	state := NewState(history.NewCache())
	state.SetGoals(goals)

	errs := make(chan error, 1)
	go func() {
		_, err := NewLoader(state, svc, fixedToday, 2).LoadAll(context.Background(), goals)
		errs <- err
	}()
	<-svc.fetchCalled
	<-svc.fetchCalled

	state.RemoveGoal(2)
	close(svc.fetchGate)

	require.NoError(t, <-errs)
	assert.Equal(t, []int64{1}, state.Cache().GoalIDs())
	assert.Empty(t, state.Cache().Get(2))
}
