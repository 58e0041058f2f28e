package progress

import (
	"context"
	"errors"
	"sync"

	"github.com/lifedash/questlog/internal/model"
)

var errNetwork = errors.New("connection reset")

type setCall struct {
	GoalID int64
	Value  float64
	Date   string
}

// fakeGoalService is an in-memory GoalService. SetProgress and
// FetchHistory can be held open through the gate channels to simulate a
// slow network.
type fakeGoalService struct {
	mu         sync.Mutex
	goals      []model.Goal
	histories  map[int64][]model.HistoryEntry
	historyErr map[int64]error
	setErr     error
	failOn     func(call setCall) bool
	adjust     func(value float64) float64
	calls      []setCall

	setEntered  chan setCall
	setGate     chan struct{}
	fetchGate   chan struct{}
	fetchCalled chan int64
}

func newFakeGoalService(goals ...model.Goal) *fakeGoalService {
	return &fakeGoalService{
		goals:      goals,
		histories:  make(map[int64][]model.HistoryEntry),
		historyErr: make(map[int64]error),
	}
}

func (f *fakeGoalService) ListGoals(ctx context.Context) ([]model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Goal, len(f.goals))
	copy(out, f.goals)
	return out, nil
}

func (f *fakeGoalService) CreateOrUpdateGoal(ctx context.Context, payload model.GoalPayload) (*model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := payload.TargetValue
	goal := model.Goal{ID: int64(len(f.goals) + 1), Name: payload.Name, Period: payload.Period, TargetValue: &target}
	f.goals = append(f.goals, goal)
	return &goal, nil
}

func (f *fakeGoalService) DeleteGoal(ctx context.Context, id int64) error {
	return nil
}

func (f *fakeGoalService) FetchHistory(ctx context.Context, goalID int64) ([]model.HistoryEntry, error) {
	if f.fetchCalled != nil {
		f.fetchCalled <- goalID
	}
	if f.fetchGate != nil {
		select {
		case <-f.fetchGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.historyErr[goalID]; err != nil {
		return nil, err
	}
	out := make([]model.HistoryEntry, len(f.histories[goalID]))
	copy(out, f.histories[goalID])
	return out, nil
}

func (f *fakeGoalService) SetProgress(ctx context.Context, goalID int64, value float64, date string) (*model.HistoryEntry, error) {
	call := setCall{GoalID: goalID, Value: value, Date: date}
	if f.setEntered != nil {
		f.setEntered <- call
	}
	if f.setGate != nil {
		select {
		case <-f.setGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if f.setErr != nil {
		return nil, f.setErr
	}
	if f.failOn != nil && f.failOn(call) {
		return nil, errNetwork
	}
	saved := value
	if f.adjust != nil {
		saved = f.adjust(value)
	}
	return &model.HistoryEntry{Date: date, Value: saved}, nil
}

func (f *fakeGoalService) setCalls() []setCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]setCall, len(f.calls))
	copy(out, f.calls)
	return out
}
