package session

import (
	"context"
	"errors"
	"sync"

	"github.com/lifedash/questlog/internal/model"
)

var errOffline = errors.New("offline")

type fakeService struct {
	mu        sync.Mutex
	goals     []model.Goal
	histories map[int64][]model.HistoryEntry
	listErr   error
	setErr    error
	created   []model.GoalPayload
	deleted   []int64
}

func newFakeService(goals ...model.Goal) *fakeService {
	return &fakeService{goals: goals, histories: make(map[int64][]model.HistoryEntry)}
}

func (f *fakeService) ListGoals(ctx context.Context) ([]model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Goal, len(f.goals))
	for i := range f.goals {
		out[i] = f.goals[i].Clone()
	}
	return out, nil
}

func (f *fakeService) CreateOrUpdateGoal(ctx context.Context, p model.GoalPayload) (*model.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	target := p.TargetValue
	goal := model.Goal{
		ID:           int64(100 + len(f.created)),
		Name:         p.Name,
		ActivityType: p.ActivityType,
		Period:       p.Period,
		TargetValue:  &target,
		RpgStat:      p.RpgStat,
	}
	f.goals = append(f.goals, goal)
	return &goal, nil
}

func (f *fakeService) DeleteGoal(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) FetchHistory(ctx context.Context, goalID int64) ([]model.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.HistoryEntry, len(f.histories[goalID]))
	copy(out, f.histories[goalID])
	return out, nil
}

func (f *fakeService) SetProgress(ctx context.Context, goalID int64, value float64, date string) (*model.HistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return nil, f.setErr
	}
	return &model.HistoryEntry{Date: date, Value: value}, nil
}

func (f *fakeService) failWrites(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setErr = err
}

type recordingFeed struct {
	mu         sync.Mutex
	activities []model.Activity
}

func (r *recordingFeed) Publish(a model.Activity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, a)
}

func (r *recordingFeed) descriptions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.activities))
	for i, a := range r.activities {
		out[i] = a.Description
	}
	return out
}
