package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lifedash/questlog/internal/analytics"
	"github.com/lifedash/questlog/internal/history"
	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/progress"
	"github.com/lifedash/questlog/internal/validation"
)

const defaultReminderLimit = 5

// Feed receives activities produced by the session, such as unlocked
// milestones.
type Feed interface {
	Publish(a model.Activity)
}

type Config struct {
	Feed            Feed
	Location        *time.Location
	Now             func() time.Time
	LoadConcurrency int
	ReminderLimit   int
}

// Session is the logged-in user's view of their goals. It owns the goal
// list, the history cache and the badge unlock state, and is the only
// place progress writes enter the client.
type Session struct {
	service    progress.GoalService
	state      *progress.State
	reconciler *progress.Reconciler
	loader     *progress.Loader
	feed       Feed
	now        func() time.Time
	loc        *time.Location

	reminderLimit int

	mu       sync.Mutex
	unlocks  map[int64]analytics.UnlockSet
	series   map[seriesKey]seriesEntry
	observer progress.Observer
}

func New(service progress.GoalService, cfg Config) *Session {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.ReminderLimit <= 0 {
		cfg.ReminderLimit = defaultReminderLimit
	}

	s := &Session{
		service:       service,
		state:         progress.NewState(history.NewCache()),
		feed:          cfg.Feed,
		now:           cfg.Now,
		loc:           cfg.Location,
		reminderLimit: cfg.ReminderLimit,
		unlocks:       make(map[int64]analytics.UnlockSet),
		series:        make(map[seriesKey]seriesEntry),
	}
	s.reconciler = progress.NewReconciler(s.state, service, s.Today)
	s.reconciler.OnTransition(s.transition)
	s.loader = progress.NewLoader(s.state, service, s.Today, cfg.LoadConcurrency)

	return s
}

// Today is the current date in the session's timezone.
func (s *Session) Today() string {
	return model.FormatDate(s.now().In(s.loc))
}

// OnTransition registers fn to see every reconciliation state change.
func (s *Session) OnTransition(fn progress.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

func (s *Session) transition(op progress.Operation) {
	s.mu.Lock()
	fn := s.observer
	s.mu.Unlock()

	if fn != nil {
		fn(op)
	}
}

// Init starts a fresh session: goals are fetched, every goal's history is
// loaded and badge unlocks start empty. Any previous session state and
// in-flight work is dropped first.
func (s *Session) Init(ctx context.Context) (progress.LoadReport, error) {
	s.Teardown()
	generation := s.state.Generation()

	goals, err := s.service.ListGoals(ctx)
	if err != nil {
		return progress.LoadReport{}, fmt.Errorf("list goals: %w", err)
	}
	if !s.state.ReplaceGoals(generation, goals) {
		return progress.LoadReport{}, progress.ErrSessionEnded
	}

	report, err := s.loader.LoadAll(ctx, goals)
	if err != nil {
		return report, fmt.Errorf("load goal histories: %w", err)
	}
	if len(report.Failed) > 0 {
		slog.Warn("some goal histories failed to load", "failed", len(report.Failed), "goals", len(goals))
	}

	return report, nil
}

// Teardown ends the session (logout). In-flight writes and loads finish
// without touching the new state.
func (s *Session) Teardown() {
	s.state.Reset()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.unlocks = make(map[int64]analytics.UnlockSet)
	s.series = make(map[seriesKey]seriesEntry)
}

func (s *Session) Goals() []model.Goal {
	return s.state.Goals()
}

func (s *Session) Goal(id int64) (model.Goal, bool) {
	return s.state.Goal(id)
}

// CreateGoal validates payload and creates the goal with the service.
// An empty RPG stat defaults from the activity type.
func (s *Session) CreateGoal(ctx context.Context, payload model.GoalPayload) (*model.Goal, error) {
	if payload.RpgStat == "" {
		payload.RpgStat = model.DefaultStat(payload.ActivityType)
	}
	if err := validation.ValidateGoal(payload); err != nil {
		return nil, err
	}

	goal, err := s.service.CreateOrUpdateGoal(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	s.state.PutGoal(*goal)

	return goal, nil
}

// DeleteGoal removes the goal remotely, then drops its cached history and
// badges.
func (s *Session) DeleteGoal(ctx context.Context, id int64) error {
	if err := s.service.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	s.state.RemoveGoal(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.unlocks, id)

	return nil
}

// ReconcileProgress writes value for goalID on date (today when empty).
// Callers run TrackUnlocks afterwards to pick up new badges.
func (s *Session) ReconcileProgress(ctx context.Context, goalID int64, date string, value float64) (progress.Result, error) {
	return s.reconciler.Reconcile(ctx, goalID, date, value)
}

// InFlight reports whether a write for (goalID, date) has not settled yet.
func (s *Session) InFlight(goalID int64, date string) bool {
	return s.reconciler.InFlight(goalID, date)
}

func (s *Session) History(goalID int64) []model.HistoryEntry {
	return s.state.Cache().Get(goalID)
}

func (s *Session) StreakInfo(goalID int64) analytics.StreakInfo {
	return analytics.Streaks(s.History(goalID))
}

// Pacing returns nil for unknown goals and goals without a positive target.
func (s *Session) Pacing(goalID int64, now time.Time) *analytics.Pacing {
	goal, ok := s.state.Goal(goalID)
	if !ok {
		return nil
	}
	return analytics.Pace(goal, now.In(s.loc))
}

func (s *Session) UpcomingNudge() *analytics.Nudge {
	return analytics.UpcomingNudge(s.state.Goals())
}
