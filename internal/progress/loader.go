package progress

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lifedash/questlog/internal/model"
)

const defaultLoadConcurrency = 8

// Loader fetches the history of every goal concurrently and installs it in
// the session state.
type Loader struct {
	state       *State
	service     GoalService
	today       func() string
	concurrency int
}

func NewLoader(state *State, service GoalService, today func() string, concurrency int) *Loader {
	if concurrency <= 0 {
		concurrency = defaultLoadConcurrency
	}
	return &Loader{
		state:       state,
		service:     service,
		today:       today,
		concurrency: concurrency,
	}
}

// LoadReport lists the goals whose history could not be fetched. They were
// installed with an empty history.
type LoadReport struct {
	Loaded int
	Failed map[int64]error
}

// LoadAll fetches histories for goals. A failing goal degrades to an empty
// history instead of failing the whole load.
func (l *Loader) LoadAll(ctx context.Context, goals []model.Goal) (LoadReport, error) {
	generation, seq := l.state.loadTicket()

	results := make([][]model.HistoryEntry, len(goals))
	failures := make([]error, len(goals))

	var g errgroup.Group
	g.SetLimit(l.concurrency)
	for i, goal := range goals {
		g.Go(func() error {
			entries, err := l.service.FetchHistory(ctx, goal.ID)
			if err != nil {
				slog.Warn("failed to fetch goal history", "error", err, "goal_id", goal.ID)
				failures[i] = err
				return nil
			}
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return LoadReport{}, err
	}

	report := LoadReport{Failed: make(map[int64]error)}
	loaded := make(map[int64][]model.HistoryEntry, len(goals))
	for i, goal := range goals {
		if failures[i] != nil {
			report.Failed[goal.ID] = failures[i]
			loaded[goal.ID] = []model.HistoryEntry{}
			continue
		}
		report.Loaded++
		loaded[goal.ID] = results[i]
	}

	if !l.state.applyLoad(generation, seq, loaded, l.today()) {
		return LoadReport{}, ErrSessionEnded
	}

	return report, nil
}
