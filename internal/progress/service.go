// Package progress applies goal progress writes optimistically to the
// session state, confirms them against the goal service and corrects or
// rolls them back.
package progress

import (
	"context"

	"github.com/lifedash/questlog/internal/model"
)

// GoalService is the remote store of goals and their history.
type GoalService interface {
	ListGoals(ctx context.Context) ([]model.Goal, error)
	CreateOrUpdateGoal(ctx context.Context, payload model.GoalPayload) (*model.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error
	FetchHistory(ctx context.Context, goalID int64) ([]model.HistoryEntry, error)
	// SetProgress stores value for date (server "today" when date is empty)
	// and returns the entry the server kept, which may differ from value.
	SetProgress(ctx context.Context, goalID int64, value float64, date string) (*model.HistoryEntry, error)
}
