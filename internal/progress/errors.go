package progress

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionEnded is returned when the session was torn down while a
	// write or load was in flight. Its result was discarded.
	ErrSessionEnded = errors.New("session ended before the write settled")

	// ErrUnknownGoal is returned for writes to a goal the session has not loaded.
	ErrUnknownGoal = errors.New("goal not found in session")
)

// ReconcileError reports a progress write the goal service rejected. The
// local state has been rolled back; the caller may retry.
type ReconcileError struct {
	GoalID int64
	Date   string
	Err    error
}

func (e *ReconcileError) Error() string {
	return fmt.Sprintf("save progress for goal %d on %s: %v", e.GoalID, e.Date, e.Err)
}

func (e *ReconcileError) Unwrap() error {
	return e.Err
}
