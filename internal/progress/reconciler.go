package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/validation"
)

type OpState string

const (
	StatePending    OpState = "PENDING"
	StateConfirmed  OpState = "CONFIRMED"
	StateRolledBack OpState = "ROLLED_BACK"
	StateDiscarded  OpState = "DISCARDED"
)

// Operation is one "set progress" write for a (goal, date) key.
type Operation struct {
	Token  string
	GoalID int64
	Date   string
	Value  float64
	State  OpState

	// Previous is the value cached for the date before the write, 0 when
	// there was no entry.
	Previous float64
	Delta    float64

	// Saved and SavedDelta are set once the server confirms.
	Saved      float64
	SavedDelta float64

	prior      prior
	isToday    bool
	optimistic float64
}

type prior struct {
	entry    model.HistoryEntry
	hadEntry bool
	today    bool
	hadToday bool
	current  float64
}

// Observer is notified on every state transition of an operation, after
// the state change has been applied.
type Observer func(op Operation)

// Result is what a settled operation left behind.
type Result struct {
	Op    Operation
	Entry model.HistoryEntry
	Goal  model.Goal
}

type Reconciler struct {
	state    *State
	service  GoalService
	locks    *keyLock
	today    func() string
	observer Observer
}

// NewReconciler wires a reconciler to the session state. today returns the
// current calendar date (YYYY-MM-DD) in the user's timezone.
func NewReconciler(state *State, service GoalService, today func() string) *Reconciler {
	return &Reconciler{
		state:   state,
		service: service,
		locks:   newKeyLock(),
		today:   today,
	}
}

func (r *Reconciler) OnTransition(fn Observer) {
	r.observer = fn
}

// InFlight reports whether a write for (goalID, date) is running.
func (r *Reconciler) InFlight(goalID int64, date string) bool {
	return r.locks.Busy(opKey(goalID, date))
}

// Reconcile sets goal progress for date to value. The local state is
// updated before the network call; on success it is corrected to the
// server's value, on failure it is restored. Writes to the same (goal,
// date) run one at a time in arrival order.
func (r *Reconciler) Reconcile(ctx context.Context, goalID int64, date string, value float64) (Result, error) {
	if err := validation.ValidateProgress(value); err != nil {
		return Result{}, err
	}
	if date == "" {
		date = r.today()
	}
	if err := validation.ValidateDate(date); err != nil {
		return Result{}, err
	}

	unlock, err := r.locks.Lock(ctx, opKey(goalID, date))
	if err != nil {
		return Result{}, fmt.Errorf("wait for pending write on goal %d: %w", goalID, err)
	}
	defer unlock()

	op := &Operation{
		Token:  uuid.NewString(),
		GoalID: goalID,
		Date:   date,
		Value:  value,
		State:  StatePending,
	}

	generation, err := r.state.begin(op, r.today())
	if err != nil {
		return Result{}, err
	}
	r.emit(op)

	saved, err := r.service.SetProgress(ctx, goalID, value, date)
	if err != nil {
		if !r.state.rollback(generation, op) {
			return r.discard(op)
		}
		op.State = StateRolledBack
		r.emit(op)

		slog.Warn("progress write rolled back", "error", err, "goal_id", goalID, "date", date, "op", op.Token)
		return Result{Op: *op}, &ReconcileError{GoalID: goalID, Date: date, Err: err}
	}
	if saved == nil {
		saved = &model.HistoryEntry{Date: date, Value: value}
	}
	if saved.Date == "" {
		saved.Date = date
	}

	if !r.state.confirm(generation, op, *saved) {
		return r.discard(op)
	}
	op.State = StateConfirmed
	r.emit(op)

	if op.Saved != op.Value {
		slog.Debug("server adjusted progress value", "goal_id", goalID, "date", date, "sent", op.Value, "saved", op.Saved)
	}

	goal, _ := r.state.Goal(goalID)
	return Result{Op: *op, Entry: *saved, Goal: goal}, nil
}

func (r *Reconciler) discard(op *Operation) (Result, error) {
	op.State = StateDiscarded
	r.emit(op)
	slog.Debug("progress write discarded after session end", "goal_id", op.GoalID, "date", op.Date, "op", op.Token)
	return Result{Op: *op}, ErrSessionEnded
}

func (r *Reconciler) emit(op *Operation) {
	if r.observer != nil {
		r.observer(*op)
	}
}

// IsRecoverable reports whether err came from a rejected write that the
// caller may simply retry.
func IsRecoverable(err error) bool {
	var re *ReconcileError
	return errors.As(err, &re)
}
