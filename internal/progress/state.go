package progress

import (
	"sync"

	"github.com/lifedash/questlog/internal/history"
	"github.com/lifedash/questlog/internal/model"
)

// State is the session-scoped client state: the goal list and the history
// cache. Writes that touch both happen under one lock, and readers going
// through View never see one updated without the other.
type State struct {
	mu    sync.RWMutex
	goals []model.Goal
	cache *history.Cache

	// generation changes on every Reset; work started under an older
	// generation must not apply its result.
	generation uint64

	// seq orders reconciliation writes so loads can tell which cached
	// dates are newer than the data they fetched.
	seq      uint64
	touched  map[int64]map[string]uint64
	inflight map[string]int
}

func NewState(cache *history.Cache) *State {
	if cache == nil {
		cache = history.NewCache()
	}
	return &State{
		cache:    cache,
		touched:  make(map[int64]map[string]uint64),
		inflight: make(map[string]int),
	}
}

// Snapshot is a deep copy of goals and cache.
type Snapshot struct {
	Goals []model.Goal
	Cache history.Snapshot
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{Goals: cloneGoals(s.goals), Cache: s.cache.Snapshot()}
}

// Restore puts back a snapshot taken with Snapshot.
func (s *State) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = cloneGoals(snap.Goals)
	s.cache.Restore(snap.Cache)
}

// View runs fn with a consistent read-only view of goals and cache.
func (s *State) View(fn func(goals []model.Goal, cache *history.Cache)) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fn(s.goals, s.cache)
}

func (s *State) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Reset ends the current session: goals and history are dropped and any
// in-flight work is orphaned.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals = nil
	s.cache.Clear()
	s.generation++
	s.touched = make(map[int64]map[string]uint64)
	s.inflight = make(map[string]int)
}

func (s *State) Goals() []model.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneGoals(s.goals)
}

func (s *State) Goal(id int64) (model.Goal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.goals[i].Clone(), true
	}
	return model.Goal{}, false
}

// SetGoals replaces the goal list, keeping service order.
func (s *State) SetGoals(goals []model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = cloneGoals(goals)
}

// ReplaceGoals is SetGoals for work started under generation. It reports
// false, leaving the state untouched, if the session was reset since.
func (s *State) ReplaceGoals(generation uint64, goals []model.Goal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	s.goals = cloneGoals(goals)
	return true
}

// PutGoal inserts a goal or replaces the one with the same id.
func (s *State) PutGoal(goal model.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(goal.ID); i >= 0 {
		s.goals[i] = goal.Clone()
		return
	}
	s.goals = append(s.goals, goal.Clone())
}

// RemoveGoal drops a goal together with its cached history.
func (s *State) RemoveGoal(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.goals = append(s.goals[:i:i], s.goals[i+1:]...)
	}
	s.cache.Delete(id)
	delete(s.touched, id)
}

func (s *State) Cache() *history.Cache {
	return s.cache
}

func (s *State) indexOf(id int64) int {
	for i := range s.goals {
		if s.goals[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) touchLocked(goalID int64, date string) {
	s.seq++
	dates, ok := s.touched[goalID]
	if !ok {
		dates = make(map[string]uint64)
		s.touched[goalID] = dates
	}
	dates[date] = s.seq
}

// begin snapshots the prior values for op's key and applies it
// optimistically. It returns the generation the operation belongs to.
func (s *State) begin(op *Operation, today string) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(op.GoalID)
	if i < 0 {
		return 0, ErrUnknownGoal
	}
	goal := &s.goals[i]

	prev, hadEntry := s.cache.Entry(op.GoalID, op.Date)
	op.prior = prior{
		entry:    prev,
		hadEntry: hadEntry,
		current:  goal.CurrentValue,
	}
	op.isToday = op.Date == today
	if op.isToday {
		op.prior.today, op.prior.hadToday = s.cache.TodayDone(op.GoalID, op.Date)
	}

	if hadEntry {
		op.Previous = prev.Value
	}
	op.Delta = op.Value - op.Previous

	s.cache.Upsert(op.GoalID, model.HistoryEntry{Date: op.Date, Value: op.Value})
	if op.isToday {
		s.cache.SetToday(op.GoalID, op.Date, op.Value > 0)
	}
	if op.Delta != 0 {
		goal.CurrentValue += op.Delta
	}
	op.optimistic = goal.CurrentValue

	s.touchLocked(op.GoalID, op.Date)
	s.inflight[opKey(op.GoalID, op.Date)]++

	return s.generation, nil
}

// confirm applies the server's authoritative entry. The goal ends at
// prior + savedDelta: the optimistic delta is corrected by the residual,
// never added twice.
func (s *State) confirm(generation uint64, op *Operation, saved model.HistoryEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settleLocked(op)
	if generation != s.generation {
		return false
	}

	op.Saved = saved.Value
	op.SavedDelta = saved.Value - op.Previous
	residual := op.SavedDelta - op.Delta

	// The goal was deleted while the write was in flight.
	i := s.indexOf(op.GoalID)
	if i < 0 {
		return true
	}

	s.cache.Upsert(op.GoalID, saved)
	if op.isToday {
		s.cache.SetToday(op.GoalID, op.Date, saved.Value > 0)
	}

	goal := &s.goals[i]
	if goal.CurrentValue == op.optimistic {
		goal.CurrentValue = op.prior.current + op.SavedDelta
	} else if residual != 0 {
		goal.CurrentValue += residual
	}

	s.touchLocked(op.GoalID, op.Date)
	return true
}

// rollback undoes op's optimistic write. Only the operation's own key and
// delta are reverted, so writes to other dates that landed meanwhile
// survive.
func (s *State) rollback(generation uint64, op *Operation) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settleLocked(op)
	if generation != s.generation {
		return false
	}

	i := s.indexOf(op.GoalID)
	if i < 0 {
		return true
	}

	if op.prior.hadEntry {
		s.cache.Upsert(op.GoalID, op.prior.entry)
	} else {
		s.cache.Remove(op.GoalID, op.Date)
	}

	if op.isToday {
		if op.prior.hadToday {
			s.cache.SetToday(op.GoalID, op.Date, op.prior.today)
		} else {
			s.cache.ClearToday(op.GoalID, op.Date)
		}
	}

	goal := &s.goals[i]
	if goal.CurrentValue == op.optimistic {
		goal.CurrentValue = op.prior.current
	} else if op.Delta != 0 {
		goal.CurrentValue -= op.Delta
	}

	s.touchLocked(op.GoalID, op.Date)
	return true
}

func (s *State) settleLocked(op *Operation) {
	key := opKey(op.GoalID, op.Date)
	if s.inflight[key] <= 1 {
		delete(s.inflight, key)
		return
	}
	s.inflight[key]--
}

// loadTicket records the generation and write sequence at the moment a
// bulk load is dispatched.
func (s *State) loadTicket() (generation, seq uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation, s.seq
}

// applyLoad installs freshly fetched histories for goals still in the
// session. Dates written by a
// reconciliation after the load was dispatched, or still in flight, keep
// their cached entry: the reconciliation is the more recent write.
func (s *State) applyLoad(generation, seq uint64, loaded map[int64][]model.HistoryEntry, today string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}

	for goalID, entries := range loaded {
		if s.indexOf(goalID) < 0 {
			continue
		}
		merged := history.Normalize(entries)
		for date, written := range s.touched[goalID] {
			if written <= seq && s.inflight[opKey(goalID, date)] == 0 {
				continue
			}
			if cached, ok := s.cache.Entry(goalID, date); ok {
				merged = replaceDate(merged, cached)
			}
		}
		s.cache.BulkReplace(goalID, merged)

		for _, e := range merged {
			if e.Date == today {
				s.cache.SetToday(goalID, today, e.Value > 0)
			}
		}
	}

	return true
}

func replaceDate(entries []model.HistoryEntry, entry model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries)+1)
	for _, e := range entries {
		if e.Date != entry.Date {
			out = append(out, e)
		}
	}
	return append(out, entry)
}

func cloneGoals(goals []model.Goal) []model.Goal {
	if goals == nil {
		return nil
	}
	out := make([]model.Goal, len(goals))
	for i := range goals {
		out[i] = goals[i].Clone()
	}
	return out
}
