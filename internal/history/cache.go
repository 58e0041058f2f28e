// Package history holds the session-scoped cache of per-goal daily
// progress entries.
package history

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lifedash/questlog/internal/model"
)

// Cache maps goal ids to date-sorted history entries. There is at most one
// entry per (goal, date): every write path goes through an upsert or a
// normalizing replace, so duplicates cannot be stored.
type Cache struct {
	mu       sync.RWMutex
	entries  map[int64][]model.HistoryEntry
	today    map[string]bool
	revision uint64
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[int64][]model.HistoryEntry),
		today:   make(map[string]bool),
	}
}

// Get returns a copy of the goal's history, empty for unknown goals.
func (c *Cache) Get(goalID int64) []model.HistoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	src := c.entries[goalID]
	out := make([]model.HistoryEntry, len(src))
	copy(out, src)
	return out
}

// Entry looks up the entry for one date.
func (c *Cache) Entry(goalID int64, date string) (model.HistoryEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries[goalID] {
		if e.Date == date {
			return e, true
		}
	}
	return model.HistoryEntry{}, false
}

// Upsert replaces any entry with the same date, then re-sorts.
func (c *Cache) Upsert(goalID int64, entry model.HistoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[goalID] = upsert(c.entries[goalID], entry)
	c.revision++
}

// Remove drops the entry for one date, if any.
func (c *Cache) Remove(goalID int64, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.entries[goalID]
	filtered := make([]model.HistoryEntry, 0, len(current))
	for _, e := range current {
		if e.Date != date {
			filtered = append(filtered, e)
		}
	}
	if len(filtered) == 0 {
		delete(c.entries, goalID)
	} else {
		c.entries[goalID] = filtered
	}
	c.revision++
}

// BulkReplace swaps in a freshly loaded history for one goal. Input order
// does not matter; duplicate dates keep the last value seen.
func (c *Cache) BulkReplace(goalID int64, entries []model.HistoryEntry) {
	normalized := Normalize(entries)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[goalID] = normalized
	c.revision++
}

// Delete drops a goal's history and its today flags.
func (c *Cache) Delete(goalID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, goalID)
	prefix := strconv.FormatInt(goalID, 10) + ":"
	for key := range c.today {
		if strings.HasPrefix(key, prefix) {
			delete(c.today, key)
		}
	}
	c.revision++
}

// Clear drops everything. Used on session teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int64][]model.HistoryEntry)
	c.today = make(map[string]bool)
	c.revision++
}

// GoalIDs lists the goals with cached history.
func (c *Cache) GoalIDs() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]int64, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Revision increases on every mutation.
func (c *Cache) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// TodayKey is the key of the "done today" flag for a goal and date.
func TodayKey(goalID int64, date string) string {
	return strconv.FormatInt(goalID, 10) + ":" + date
}

// SetToday records whether the goal counts as done on date.
func (c *Cache) SetToday(goalID int64, date string, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.today[TodayKey(goalID, date)] = done
	c.revision++
}

// ClearToday forgets the flag, so TodayDone falls back to "not done".
func (c *Cache) ClearToday(goalID int64, date string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.today, TodayKey(goalID, date))
	c.revision++
}

// TodayDone reports the flag and whether it was ever set.
func (c *Cache) TodayDone(goalID int64, date string) (done, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	done, ok = c.today[TodayKey(goalID, date)]
	return done, ok
}

// Snapshot is a deep copy of the cache contents.
type Snapshot struct {
	Entries map[int64][]model.HistoryEntry
	Today   map[string]bool
}

func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		Entries: make(map[int64][]model.HistoryEntry, len(c.entries)),
		Today:   make(map[string]bool, len(c.today)),
	}
	for id, entries := range c.entries {
		cp := make([]model.HistoryEntry, len(entries))
		copy(cp, entries)
		snap.Entries[id] = cp
	}
	for k, v := range c.today {
		snap.Today[k] = v
	}
	return snap
}

// Restore replaces the cache contents with a snapshot.
func (c *Cache) Restore(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[int64][]model.HistoryEntry, len(snap.Entries))
	for id, entries := range snap.Entries {
		cp := make([]model.HistoryEntry, len(entries))
		copy(cp, entries)
		c.entries[id] = cp
	}
	c.today = make(map[string]bool, len(snap.Today))
	for k, v := range snap.Today {
		c.today[k] = v
	}
	c.revision++
}

// Normalize sorts entries by date and collapses duplicate dates, keeping
// the last one.
func Normalize(entries []model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		out = upsert(out, e)
	}
	return out
}

func upsert(current []model.HistoryEntry, entry model.HistoryEntry) []model.HistoryEntry {
	next := make([]model.HistoryEntry, 0, len(current)+1)
	for _, e := range current {
		if e.Date != entry.Date {
			next = append(next, e)
		}
	}
	next = append(next, entry)
	sort.SliceStable(next, func(i, j int) bool {
		return next[i].Date < next[j].Date
	})
	return next
}
