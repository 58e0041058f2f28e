package model

import "time"

// DateLayout is the calendar-date format used for history keys.
const DateLayout = "2006-01-02"

// HistoryEntry is the absolute value logged for one goal on one date.
type HistoryEntry struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// GoalProgress is the persisted form of a history entry.
type GoalProgress struct {
	ID        int64     `db:"id"`
	GoalID    int64     `db:"goal_id"`
	Date      string    `db:"progress_date"`
	Value     float64   `db:"metric_value"`
	CreatedAt time.Time `db:"created_at"`
}

func (p *GoalProgress) Entry() HistoryEntry {
	return HistoryEntry{Date: p.Date, Value: p.Value}
}

// ParseDate parses a YYYY-MM-DD date in UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
