package model

import "time"

const MetadataMilestone = "milestone"

// Activity is one record on the live activity feed.
type Activity struct {
	ID          int64        `db:"id" json:"id"`
	UserID      int64        `db:"user_id" json:"-"`
	Type        ActivityType `db:"activity_type" json:"type"`
	RpgStat     RpgStat      `db:"rpg_stat" json:"rpgStat,omitempty"`
	Description string       `db:"description" json:"description"`
	Value       *float64     `db:"value" json:"value"`
	Metadata    string       `db:"metadata" json:"metadata,omitempty"`
	OccurredAt  time.Time    `db:"occurred_at" json:"occurredAt"`
}

func (a *Activity) IsMilestone() bool {
	return a.Metadata == MetadataMilestone
}
