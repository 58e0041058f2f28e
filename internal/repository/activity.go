package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lifedash/questlog/internal/model"
)

type ActivityRepository interface {
	Create(activity *model.Activity) error
	Recent(userID int64, limit int) ([]*model.Activity, error)
	SumByType(userID int64, activityType model.ActivityType, from, to time.Time) (float64, error)
}

type activityRepository struct {
	db *sqlx.DB
}

func NewActivityRepository(db *sqlx.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(activity *model.Activity) error {
	query := `INSERT INTO activities (user_id, activity_type, rpg_stat, description, value, metadata, occurred_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	return r.db.QueryRow(query,
		activity.UserID,
		activity.Type,
		activity.RpgStat,
		activity.Description,
		activity.Value,
		activity.Metadata,
		activity.OccurredAt.UTC(),
	).Scan(&activity.ID)
}

// Recent returns the user's latest activities, newest first.
func (r *activityRepository) Recent(userID int64, limit int) ([]*model.Activity, error) {
	var activities []*model.Activity
	query := `SELECT * FROM activities WHERE user_id = $1 ORDER BY occurred_at DESC, id DESC LIMIT $2`

	err := r.db.Select(&activities, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return activities, nil
}

// SumByType adds up activity values of one type in [from, to). Activities
// without a value count as 1; milestone records are not counted.
func (r *activityRepository) SumByType(userID int64, activityType model.ActivityType, from, to time.Time) (float64, error) {
	var sum float64
	query := `SELECT COALESCE(SUM(COALESCE(value, 1)), 0) FROM activities
	          WHERE user_id = $1 AND activity_type = $2 AND occurred_at >= $3 AND occurred_at < $4
	            AND COALESCE(metadata, '') <> $5`

	err := r.db.Get(&sum, query, userID, activityType, from.UTC(), to.UTC(), model.MetadataMilestone)
	if err != nil {
		return 0, err
	}

	return sum, nil
}
