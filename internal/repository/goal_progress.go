package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lifedash/questlog/internal/model"
)

type GoalProgressRepository interface {
	Upsert(goalID int64, date string, value float64) (*model.GoalProgress, error)
	Recent(goalID int64, limit int) ([]*model.GoalProgress, error)
	SumBetween(goalID int64, from, to string) (sum float64, count int, err error)
}

type goalProgressRepository struct {
	db *sqlx.DB
}

func NewGoalProgressRepository(db *sqlx.DB) GoalProgressRepository {
	return &goalProgressRepository{db: db}
}

// Upsert stores the absolute value for (goalID, date), replacing any
// earlier value for that date.
func (r *goalProgressRepository) Upsert(goalID int64, date string, value float64) (*model.GoalProgress, error) {
	progress := &model.GoalProgress{}
	query := `INSERT INTO goal_progress (goal_id, progress_date, metric_value, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (goal_id, progress_date) DO UPDATE SET metric_value = excluded.metric_value
	          RETURNING id, goal_id, progress_date, metric_value`

	err := r.db.Get(progress, query, goalID, date, value, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	return progress, nil
}

// Recent returns up to limit entries, newest date first.
func (r *goalProgressRepository) Recent(goalID int64, limit int) ([]*model.GoalProgress, error) {
	var entries []*model.GoalProgress
	query := `SELECT * FROM goal_progress WHERE goal_id = $1 ORDER BY progress_date DESC LIMIT $2`

	err := r.db.Select(&entries, query, goalID, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// SumBetween adds up the values logged from from to to, both inclusive.
func (r *goalProgressRepository) SumBetween(goalID int64, from, to string) (float64, int, error) {
	var row struct {
		Sum   float64 `db:"total"`
		Count int     `db:"entries"`
	}
	query := `SELECT COALESCE(SUM(metric_value), 0) AS total, COUNT(*) AS entries
	          FROM goal_progress
	          WHERE goal_id = $1 AND progress_date >= $2 AND progress_date <= $3`

	err := r.db.Get(&row, query, goalID, from, to)
	if err != nil {
		return 0, 0, err
	}

	return row.Sum, row.Count, nil
}
