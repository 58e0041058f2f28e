package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lifedash/questlog/internal/model"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(goal *model.Goal) error
	ByID(userID, goalID int64) (*model.Goal, error)
	Goals(userID int64) ([]*model.Goal, error)
	UpdateCurrentValue(goal *model.Goal) error
	Delete(userID, goalID int64) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(goal *model.Goal) error {
	query := `INSERT INTO goals (user_id, name, activity_type, period, custom_period_days, target_value,
	                             current_value, unit, start_date, end_date, rpg_stat, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	return r.db.QueryRow(query,
		goal.UserID,
		goal.Name,
		goal.ActivityType,
		goal.Period,
		goal.CustomPeriodDays,
		goal.TargetValue,
		goal.CurrentValue,
		goal.Unit,
		goal.StartDate,
		goal.EndDate,
		goal.RpgStat,
		goal.CreatedAt,
		goal.UpdatedAt,
	).Scan(&goal.ID)
}

func (r *goalRepository) ByID(userID, goalID int64) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.Get(goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

// Goals lists a user's goals in creation order.
func (r *goalRepository) Goals(userID int64) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY id ASC`

	err := r.db.Select(&goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) UpdateCurrentValue(goal *model.Goal) error {
	goal.UpdatedAt = time.Now().UTC()
	query := `UPDATE goals SET current_value = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`

	result, err := r.db.Exec(query, goal.CurrentValue, goal.UpdatedAt, goal.ID, goal.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}

func (r *goalRepository) Delete(userID, goalID int64) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, goalID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	return nil
}
