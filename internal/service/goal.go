package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/repository"
	"github.com/lifedash/questlog/internal/validation"
)

const (
	defaultHistoryLimit     = 14
	defaultCustomPeriodDays = 7.0
)

var ErrInvalidProgress = errors.New("progress value must be a number")

type GoalService struct {
	repo         repository.GoalRepository
	progressRepo repository.GoalProgressRepository
	activityRepo repository.ActivityRepository
	historyLimit int
	now          func() time.Time
}

func NewGoalService(
	repo repository.GoalRepository,
	progressRepo repository.GoalProgressRepository,
	activityRepo repository.ActivityRepository,
	historyLimit int,
) *GoalService {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &GoalService{
		repo:         repo,
		progressRepo: progressRepo,
		activityRepo: activityRepo,
		historyLimit: historyLimit,
		now:          time.Now,
	}
}

// Create always adds a new goal, so a user may track several goals for the
// same activity and period.
func (s *GoalService) Create(user *model.User, payload model.GoalPayload) (*model.Goal, error) {
	if payload.RpgStat == "" {
		payload.RpgStat = model.DefaultStat(payload.ActivityType)
	}
	if err := validation.ValidateGoal(payload); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	target := payload.TargetValue
	goal := &model.Goal{
		UserID:           user.ID,
		Name:             payload.Name,
		ActivityType:     payload.ActivityType,
		Period:           payload.Period,
		CustomPeriodDays: payload.CustomPeriodDays,
		TargetValue:      &target,
		Unit:             payload.Unit,
		StartDate:        emptyToNil(payload.StartDate),
		EndDate:          emptyToNil(payload.EndDate),
		RpgStat:          payload.RpgStat,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	current, err := s.activitySum(user, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to compute current value: %w", err)
	}
	goal.CurrentValue = current

	err = s.repo.Create(goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Goals(userID int64) ([]*model.Goal, error) {
	return s.repo.Goals(userID)
}

// History returns the goal's latest entries, newest first.
func (s *GoalService) History(userID, goalID int64) ([]model.HistoryEntry, error) {
	// Verify ownership
	_, err := s.repo.ByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	rows, err := s.progressRepo.Recent(goalID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	entries := make([]model.HistoryEntry, len(rows))
	for i, row := range rows {
		entries[i] = row.Entry()
	}
	return entries, nil
}

// SetProgress stores the absolute value for date (today in the user's
// timezone when empty) and recomputes the goal's current value. The stored
// value is clamped at zero and rounded to two decimals, so it may differ
// from what was sent.
func (s *GoalService) SetProgress(user *model.User, goalID int64, date string, value float64) (*model.HistoryEntry, *model.Goal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, nil, ErrInvalidProgress
	}
	if date == "" {
		date = model.FormatDate(s.now().In(user.Location()))
	}
	if err := validation.ValidateDate(date); err != nil {
		return nil, nil, err
	}

	goal, err := s.repo.ByID(user.ID, goalID)
	if err != nil {
		return nil, nil, err
	}

	saved, err := s.progressRepo.Upsert(goalID, date, normalizeValue(value))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save progress: %w", err)
	}

	current, err := s.currentValue(user, goal)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute current value: %w", err)
	}
	goal.CurrentValue = current

	err = s.repo.UpdateCurrentValue(goal)
	if err != nil {
		return nil, nil, err
	}

	entry := saved.Entry()
	return &entry, goal, nil
}

func (s *GoalService) Delete(userID, goalID int64) error {
	return s.repo.Delete(userID, goalID)
}

// currentValue sums the progress logged inside the goal's current window.
// Goals without any logged progress in the window fall back to the sum of
// matching activities.
func (s *GoalService) currentValue(user *model.User, goal *model.Goal) (float64, error) {
	from, to := s.window(user, goal)

	sum, count, err := s.progressRepo.SumBetween(goal.ID, model.FormatDate(from), model.FormatDate(to))
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return roundValue(sum), nil
	}

	return s.activitySum(user, goal)
}

func (s *GoalService) activitySum(user *model.User, goal *model.Goal) (float64, error) {
	from, _ := s.window(user, goal)

	end := s.now()
	if goal.EndDate != nil {
		if d, err := time.ParseInLocation(model.DateLayout, *goal.EndDate, user.Location()); err == nil {
			end = d.AddDate(0, 0, 1)
		}
	}

	return s.activityRepo.SumByType(user.ID, goal.ActivityType, from, end)
}

// window returns the first and last day of the goal's current period in the
// user's timezone. An explicit start date overrides the period start; an
// explicit end date overrides today.
func (s *GoalService) window(user *model.User, goal *model.Goal) (from, to time.Time) {
	loc := user.Location()
	now := s.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch goal.Period {
	case model.PeriodDaily:
		from = today
	case model.PeriodWeekly:
		// Monday start
		offset := (int(today.Weekday()) + 6) % 7
		from = today.AddDate(0, 0, -offset)
	case model.PeriodMonthly:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
	case model.PeriodQuarterly:
		month := ((int(today.Month())-1)/3)*3 + 1
		from = time.Date(today.Year(), time.Month(month), 1, 0, 0, 0, 0, loc)
	default:
		days := defaultCustomPeriodDays
		if goal.CustomPeriodDays != nil && *goal.CustomPeriodDays > 0 {
			days = *goal.CustomPeriodDays
		}
		from = now.Add(-time.Duration(math.Round(days*24*60)) * time.Minute)
	}

	if goal.StartDate != nil {
		if d, err := time.ParseInLocation(model.DateLayout, *goal.StartDate, loc); err == nil {
			from = d
		}
	}

	to = today
	if goal.EndDate != nil {
		if d, err := time.ParseInLocation(model.DateLayout, *goal.EndDate, loc); err == nil {
			to = d
		}
	}

	return from, to
}

// normalizeValue clamps v at zero and rounds it to cents.
func normalizeValue(v float64) float64 {
	if v < 0 {
		return 0
	}
	return roundValue(v)
}

func roundValue(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
