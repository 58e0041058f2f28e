package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/lifedash/questlog/internal/model"
	"github.com/lifedash/questlog/internal/repository"
	"github.com/lifedash/questlog/internal/validation"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// Publisher pushes activities to live feed subscribers.
type Publisher interface {
	Publish(a model.Activity)
}

type ActivityService struct {
	repo      repository.ActivityRepository
	publisher Publisher
	now       func() time.Time
}

func NewActivityService(repo repository.ActivityRepository, publisher Publisher) *ActivityService {
	return &ActivityService{
		repo:      repo,
		publisher: publisher,
		now:       time.Now,
	}
}

// Record stores an activity for the user and pushes it to live
// subscribers.
func (s *ActivityService) Record(userID int64, activity model.Activity) (*model.Activity, error) {
	activity.Type = model.ActivityType(strings.TrimSpace(string(activity.Type)))
	if activity.Type == "" {
		return nil, &validation.Error{Field: "type", Message: "activity type is required"}
	}
	if activity.Value != nil {
		if err := validation.ValidateProgress(*activity.Value); err != nil {
			return nil, err
		}
	}
	if activity.RpgStat == "" {
		activity.RpgStat = model.DefaultStat(activity.Type)
	}
	if activity.OccurredAt.IsZero() {
		activity.OccurredAt = s.now()
	}
	activity.OccurredAt = activity.OccurredAt.UTC()
	activity.UserID = userID

	err := s.repo.Create(&activity)
	if err != nil {
		return nil, fmt.Errorf("failed to record activity: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(activity)
	}
	return &activity, nil
}

// Feed returns the user's most recent activities, newest first.
func (s *ActivityService) Feed(userID int64, limit int) ([]*model.Activity, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	return s.repo.Recent(userID, limit)
}
