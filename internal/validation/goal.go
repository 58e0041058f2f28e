package validation

import (
	"errors"
	"math"
	"strings"

	"github.com/lifedash/questlog/internal/model"
)

// MinCustomPeriodDays is the exclusive lower bound for custom periods.
const MinCustomPeriodDays = 0.5

// Error is a local, pre-network validation failure. Nothing is mutated
// when one is returned.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var v *Error
	return errors.As(err, &v)
}

// ValidateGoal checks a goal payload before it is sent to the goal service.
func ValidateGoal(p model.GoalPayload) error {
	if err := ValidateName(p.Name); err != nil {
		return err
	}

	if strings.TrimSpace(string(p.ActivityType)) == "" {
		return &Error{Field: "activityType", Message: "activity type is required"}
	}

	if !p.Period.Valid() {
		return &Error{Field: "period", Message: "period must be one of DAILY, WEEKLY, MONTHLY, QUARTERLY, CUSTOM"}
	}

	if math.IsNaN(p.TargetValue) || p.TargetValue <= 0 {
		return &Error{Field: "targetValue", Message: "target must be greater than zero"}
	}

	if p.Period == model.PeriodCustom {
		if p.CustomPeriodDays == nil || *p.CustomPeriodDays <= MinCustomPeriodDays {
			return &Error{Field: "customPeriodDays", Message: "custom period must be greater than 0.5 days"}
		}
	}

	if p.StartDate != nil && *p.StartDate != "" {
		if err := ValidateDate(*p.StartDate); err != nil {
			return err
		}
	}
	if p.EndDate != nil && *p.EndDate != "" {
		if err := ValidateDate(*p.EndDate); err != nil {
			return err
		}
	}
	if p.StartDate != nil && p.EndDate != nil && *p.StartDate != "" && *p.EndDate != "" && *p.EndDate < *p.StartDate {
		return &Error{Field: "endDate", Message: "end date must not be before start date"}
	}

	if p.RpgStat != "" && !p.RpgStat.Valid() {
		return &Error{Field: "rpgStat", Message: "unknown rpg stat"}
	}

	return nil
}

// ValidateProgress checks a progress value before it is applied.
func ValidateProgress(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &Error{Field: "value", Message: "value must be a number"}
	}
	if value < 0 {
		return &Error{Field: "value", Message: "value must be zero or higher"}
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD calendar date.
func ValidateDate(date string) error {
	if _, err := model.ParseDate(date); err != nil {
		return &Error{Field: "date", Message: "date must be formatted YYYY-MM-DD"}
	}
	return nil
}
