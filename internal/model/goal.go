package model

import (
	"strings"
	"time"
)

type Period string

const (
	PeriodDaily     Period = "DAILY"
	PeriodWeekly    Period = "WEEKLY"
	PeriodMonthly   Period = "MONTHLY"
	PeriodQuarterly Period = "QUARTERLY"
	PeriodCustom    Period = "CUSTOM"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodQuarterly, PeriodCustom:
		return true
	}
	return false
}

// ActivityType is one of the built-in activity tags or any user string,
// which is treated as a custom activity.
type ActivityType string

const (
	ActivityGitHubCommits ActivityType = "GITHUB_COMMITS"
	ActivityStudy         ActivityType = "STUDY"
	ActivityGym           ActivityType = "GYM"
	ActivityLinkedInPost  ActivityType = "LINKEDIN_POST"
	ActivityDSA           ActivityType = "DSA"
	ActivityCustom        ActivityType = "CUSTOM"
)

func (a ActivityType) IsBuiltin() bool {
	switch a {
	case ActivityGitHubCommits, ActivityStudy, ActivityGym, ActivityLinkedInPost, ActivityDSA, ActivityCustom:
		return true
	}
	return false
}

type RpgStat string

const (
	StatSTR RpgStat = "STR"
	StatDEX RpgStat = "DEX"
	StatINT RpgStat = "INT"
	StatWIS RpgStat = "WIS"
	StatCHA RpgStat = "CHA"
	StatVIT RpgStat = "VIT"
)

func (s RpgStat) Valid() bool {
	switch s {
	case StatSTR, StatDEX, StatINT, StatWIS, StatCHA, StatVIT:
		return true
	}
	return false
}

// DefaultStat returns the RPG stat a goal trains when none was chosen.
func DefaultStat(a ActivityType) RpgStat {
	switch a {
	case ActivityGitHubCommits:
		return StatDEX
	case ActivityStudy:
		return StatINT
	case ActivityGym:
		return StatSTR
	case ActivityLinkedInPost:
		return StatCHA
	case ActivityDSA:
		return StatWIS
	default:
		return StatVIT
	}
}

type Goal struct {
	ID               int64        `db:"id" json:"id"`
	UserID           int64        `db:"user_id" json:"-"`
	Name             string       `db:"name" json:"name"`
	ActivityType     ActivityType `db:"activity_type" json:"activityType"`
	Period           Period       `db:"period" json:"period"`
	CustomPeriodDays *float64     `db:"custom_period_days" json:"customPeriodDays,omitempty"`
	TargetValue      *float64     `db:"target_value" json:"targetValue"`
	CurrentValue     float64      `db:"current_value" json:"currentValue"`
	Unit             string       `db:"unit" json:"unit,omitempty"`
	StartDate        *string      `db:"start_date" json:"startDate,omitempty"`
	EndDate          *string      `db:"end_date" json:"endDate,omitempty"`
	RpgStat          RpgStat      `db:"rpg_stat" json:"rpgStat,omitempty"`
	CreatedAt        time.Time    `db:"created_at" json:"-"`
	UpdatedAt        time.Time    `db:"updated_at" json:"-"`
}

// Target returns the target value, or 0 when the goal has none.
func (g *Goal) Target() float64 {
	if g.TargetValue == nil {
		return 0
	}
	return *g.TargetValue
}

// DisplayName is the goal name, falling back to its activity type.
func (g *Goal) DisplayName() string {
	if name := strings.TrimSpace(g.Name); name != "" {
		return name
	}
	return string(g.ActivityType)
}

// Clone returns a deep copy so snapshots never share pointer fields.
func (g Goal) Clone() Goal {
	out := g
	out.CustomPeriodDays = cloneFloat(g.CustomPeriodDays)
	out.TargetValue = cloneFloat(g.TargetValue)
	out.StartDate = cloneString(g.StartDate)
	out.EndDate = cloneString(g.EndDate)
	return out
}

// GoalPayload is the create/update body accepted by the goal service.
type GoalPayload struct {
	Name             string       `json:"name"`
	ActivityType     ActivityType `json:"activityType"`
	Period           Period       `json:"period"`
	TargetValue      float64      `json:"targetValue"`
	Unit             string       `json:"unit,omitempty"`
	CustomPeriodDays *float64     `json:"customPeriodDays,omitempty"`
	StartDate        *string      `json:"startDate,omitempty"`
	EndDate          *string      `json:"endDate,omitempty"`
	RpgStat          RpgStat      `json:"rpgStat,omitempty"`
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
