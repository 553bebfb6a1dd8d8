package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// PlanIntensity categorizes a training day's effort level.
type PlanIntensity string

const (
	IntensityLow      PlanIntensity = "low"
	IntensityModerate PlanIntensity = "moderate"
	IntensityHigh     PlanIntensity = "high"
)

// Exercise is a single entry of a training day.
type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets,omitempty"`
	Reps        int    `json:"reps,omitempty"`
	RestSeconds int    `json:"rest_seconds,omitempty"`
	Calories    int    `json:"calories,omitempty"`
	Tip         string `json:"tip,omitempty"`
}

// PlanDay is one day of a weekly wellness plan.
type PlanDay struct {
	Weekday     int           `json:"weekday"` // 0 = Monday
	Focus       string        `json:"focus"`
	DurationMin int           `json:"duration_min"`
	Intensity   PlanIntensity `json:"intensity"`
	Exercises   []Exercise    `json:"exercises"`
}

// WellnessPlan is the weekly training plan. There is at most one per user;
// regeneration replaces the record wholesale, it is never patched per field.
type WellnessPlan struct {
	gorm.Model
	UserID   uint   `gorm:"index;not null"`
	Source   string `gorm:"size:32"` // which provider produced it
	DaysJSON string `gorm:"column:days;type:text"`
}

func (p *WellnessPlan) Days() ([]PlanDay, error) {
	var days []PlanDay
	if p.DaysJSON == "" {
		return days, nil
	}
	err := json.Unmarshal([]byte(p.DaysJSON), &days)
	return days, err
}

func (p *WellnessPlan) SetDays(days []PlanDay) error {
	b, err := json.Marshal(days)
	if err != nil {
		return err
	}
	p.DaysJSON = string(b)
	return nil
}

// CompletedWorkout marks one weekly-plan day as done. The (plan, day) pair is
// unique, so completing the same day twice is a no-op.
type CompletedWorkout struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	PlanID      uint `gorm:"uniqueIndex:idx_completed_plan_day"`
	DayIndex    int  `gorm:"uniqueIndex:idx_completed_plan_day"`
	CompletedAt time.Time
}
