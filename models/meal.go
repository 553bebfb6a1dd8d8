package models

import (
	"encoding/json"
	"time"
)

// MealEntry is one meal of a generated plan.
type MealEntry struct {
	Name     string   `json:"name"`
	Time     string   `json:"time"` // suggested time of day, "HH:MM"
	Foods    []string `json:"foods"`
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
}

// MealPlan is one generated daily meal plan. Plans are an append-only log;
// history is retained and listed by creation time.
type MealPlan struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"index:idx_meal_plans_user_created"`
	CreatedAt     time.Time `gorm:"index:idx_meal_plans_user_created"`
	Source        string    `gorm:"size:32"`
	TotalCalories int
	MealsJSON     string `gorm:"column:meals;type:text"`
}

func (p *MealPlan) Meals() ([]MealEntry, error) {
	var meals []MealEntry
	if p.MealsJSON == "" {
		return meals, nil
	}
	err := json.Unmarshal([]byte(p.MealsJSON), &meals)
	return meals, err
}

func (p *MealPlan) SetMeals(meals []MealEntry) error {
	b, err := json.Marshal(meals)
	if err != nil {
		return err
	}
	p.MealsJSON = string(b)
	return nil
}

// MealAnalysis is a nutrient estimate for a described or photographed meal.
type MealAnalysis struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index"`
	CreatedAt   time.Time `gorm:"index"`
	Source      string    `gorm:"size:32"` // "text" | "photo"
	Description string    `gorm:"type:text"`
	PhotoURL    string
	Labels      string `gorm:"type:text"` // comma-separated detected labels
	Calories    int
	ProteinG    float64
	CarbsG      float64
	FatG        float64
}

// Recipe is a saved recipe with its nutrition totals.
type Recipe struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index"`
	CreatedAt    time.Time `gorm:"index"`
	Name         string    `gorm:"not null"`
	Instructions string    `gorm:"type:text"`
	Calories     int
	ProteinG     float64
	CarbsG       float64
	FatG         float64
}
