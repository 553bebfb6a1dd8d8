package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Generated* types are the strict decode targets for structured provider
// output. Downstream code only ever sees these, never raw JSON.

type GeneratedMeal struct {
	Name     string   `json:"name"`
	Time     string   `json:"time"`
	Foods    []string `json:"foods"`
	Calories int      `json:"calories"`
	ProteinG float64  `json:"protein_g"`
	CarbsG   float64  `json:"carbs_g"`
	FatG     float64  `json:"fat_g"`
}

type GeneratedMealPlan struct {
	Meals         []GeneratedMeal `json:"meals"`
	TotalCalories int             `json:"total_calories"`
}

type GeneratedExercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets,omitempty"`
	Reps        int    `json:"reps,omitempty"`
	RestSeconds int    `json:"rest_seconds,omitempty"`
	Calories    int    `json:"calories,omitempty"`
	Tip         string `json:"tip,omitempty"`
}

type GeneratedDay struct {
	Focus       string              `json:"focus"`
	DurationMin int                 `json:"duration_min"`
	Intensity   string              `json:"intensity"`
	Exercises   []GeneratedExercise `json:"exercises"`
}

type GeneratedWeeklyPlan struct {
	Days []GeneratedDay `json:"days"`
}

type GeneratedAnalysis struct {
	Description string  `json:"description"`
	Calories    int     `json:"calories"`
	ProteinG    float64 `json:"protein_g"`
	CarbsG      float64 `json:"carbs_g"`
	FatG        float64 `json:"fat_g"`
}

// ParseMealPlan strictly decodes a provider's meal-plan output.
func ParseMealPlan(raw string) (*GeneratedMealPlan, error) {
	var plan GeneratedMealPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &plan); err != nil {
		return nil, fmt.Errorf("meal plan is not valid JSON: %w", err)
	}
	if len(plan.Meals) == 0 {
		return nil, fmt.Errorf("meal plan has no meals")
	}
	total := 0
	for i, m := range plan.Meals {
		if strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("meal %d has no name", i)
		}
		if m.Calories <= 0 {
			return nil, fmt.Errorf("meal %q has non-positive calories", m.Name)
		}
		if m.ProteinG < 0 || m.CarbsG < 0 || m.FatG < 0 {
			return nil, fmt.Errorf("meal %q has negative macros", m.Name)
		}
		total += m.Calories
	}
	if plan.TotalCalories == 0 {
		plan.TotalCalories = total
	}
	return &plan, nil
}

// ParseWeeklyPlan strictly decodes a provider's weekly workout plan output.
func ParseWeeklyPlan(raw string) (*GeneratedWeeklyPlan, error) {
	var plan GeneratedWeeklyPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &plan); err != nil {
		return nil, fmt.Errorf("weekly plan is not valid JSON: %w", err)
	}
	if len(plan.Days) == 0 {
		return nil, fmt.Errorf("weekly plan has no days")
	}
	for i, d := range plan.Days {
		if strings.TrimSpace(d.Focus) == "" {
			return nil, fmt.Errorf("day %d has no focus", i)
		}
		switch d.Intensity {
		case "", "low", "moderate", "high":
		default:
			return nil, fmt.Errorf("day %d has unknown intensity %q", i, d.Intensity)
		}
	}
	return &plan, nil
}

// ParseAnalysis strictly decodes a nutrient-estimate output.
func ParseAnalysis(raw string) (*GeneratedAnalysis, error) {
	var a GeneratedAnalysis
	if err := json.Unmarshal([]byte(stripFences(raw)), &a); err != nil {
		return nil, fmt.Errorf("analysis is not valid JSON: %w", err)
	}
	if a.Calories <= 0 {
		return nil, fmt.Errorf("analysis has non-positive calories")
	}
	return &a, nil
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
	}
	return strings.TrimSpace(s)
}
