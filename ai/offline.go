package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"vitatrack/utils"
)

// Offline is the deterministic last-resort generator. It produces
// structurally valid output from static templates with no network at all,
// scaling calorie targets from the profile when biometrics are present.
type Offline struct {
	profile Profile
}

func NewOffline(profile Profile) *Offline {
	return &Offline{profile: profile}
}

func (o *Offline) Name() string { return "offline" }

func (o *Offline) Available(ctx context.Context) error { return nil }

func (o *Offline) Generate(ctx context.Context, req Request) (string, error) {
	switch req.Kind {
	case KindMealPlan:
		return marshalJSON(o.mealPlan())
	case KindWellnessPlan:
		return marshalJSON(o.weeklyPlan())
	case KindAnalysis:
		return marshalJSON(o.analysis(req.Prompt))
	default:
		return o.chatReply(), nil
	}
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	return string(b), nil
}

// Meal distribution across the day as a fraction of the calorie target.
var mealSlots = []struct {
	name  string
	time  string
	share float64
}{
	{"Breakfast", "07:30", 0.25},
	{"Lunch", "12:30", 0.35},
	{"Afternoon snack", "16:00", 0.15},
	{"Dinner", "19:30", 0.25},
}

var mealFoods = map[string][][]string{
	"lose_weight": {
		{"Scrambled eggs", "Whole-grain toast", "Papaya"},
		{"Grilled chicken breast", "Brown rice", "Steamed broccoli"},
		{"Plain yogurt", "Mixed nuts"},
		{"Baked fish", "Sweet potato", "Green salad"},
	},
	"gain_muscle": {
		{"Oatmeal with banana", "Whole eggs", "Peanut butter"},
		{"Lean beef", "White rice", "Black beans", "Avocado"},
		{"Whey shake", "Rice cakes"},
		{"Chicken thighs", "Pasta", "Mixed vegetables"},
	},
	"maintain": {
		{"Omelet", "Fruit", "Coffee"},
		{"Grilled chicken", "Rice and beans", "Salad"},
		{"Cottage cheese", "Crackers"},
		{"Fish or chicken", "Roasted vegetables", "Quinoa"},
	},
}

func (o *Offline) mealPlan() GeneratedMealPlan {
	target := utils.DailyCalories(o.profile.WeightKg, o.profile.HeightCm, o.profile.Age, o.profile.Gender, o.profile.Goal)
	foods, ok := mealFoods[o.profile.Goal]
	if !ok {
		foods = mealFoods["maintain"]
	}

	plan := GeneratedMealPlan{TotalCalories: 0}
	for i, slot := range mealSlots {
		cal := int(float64(target) * slot.share)
		p, c, f := utils.MacroSplit(cal, 0.30, 0.45, 0.25)
		plan.Meals = append(plan.Meals, GeneratedMeal{
			Name:     slot.name,
			Time:     slot.time,
			Foods:    foods[i%len(foods)],
			Calories: cal,
			ProteinG: p,
			CarbsG:   c,
			FatG:     f,
		})
		plan.TotalCalories += cal
	}
	return plan
}

var weeklyFocus = map[string][]string{
	"lose_weight": {"Full body + cardio", "Cardio intervals", "Lower body", "Active recovery walk", "Upper body", "Cardio + core", "Rest"},
	"gain_muscle": {"Chest and triceps", "Back and biceps", "Legs", "Rest", "Shoulders and core", "Full body strength", "Rest"},
	"maintain":    {"Full body", "Cardio", "Rest", "Upper body", "Lower body", "Mobility", "Rest"},
}

var exerciseTemplates = map[string][]GeneratedExercise{
	"strength": {
		{Name: "Squats", Sets: 3, Reps: 12, RestSeconds: 60, Calories: 80},
		{Name: "Push-ups", Sets: 3, Reps: 15, RestSeconds: 45, Calories: 60},
		{Name: "Bent-over rows", Sets: 3, Reps: 12, RestSeconds: 60, Calories: 70, Tip: "Keep the spine neutral"},
		{Name: "Plank", Sets: 3, Reps: 1, RestSeconds: 30, Calories: 30, Tip: "Hold 45 seconds"},
	},
	"cardio": {
		{Name: "Brisk walk or jog", Calories: 250, Tip: "Conversational pace"},
		{Name: "Jumping jacks", Sets: 4, Reps: 30, RestSeconds: 30, Calories: 90},
		{Name: "Stair climbs", Sets: 4, Reps: 10, RestSeconds: 45, Calories: 100},
	},
	"rest": {
		{Name: "Light stretching", Calories: 20, Tip: "Ten minutes is plenty"},
	},
}

func (o *Offline) weeklyPlan() GeneratedWeeklyPlan {
	focuses, ok := weeklyFocus[o.profile.Goal]
	if !ok {
		focuses = weeklyFocus["maintain"]
	}

	var plan GeneratedWeeklyPlan
	for _, focus := range focuses {
		lower := strings.ToLower(focus)
		kind := "strength"
		intensity := "moderate"
		duration := 45
		switch {
		case strings.Contains(lower, "rest"), strings.Contains(lower, "recovery"), strings.Contains(lower, "mobility"):
			kind, intensity, duration = "rest", "low", 15
		case strings.Contains(lower, "cardio"):
			kind, intensity, duration = "cardio", "high", 40
		}
		plan.Days = append(plan.Days, GeneratedDay{
			Focus:       focus,
			DurationMin: duration,
			Intensity:   intensity,
			Exercises:   exerciseTemplates[kind],
		})
	}
	return plan
}

func (o *Offline) analysis(description string) GeneratedAnalysis {
	// A rough, fixed estimate; the point is a structurally valid answer,
	// not accuracy, when every smarter provider is out of reach.
	cal := 450
	p, c, f := utils.MacroSplit(cal, 0.25, 0.50, 0.25)
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = "Meal"
	}
	return GeneratedAnalysis{
		Description: desc,
		Calories:    cal,
		ProteinG:    p,
		CarbsG:      c,
		FatG:        f,
	}
}

func (o *Offline) chatReply() string {
	return "I'm in offline mode right now, so I can't give personalized answers. " +
		"General guidance: keep meals balanced around lean protein, vegetables and " +
		"whole grains, drink water through the day, and stay consistent with your " +
		"weekly plan. Ask me again when a connection is available for details."
}
