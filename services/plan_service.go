package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vitatrack/ai"
	"vitatrack/models"
	"vitatrack/store"
	"vitatrack/utils"
)

// PlanService generates and stores wellness (workout) and meal plans.
// Generation goes through the AI resolver, so it works the same whether the
// answer came from the local runtime, the remote API, or offline templates.
type PlanService struct {
	store     *store.Store
	plans     store.Collection[models.WellnessPlan]
	mealPlans store.Collection[models.MealPlan]
	resolver  *ai.Resolver
	settings  *SettingsService
	users     *UserService
	log       *zap.Logger
}

func NewPlanService(s *store.Store, resolver *ai.Resolver, settings *SettingsService, users *UserService, log *zap.Logger) *PlanService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlanService{
		store:     s,
		plans:     store.NewCollection[models.WellnessPlan](s),
		mealPlans: store.NewCollection[models.MealPlan](s),
		resolver:  resolver,
		settings:  settings,
		users:     users,
		log:       log,
	}
}

func profileOf(u *models.User) ai.Profile {
	return ai.Profile{
		Age:      u.Age,
		Gender:   u.Gender,
		WeightKg: u.WeightKg,
		HeightCm: u.HeightCm,
		Goal:     string(u.Goal),
	}
}

// GenerateWellnessPlan builds a fresh weekly plan and replaces the user's
// current one wholesale.
func (s *PlanService) GenerateWellnessPlan(ctx context.Context, userID uint) (*models.WellnessPlan, error) {
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}

	req := ai.Request{
		Kind:        ai.KindWellnessPlan,
		System:      "You are a fitness coach. Answer with JSON only.",
		Prompt:      weeklyPlanPrompt(user),
		Temperature: 0.4,
		JSONMode:    true,
		Validate: func(raw string) error {
			_, err := ai.ParseWeeklyPlan(raw)
			return err
		},
	}
	providers := ai.Chain(s.settings.AIOptions(), profileOf(user))
	res, err := s.resolver.Generate(ctx, providers, req)
	if err != nil {
		return nil, err
	}
	utils.AIGenerations.WithLabelValues(res.Source, string(req.Kind)).Inc()

	parsed, err := ai.ParseWeeklyPlan(res.Text)
	if err != nil {
		return nil, err
	}

	days := make([]models.PlanDay, 0, len(parsed.Days))
	for i, d := range parsed.Days {
		exercises := make([]models.Exercise, 0, len(d.Exercises))
		for _, e := range d.Exercises {
			exercises = append(exercises, models.Exercise{
				Name:        e.Name,
				Sets:        e.Sets,
				Reps:        e.Reps,
				RestSeconds: e.RestSeconds,
				Calories:    e.Calories,
				Tip:         e.Tip,
			})
		}
		days = append(days, models.PlanDay{
			Weekday:     i,
			Focus:       d.Focus,
			DurationMin: d.DurationMin,
			Intensity:   models.PlanIntensity(d.Intensity),
			Exercises:   exercises,
		})
	}

	// One active plan per user: drop the old one and its completions.
	if err := s.store.DB().Where("user_id = ?", userID).Delete(&models.CompletedWorkout{}).Error; err != nil {
		return nil, err
	}
	if err := s.store.DB().Where("user_id = ?", userID).Delete(&models.WellnessPlan{}).Error; err != nil {
		return nil, err
	}

	plan := &models.WellnessPlan{UserID: userID, Source: res.Source}
	if err := plan.SetDays(days); err != nil {
		return nil, err
	}
	if _, err := s.plans.Put(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ActivePlan returns the user's current weekly plan, or nil.
func (s *PlanService) ActivePlan(userID uint) (*models.WellnessPlan, error) {
	return s.plans.First("user_id = ?", userID)
}

// CompleteWorkout marks a plan day done. Idempotent per (plan, day); the
// second return reports whether this call was the first completion.
func (s *PlanService) CompleteWorkout(userID uint, dayIndex int) (*models.CompletedWorkout, bool, error) {
	plan, err := s.ActivePlan(userID)
	if err != nil {
		return nil, false, err
	}
	if plan == nil {
		return nil, false, errors.New("no active plan")
	}
	days, err := plan.Days()
	if err != nil {
		return nil, false, err
	}
	if dayIndex < 0 || dayIndex >= len(days) {
		return nil, false, fmt.Errorf("day index %d out of range", dayIndex)
	}

	done := models.CompletedWorkout{
		UserID:      userID,
		PlanID:      plan.ID,
		DayIndex:    dayIndex,
		CompletedAt: time.Now().UTC(),
	}
	res := s.store.DB().
		Where("plan_id = ? AND day_index = ?", plan.ID, dayIndex).
		FirstOrCreate(&done)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &done, res.RowsAffected > 0, nil
}

// CompletedWorkouts lists what was done for the active plan.
func (s *PlanService) CompletedWorkouts(userID uint) ([]models.CompletedWorkout, error) {
	var done []models.CompletedWorkout
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("day_index ASC").
		Find(&done).Error
	return done, err
}

// GenerateMealPlan creates a daily meal plan and appends it to the history.
func (s *PlanService) GenerateMealPlan(ctx context.Context, userID uint) (*models.MealPlan, error) {
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}

	req := ai.Request{
		Kind:        ai.KindMealPlan,
		System:      "You are a nutritionist. Answer with JSON only.",
		Prompt:      mealPlanPrompt(user),
		Temperature: 0.4,
		JSONMode:    true,
		Validate: func(raw string) error {
			_, err := ai.ParseMealPlan(raw)
			return err
		},
	}
	providers := ai.Chain(s.settings.AIOptions(), profileOf(user))
	res, err := s.resolver.Generate(ctx, providers, req)
	if err != nil {
		return nil, err
	}
	utils.AIGenerations.WithLabelValues(res.Source, string(req.Kind)).Inc()

	parsed, err := ai.ParseMealPlan(res.Text)
	if err != nil {
		return nil, err
	}

	meals := make([]models.MealEntry, 0, len(parsed.Meals))
	for _, m := range parsed.Meals {
		meals = append(meals, models.MealEntry{
			Name:     m.Name,
			Time:     m.Time,
			Foods:    m.Foods,
			Calories: m.Calories,
			ProteinG: m.ProteinG,
			CarbsG:   m.CarbsG,
			FatG:     m.FatG,
		})
	}

	plan := &models.MealPlan{
		UserID:        userID,
		CreatedAt:     time.Now().UTC(),
		Source:        res.Source,
		TotalCalories: parsed.TotalCalories,
	}
	if err := plan.SetMeals(meals); err != nil {
		return nil, err
	}
	if _, err := s.mealPlans.Put(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// MealPlanHistory lists generated meal plans, newest first.
func (s *PlanService) MealPlanHistory(userID uint, limit int) ([]models.MealPlan, error) {
	if limit <= 0 {
		limit = 10
	}
	var plans []models.MealPlan
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&plans).Error
	return plans, err
}

func weeklyPlanPrompt(u *models.User) string {
	return fmt.Sprintf(
		`Create a 7-day workout plan for: age %d, gender %q, weight %.1f kg, height %.1f cm, goal %q.
Respond with JSON: {"days":[{"focus":string,"duration_min":int,"intensity":"low"|"moderate"|"high","exercises":[{"name":string,"sets":int,"reps":int,"rest_seconds":int,"calories":int,"tip":string}]}]}`,
		u.Age, u.Gender, u.WeightKg, u.HeightCm, u.Goal,
	)
}

func mealPlanPrompt(u *models.User) string {
	target := utils.DailyCalories(u.WeightKg, u.HeightCm, u.Age, u.Gender, string(u.Goal))
	return fmt.Sprintf(
		`Create a one-day meal plan of about %d kcal for: age %d, gender %q, weight %.1f kg, height %.1f cm, goal %q.
Respond with JSON: {"meals":[{"name":string,"time":"HH:MM","foods":[string],"calories":int,"protein_g":number,"carbs_g":number,"fat_g":number}],"total_calories":int}`,
		target, u.Age, u.Gender, u.WeightKg, u.HeightCm, u.Goal,
	)
}
