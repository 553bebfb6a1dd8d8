package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"vitatrack/ai"
	"vitatrack/models"
	"vitatrack/store"
	"vitatrack/utils"
)

// WeeklyReport is the aggregate view of the last seven days plus a short
// written summary.
type WeeklyReport struct {
	From              time.Time `json:"from"`
	To                time.Time `json:"to"`
	WorkoutsCompleted int       `json:"workouts_completed"`
	MealPlans         int       `json:"meal_plans"`
	MealsAnalyzed     int       `json:"meals_analyzed"`
	AvgPlanCalories   int       `json:"avg_plan_calories"`
	WeightStartKg     float64   `json:"weight_start_kg"`
	WeightEndKg       float64   `json:"weight_end_kg"`
	WeightDeltaKg     float64   `json:"weight_delta_kg"`
	Points            int       `json:"points"`
	Summary           string    `json:"summary"`
	SummarySource     string    `json:"summary_source"`
}

// ReportService builds weekly progress reports. Reports count against a
// weekly usage limit.
type ReportService struct {
	store    *store.Store
	resolver *ai.Resolver
	settings *SettingsService
	users    *UserService
	weights  *WeightService
	log      *zap.Logger
}

func NewReportService(s *store.Store, resolver *ai.Resolver, settings *SettingsService, users *UserService, weights *WeightService, log *zap.Logger) *ReportService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportService{
		store:    s,
		resolver: resolver,
		settings: settings,
		users:    users,
		weights:  weights,
		log:      log,
	}
}

// Generate assembles the last week's aggregates and a written summary.
func (s *ReportService) Generate(ctx context.Context, userID uint) (*WeeklyReport, error) {
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}
	if err := s.users.ConsumeReport(user); err != nil {
		return nil, err
	}

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -7)
	report := &WeeklyReport{From: from, To: to, Points: user.Points}

	db := s.store.DB()
	var n int64
	if err := db.Model(&models.CompletedWorkout{}).
		Where("user_id = ? AND completed_at >= ?", userID, from).
		Count(&n).Error; err != nil {
		return nil, err
	}
	report.WorkoutsCompleted = int(n)

	if err := db.Model(&models.MealPlan{}).
		Where("user_id = ? AND created_at >= ?", userID, from).
		Count(&n).Error; err != nil {
		return nil, err
	}
	report.MealPlans = int(n)

	if report.MealPlans > 0 {
		var avg float64
		if err := db.Model(&models.MealPlan{}).
			Where("user_id = ? AND created_at >= ?", userID, from).
			Select("AVG(total_calories)").
			Scan(&avg).Error; err != nil {
			return nil, err
		}
		report.AvgPlanCalories = int(avg)
	}

	if err := db.Model(&models.MealAnalysis{}).
		Where("user_id = ? AND created_at >= ?", userID, from).
		Count(&n).Error; err != nil {
		return nil, err
	}
	report.MealsAnalyzed = int(n)

	entries, err := s.weights.List(userID)
	if err != nil {
		return nil, err
	}
	var window []models.WeightEntry
	for _, e := range entries {
		if !e.Day.Before(from) {
			window = append(window, e)
		}
	}
	if len(window) > 0 {
		report.WeightStartKg = window[0].WeightKg
		report.WeightEndKg = window[len(window)-1].WeightKg
		report.WeightDeltaKg = report.WeightEndKg - report.WeightStartKg
	}

	summary, source := s.summarize(ctx, user, report)
	report.Summary = summary
	report.SummarySource = source
	return report, nil
}

// summarize asks the resolver for a short written recap; any failure falls
// back to a fixed sentence so the report is never blocked on a model.
func (s *ReportService) summarize(ctx context.Context, user *models.User, r *WeeklyReport) (string, string) {
	req := ai.Request{
		Kind:        ai.KindChat,
		System:      "You are a supportive fitness coach. Answer in two or three sentences, plain text.",
		Prompt:      reportPrompt(user, r),
		Temperature: 0.6,
	}
	providers := ai.Chain(s.settings.AIOptions(), profileOf(user))
	res, err := s.resolver.Generate(ctx, providers, req)
	if err != nil {
		s.log.Warn("report_summary_failed", zap.Uint("user_id", user.ID), zap.Error(err))
		return fmt.Sprintf(
			"You completed %d workouts and logged %d meal plans this week. Keep going.",
			r.WorkoutsCompleted, r.MealPlans,
		), "offline"
	}
	utils.AIGenerations.WithLabelValues(res.Source, string(req.Kind)).Inc()
	return strings.TrimSpace(res.Text), res.Source
}

func reportPrompt(u *models.User, r *WeeklyReport) string {
	return fmt.Sprintf(
		"Write a short weekly recap for a user whose goal is %s. This week: %d workouts completed, %d meal plans generated, %d meals analyzed, weight change %.1f kg, %d total points.",
		u.Goal, r.WorkoutsCompleted, r.MealPlans, r.MealsAnalyzed, r.WeightDeltaKg, u.Points,
	)
}
