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

// AnalysisService estimates the nutrients of a described or photographed
// meal. Photo analysis is rate limited per day; both paths end in the same
// resolver call so offline users still get an estimate.
type AnalysisService struct {
	store    *store.Store
	analyses store.Collection[models.MealAnalysis]
	resolver *ai.Resolver
	settings *SettingsService
	users    *UserService
	food     *FoodService
	log      *zap.Logger
}

func NewAnalysisService(s *store.Store, resolver *ai.Resolver, settings *SettingsService, users *UserService, food *FoodService, log *zap.Logger) *AnalysisService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AnalysisService{
		store:    s,
		analyses: store.NewCollection[models.MealAnalysis](s),
		resolver: resolver,
		settings: settings,
		users:    users,
		food:     food,
		log:      log,
	}
}

// AnalyzeText estimates nutrients for a free-text meal description.
func (s *AnalysisService) AnalyzeText(ctx context.Context, userID uint, description string) (*models.MealAnalysis, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, errors.New("empty meal description")
	}
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}

	analysis, err := s.estimate(ctx, user, description)
	if err != nil {
		return nil, err
	}

	rec := &models.MealAnalysis{
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
		Source:      "text",
		Description: analysis.Description,
		Calories:    analysis.Calories,
		ProteinG:    analysis.ProteinG,
		CarbsG:      analysis.CarbsG,
		FatG:        analysis.FatG,
	}
	if _, err := s.analyses.Put(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// AnalyzePhoto decodes a base64 photo, counts it against the daily limit,
// optionally archives it and detects food labels, then estimates nutrients
// from whatever description we could assemble.
func (s *AnalysisService) AnalyzePhoto(ctx context.Context, userID uint, payload string) (*models.MealAnalysis, error) {
	user, err := s.users.GetByID(userID)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}

	// Reject malformed payloads before touching the daily quota.
	image, contentType, err := utils.DecodeBase64Image(payload)
	if err != nil {
		return nil, err
	}
	if err := s.users.ConsumePhotoAnalysis(user); err != nil {
		return nil, err
	}

	var photoURL string
	if utils.S3Configured() {
		photoURL, err = utils.UploadMealPhoto(ctx, image, contentType, userID)
		if err != nil {
			// Archival is best effort; the analysis still proceeds.
			s.log.Warn("meal_photo_upload_failed", zap.Uint("user_id", userID), zap.Error(err))
			photoURL = ""
		}
	}

	var labels []string
	if utils.RekognitionConfigured() {
		labels, err = utils.DetectFoodLabels(ctx, image)
		if err != nil {
			s.log.Warn("label_detection_failed", zap.Uint("user_id", userID), zap.Error(err))
			labels = nil
		}
	}

	description := "a photographed meal"
	if len(labels) > 0 {
		description = "a meal containing: " + strings.Join(labels, ", ")
	}

	analysis, err := s.estimate(ctx, user, description)
	if err != nil {
		return nil, err
	}

	rec := &models.MealAnalysis{
		UserID:      userID,
		CreatedAt:   time.Now().UTC(),
		Source:      "photo",
		Description: analysis.Description,
		PhotoURL:    photoURL,
		Labels:      strings.Join(labels, ","),
		Calories:    analysis.Calories,
		ProteinG:    analysis.ProteinG,
		CarbsG:      analysis.CarbsG,
		FatG:        analysis.FatG,
	}
	if _, err := s.analyses.Put(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// History lists past analyses, newest first.
func (s *AnalysisService) History(userID uint, limit int) ([]models.MealAnalysis, error) {
	if limit <= 0 {
		limit = 20
	}
	var recs []models.MealAnalysis
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&recs).Error
	return recs, err
}

func (s *AnalysisService) estimate(ctx context.Context, user *models.User, description string) (*ai.GeneratedAnalysis, error) {
	// When the food database knows the exact item we can skip the model.
	if s.food != nil && s.food.Configured() {
		if hits, err := s.food.SearchFoods(description); err == nil && len(hits) == 1 && hits[0].Calories > 0 {
			h := hits[0]
			return &ai.GeneratedAnalysis{
				Description: h.Label,
				Calories:    int(h.Calories),
				ProteinG:    h.ProteinG,
				CarbsG:      h.CarbsG,
				FatG:        h.FatG,
			}, nil
		}
	}

	req := ai.Request{
		Kind:        ai.KindAnalysis,
		System:      "You are a nutritionist. Answer with JSON only.",
		Prompt:      analysisPrompt(description),
		Temperature: 0.2,
		JSONMode:    true,
		Validate: func(raw string) error {
			_, err := ai.ParseAnalysis(raw)
			return err
		},
	}
	providers := ai.Chain(s.settings.AIOptions(), profileOf(user))
	res, err := s.resolver.Generate(ctx, providers, req)
	if err != nil {
		return nil, err
	}
	utils.AIGenerations.WithLabelValues(res.Source, string(req.Kind)).Inc()

	analysis, err := ai.ParseAnalysis(res.Text)
	if err != nil {
		return nil, err
	}
	if analysis.Description == "" {
		analysis.Description = description
	}
	return analysis, nil
}

func analysisPrompt(description string) string {
	return fmt.Sprintf(
		`Estimate the nutrition of this meal: %q.
Respond with JSON: {"description":string,"calories":int,"protein_g":number,"carbs_g":number,"fat_g":number}`,
		description,
	)
}
