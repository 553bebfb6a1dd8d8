package services

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vitatrack/models"
	"vitatrack/store"
)

const (
	maxPhotosPerDay   = 5
	maxReportsPerWeek = 3
)

// ErrLimitReached means a rolling usage counter is exhausted for its window.
var ErrLimitReached = errors.New("usage limit reached")

type UserService struct {
	store    *store.Store
	users    store.Collection[models.User]
	activity *ActivityService
	log      *zap.Logger
}

func NewUserService(s *store.Store, activity *ActivityService, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		store:    s,
		users:    store.NewCollection[models.User](s),
		activity: activity,
		log:      log,
	}
}

func (s *UserService) GetByID(id uint) (*models.User, error) {
	return s.users.GetByID(id)
}

func (s *UserService) FindByUsername(username string) (*models.User, error) {
	return s.users.First("username = ?", username)
}

type ProfileInput struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	WeightKg float64 `json:"weight_kg"`
	HeightCm float64 `json:"height_cm"`
	Goal     string  `json:"goal" binding:"omitempty,goal"`

	BiometricEnabled     *bool `json:"biometric_enabled"`
	NotificationsEnabled *bool `json:"notifications_enabled"`
}

// UpdateProfile applies the non-zero input fields.
func (s *UserService) UpdateProfile(id uint, input ProfileInput) (*models.User, error) {
	// Binding enforces this at the HTTP edge; enforce it here too so no
	// caller can persist an unknown goal.
	if !models.Goal(input.Goal).Valid() {
		return nil, fmt.Errorf("invalid goal %q", input.Goal)
	}

	user, err := s.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Age > 0 {
		user.Age = input.Age
	}
	if input.Gender != "" {
		user.Gender = input.Gender
	}
	if input.WeightKg > 0 {
		user.WeightKg = input.WeightKg
	}
	if input.HeightCm > 0 {
		user.HeightCm = input.HeightCm
	}
	if input.Goal != "" {
		user.Goal = models.Goal(input.Goal)
	}
	if input.BiometricEnabled != nil {
		user.BiometricEnabled = *input.BiometricEnabled
	}
	if input.NotificationsEnabled != nil {
		user.NotificationsEnabled = *input.NotificationsEnabled
	}

	if _, err := s.users.Put(user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureUsageWindows rolls the usage counters over when their window has
// passed: the photo counter resets daily, the report counter weekly. Must
// run before any counter is read.
func (s *UserService) EnsureUsageWindows(user *models.User) (bool, error) {
	now := time.Now()
	changed := false

	if !sameDay(user.LastPhotoAnalysisAt, now) {
		if user.PhotosAnalyzedToday != 0 {
			user.PhotosAnalyzedToday = 0
			changed = true
		}
		user.LastPhotoAnalysisAt = dayStart(now)
		changed = true
	}

	if user.ReportsResetAt.IsZero() || now.Sub(user.ReportsResetAt) >= 7*24*time.Hour {
		if user.ReportsThisWeek != 0 {
			user.ReportsThisWeek = 0
		}
		user.ReportsResetAt = now
		changed = true
	}

	if changed {
		if _, err := s.users.Put(user); err != nil {
			return false, err
		}
	}
	return changed, nil
}

// ConsumePhotoAnalysis counts one photo analysis against the daily limit.
func (s *UserService) ConsumePhotoAnalysis(user *models.User) error {
	if _, err := s.EnsureUsageWindows(user); err != nil {
		return err
	}
	if user.PhotosAnalyzedToday >= maxPhotosPerDay {
		return fmt.Errorf("%w: %d photo analyses today", ErrLimitReached, user.PhotosAnalyzedToday)
	}
	user.PhotosAnalyzedToday++
	user.LastPhotoAnalysisAt = time.Now()
	_, err := s.users.Put(user)
	return err
}

// ConsumeReport counts one report against the weekly limit.
func (s *UserService) ConsumeReport(user *models.User) error {
	if _, err := s.EnsureUsageWindows(user); err != nil {
		return err
	}
	if user.ReportsThisWeek >= maxReportsPerWeek {
		return fmt.Errorf("%w: %d reports this week", ErrLimitReached, user.ReportsThisWeek)
	}
	user.ReportsThisWeek++
	_, err := s.users.Put(user)
	return err
}

// AddPoints credits gamification points and records the reason.
func (s *UserService) AddPoints(id uint, points int, reason string) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}
	user.Points += points
	if _, err := s.users.Put(user); err != nil {
		return nil, err
	}
	if s.activity != nil {
		_ = s.activity.Record(id, "points.added", fmt.Sprintf("%+d (%s)", points, reason))
	}
	return user, nil
}

// CompleteChallenge records a challenge once and credits its points.
func (s *UserService) CompleteChallenge(id uint, challengeID string, points int) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil || user == nil {
		return nil, firstErr(err, errors.New("user not found"))
	}
	if user.ChallengeCompleted(challengeID) {
		return user, nil
	}
	user.AddChallenge(challengeID)
	user.Points += points
	user.DisciplineScore++
	if _, err := s.users.Put(user); err != nil {
		return nil, err
	}
	if s.activity != nil {
		_ = s.activity.Record(id, "challenge.completed", challengeID)
	}
	return user, nil
}

// DeleteAccount either purges the user and everything they own, or strips
// the personally identifying fields while keeping gameplay history.
func (s *UserService) DeleteAccount(id uint, purge bool) error {
	user, err := s.users.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	if purge {
		db := s.store.DB()
		for _, m := range []any{
			&models.WellnessPlan{}, &models.CompletedWorkout{}, &models.MealPlan{},
			&models.MealAnalysis{}, &models.Recipe{}, &models.ChatMessage{},
			&models.WeightEntry{}, &models.ActivityLog{}, &models.ActiveSession{},
		} {
			if err := db.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return s.users.Remove(id)
	}

	user.Name = "Anonymous user"
	user.Username = fmt.Sprintf("anon-%d", id)
	user.PasswordHash = ""
	user.Gender = ""
	user.Anonymized = true
	user.SharedCategories = ""
	_, err = s.users.Put(user)
	return err
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func dayStart(t time.Time) time.Time {
	tt := t.In(time.Local)
	return time.Date(tt.Year(), tt.Month(), tt.Day(), 0, 0, 0, 0, time.Local)
}

func firstErr(err error, fallback error) error {
	if err != nil {
		return err
	}
	return fallback
}
