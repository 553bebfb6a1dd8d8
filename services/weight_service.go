package services

import (
	"time"

	"go.uber.org/zap"

	"vitatrack/models"
	"vitatrack/store"
)

// WeightService keeps the weight history, unique per (user, day); logging
// twice in one day overwrites, and listings are sorted ascending by day.
type WeightService struct {
	store *store.Store
	log   *zap.Logger
}

func NewWeightService(s *store.Store, log *zap.Logger) *WeightService {
	if log == nil {
		log = zap.NewNop()
	}
	return &WeightService{store: s, log: log}
}

// Upsert records a measurement for the entry's local day.
func (s *WeightService) Upsert(userID uint, at time.Time, weightKg float64) (*models.WeightEntry, error) {
	day := dayStart(at)

	entry := models.WeightEntry{
		UserID:   userID,
		Day:      day,
		WeightKg: weightKg,
	}
	err := s.store.DB().
		Where("user_id = ? AND day = ?", userID, day).
		Assign(map[string]any{"weight_kg": weightKg}).
		FirstOrCreate(&entry).Error
	if err != nil {
		return nil, err
	}
	// Assign only updates on conflict at the DB level; reflect it locally.
	entry.WeightKg = weightKg
	return &entry, nil
}

// List returns the full history sorted ascending by day.
func (s *WeightService) List(userID uint) ([]models.WeightEntry, error) {
	var entries []models.WeightEntry
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("day ASC").
		Find(&entries).Error
	return entries, err
}

func (s *WeightService) Latest(userID uint) (*models.WeightEntry, error) {
	entries, err := s.List(userID)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	return &entries[len(entries)-1], nil
}
