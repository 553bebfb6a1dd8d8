package services

import (
	"time"

	"go.uber.org/zap"

	"vitatrack/models"
	"vitatrack/store"
	"vitatrack/utils"
)

const (
	maxActivityEntries = 200
	maxActiveSessions  = 5
)

// ActivityService keeps the append-only audit trail and the bounded device
// session registry. Both are capped; the oldest entries are evicted.
type ActivityService struct {
	store    *store.Store
	logs     store.Collection[models.ActivityLog]
	sessions store.Collection[models.ActiveSession]
	log      *zap.Logger
}

func NewActivityService(s *store.Store, log *zap.Logger) *ActivityService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ActivityService{
		store:    s,
		logs:     store.NewCollection[models.ActivityLog](s),
		sessions: store.NewCollection[models.ActiveSession](s),
		log:      log,
	}
}

// Record appends an audit entry and evicts beyond the cap.
func (s *ActivityService) Record(userID uint, action, detail string) error {
	entry := &models.ActivityLog{
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.logs.Put(entry); err != nil {
		return err
	}

	return s.store.DB().Exec(
		`DELETE FROM activity_logs WHERE user_id = ? AND id NOT IN
		 (SELECT id FROM activity_logs WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?)`,
		userID, userID, maxActivityEntries,
	).Error
}

func (s *ActivityService) List(userID uint, limit int) ([]models.ActivityLog, error) {
	if limit <= 0 || limit > maxActivityEntries {
		limit = 50
	}
	var entries []models.ActivityLog
	err := s.store.DB().
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// RegisterSession upserts a device session keyed by token hash and evicts
// the oldest sessions beyond the cap.
func (s *ActivityService) RegisterSession(userID uint, token, platform string) (*models.ActiveSession, error) {
	hash := utils.HashToken(token)
	now := time.Now().UTC()

	existing, err := s.sessions.First("user_id = ? AND token_hash = ?", userID, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.LastSeenAt = now
		existing.Platform = platform
		_, err = s.sessions.Put(existing)
		return existing, err
	}

	sess := &models.ActiveSession{
		UserID:     userID,
		TokenHash:  hash,
		Platform:   platform,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if _, err := s.sessions.Put(sess); err != nil {
		return nil, err
	}

	err = s.store.DB().Exec(
		`DELETE FROM active_sessions WHERE user_id = ? AND id NOT IN
		 (SELECT id FROM active_sessions WHERE user_id = ? ORDER BY last_seen_at DESC, id DESC LIMIT ?)`,
		userID, userID, maxActiveSessions,
	).Error
	return sess, err
}

func (s *ActivityService) Sessions(userID uint) ([]models.ActiveSession, error) {
	return s.sessions.Where("user_id = ?", userID)
}

func (s *ActivityService) RemoveSession(userID uint, token string) error {
	return s.store.DB().
		Where("user_id = ? AND token_hash = ?", userID, utils.HashToken(token)).
		Delete(&models.ActiveSession{}).Error
}
