package services

import (
	"strconv"
	"time"

	"go.uber.org/zap"

	"vitatrack/ai"
	"vitatrack/models"
	"vitatrack/store"
)

// Well-known setting keys.
const (
	SettingTheme         = "theme"
	SettingLanguage      = "language"
	SettingAPIMode       = "api_mode"
	SettingGymServerURL  = "gym_server_url"
	SettingPreferLocalAI = "prefer_local_ai"
	SettingRemoteAPIKey  = "remote_api_key"
	SettingRemoteModel   = "remote_model"
	SettingLocalAIURL    = "local_ai_url"
	SettingLocalModel    = "local_model"
	SettingLastCheckin   = "last_checkin_date"
)

// SettingsService stores scalar configuration in the app_settings
// collection. When the primary store is unavailable it degrades to the
// flat-file fallback so configuration reads keep working.
type SettingsService struct {
	settings store.Collection[models.AppSetting]
	fallback *store.FallbackKV
	log      *zap.Logger
}

func NewSettingsService(s *store.Store, fallback *store.FallbackKV, log *zap.Logger) *SettingsService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsService{
		settings: store.NewCollection[models.AppSetting](s),
		fallback: fallback,
		log:      log,
	}
}

// Get returns the stored value, or def when the key is absent. Defaults are
// never persisted on read.
func (s *SettingsService) Get(key, def string) string {
	rec, err := s.settings.First("key = ?", key)
	if err != nil {
		if s.fallback != nil {
			if v, ok := s.fallback.Get(key); ok {
				return v
			}
		}
		return def
	}
	if rec == nil {
		return def
	}
	return rec.Value
}

// Set writes the value with the current timestamp.
func (s *SettingsService) Set(key, value string) error {
	rec, err := s.settings.First("key = ?", key)
	if err != nil {
		// Primary store down; keep the value somewhere rather than lose it.
		if s.fallback != nil {
			s.log.Warn("settings_fallback_write", zap.String("key", key), zap.Error(err))
			return s.fallback.Set(key, value)
		}
		return err
	}
	if rec == nil {
		rec = &models.AppSetting{Key: key}
	}
	rec.Value = value
	rec.UpdatedAt = time.Now().UTC()
	_, err = s.settings.Put(rec)
	return err
}

func (s *SettingsService) GetBool(key string, def bool) bool {
	v := s.Get(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (s *SettingsService) GymServerURL() string {
	return s.Get(SettingGymServerURL, "")
}

// AIOptions maps the stored configuration to a provider chain.
func (s *SettingsService) AIOptions() ai.ChainOptions {
	return ai.ChainOptions{
		PreferLocal:  s.GetBool(SettingPreferLocalAI, false),
		LocalBaseURL: s.Get(SettingLocalAIURL, ""),
		LocalModel:   s.Get(SettingLocalModel, "llama3.2"),
		RemoteAPIKey: s.Get(SettingRemoteAPIKey, ""),
		RemoteModel:  s.Get(SettingRemoteModel, ""),
	}
}
