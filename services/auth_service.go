package services

import (
	"errors"

	"go.uber.org/zap"

	"vitatrack/models"
	"vitatrack/store"
	"vitatrack/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccessBlocked      = errors.New("account blocked")
)

type AuthService struct {
	users    store.Collection[models.User]
	activity *ActivityService
	log      *zap.Logger
}

func NewAuthService(s *store.Store, activity *ActivityService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:    store.NewCollection[models.User](s),
		activity: activity,
		log:      log,
	}
}

// Register creates the local account. Passwords are stored as bcrypt
// hashes; the cleartext never touches the database.
func (s *AuthService) Register(username, password, name string) (*models.User, error) {
	existing, err := s.users.First("username = ?", username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("username already taken")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Goal:         models.GoalMaintain,
	}
	if _, err := s.users.Put(user); err != nil {
		return nil, err
	}
	if s.activity != nil {
		_ = s.activity.Record(user.ID, "account.registered", username)
	}
	return user, nil
}

// Login verifies credentials and issues a token, recording the session.
func (s *AuthService) Login(username, password, platform string) (string, *models.User, error) {
	user, err := s.users.First("username = ?", username)
	if err != nil {
		return "", nil, err
	}
	if user == nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}
	if user.AccessBlocked {
		return "", nil, ErrAccessBlocked
	}

	token, err := utils.GenerateJWT(user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}

	if s.activity != nil {
		if _, err := s.activity.RegisterSession(user.ID, token, platform); err != nil {
			s.log.Warn("session_register_failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		_ = s.activity.Record(user.ID, "account.login", platform)
	}
	return token, user, nil
}
