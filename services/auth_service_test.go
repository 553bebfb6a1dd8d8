package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/models"
	"vitatrack/store"
)

func newAuthFixture(t *testing.T, s *store.Store) (*AuthService, *ActivityService) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	activity := NewActivityService(s, nil)
	return NewAuthService(s, activity, nil), activity
}

func TestRegisterHashesPassword(t *testing.T) {
	s := newTestStore(t)
	svc, _ := newAuthFixture(t, s)

	user, err := svc.Register("alice", "s3cret-pass", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	svc, _ := newAuthFixture(t, s)

	_, err := svc.Register("alice", "s3cret-pass", "Alice")
	require.NoError(t, err)
	_, err = svc.Register("alice", "other-pass", "Alice Two")
	assert.Error(t, err)
}

func TestLoginSuccessAndSession(t *testing.T) {
	s := newTestStore(t)
	svc, activity := newAuthFixture(t, s)

	registered, err := svc.Register("alice", "s3cret-pass", "Alice")
	require.NoError(t, err)

	token, user, err := svc.Login("alice", "s3cret-pass", "android")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, registered.ID, user.ID)

	sessions, err := activity.Sessions(user.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
	assert.Equal(t, "android", sessions[0].Platform)
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestStore(t)
	svc, _ := newAuthFixture(t, s)

	_, err := svc.Register("alice", "s3cret-pass", "Alice")
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "wrong", "android")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody", "whatever", "android")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginBlockedAccount(t *testing.T) {
	s := newTestStore(t)
	svc, _ := newAuthFixture(t, s)

	user, err := svc.Register("alice", "s3cret-pass", "Alice")
	require.NoError(t, err)

	users := store.NewCollection[models.User](s)
	user.AccessBlocked = true
	user.BlockedReason = "overdue payment"
	_, err = users.Put(user)
	require.NoError(t, err)

	_, _, err = svc.Login("alice", "s3cret-pass", "android")
	assert.ErrorIs(t, err, ErrAccessBlocked)
}
