package services

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vitatrack/models"
	"vitatrack/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newTestUser(t *testing.T, s *store.Store, username string) *models.User {
	t.Helper()
	users := store.NewCollection[models.User](s)
	u := &models.User{
		Username:     username,
		PasswordHash: "x",
		Name:         "Test User",
		Age:          30,
		Gender:       "male",
		WeightKg:     75,
		HeightCm:     180,
		Goal:         models.GoalLoseWeight,
	}
	_, err := users.Put(u)
	require.NoError(t, err)
	return u
}
