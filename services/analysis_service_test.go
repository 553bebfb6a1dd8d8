package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/ai"
	"vitatrack/store"
)

func newAnalysisFixture(t *testing.T, s *store.Store) (*AnalysisService, *UserService) {
	t.Helper()
	settings := NewSettingsService(s, nil, nil)
	users := NewUserService(s, nil, nil)
	svc := NewAnalysisService(s, ai.NewResolver(nil), settings, users, NewFoodService(), nil)
	return svc, users
}

func TestAnalyzeTextOffline(t *testing.T) {
	s := newTestStore(t)
	svc, _ := newAnalysisFixture(t, s)
	u := newTestUser(t, s, "alice")

	rec, err := svc.AnalyzeText(context.Background(), u.ID, "rice, beans and grilled chicken")
	require.NoError(t, err)
	assert.Equal(t, "text", rec.Source)
	assert.Positive(t, rec.Calories)
	assert.NotEmpty(t, rec.Description)

	history, err := svc.History(u.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestAnalyzeTextRejectsEmpty(t *testing.T) {
	s := newTestStore(t)
	svc, _ := newAnalysisFixture(t, s)
	u := newTestUser(t, s, "alice")

	_, err := svc.AnalyzeText(context.Background(), u.ID, "  ")
	assert.Error(t, err)
}

func TestAnalyzePhotoCountsAgainstDailyLimit(t *testing.T) {
	s := newTestStore(t)
	svc, users := newAnalysisFixture(t, s)
	u := newTestUser(t, s, "alice")

	// 1x1 transparent PNG.
	payload := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

	for i := 0; i < maxPhotosPerDay; i++ {
		rec, err := svc.AnalyzePhoto(context.Background(), u.ID, payload)
		require.NoError(t, err)
		assert.Equal(t, "photo", rec.Source)
	}

	_, err := svc.AnalyzePhoto(context.Background(), u.ID, payload)
	assert.ErrorIs(t, err, ErrLimitReached)

	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, maxPhotosPerDay, got.PhotosAnalyzedToday)
}

func TestAnalyzePhotoRejectsBadPayload(t *testing.T) {
	s := newTestStore(t)
	svc, users := newAnalysisFixture(t, s)
	u := newTestUser(t, s, "alice")

	_, err := svc.AnalyzePhoto(context.Background(), u.ID, "not-a-data-url")
	assert.Error(t, err)

	// A rejected payload must not burn a daily analysis slot.
	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.Zero(t, got.PhotosAnalyzedToday)
}
