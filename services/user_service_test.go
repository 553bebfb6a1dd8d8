package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/models"
	"vitatrack/store"
)

func TestUpdateProfilePartial(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")

	got, err := svc.UpdateProfile(u.ID, ProfileInput{WeightKg: 72.5})
	require.NoError(t, err)
	assert.Equal(t, 72.5, got.WeightKg)
	// Untouched fields survive.
	assert.Equal(t, 180.0, got.HeightCm)
	assert.Equal(t, models.GoalLoseWeight, got.Goal)
}

func TestUpdateProfileRejectsUnknownGoal(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")

	_, err := svc.UpdateProfile(u.ID, ProfileInput{Goal: "banana"})
	require.Error(t, err)

	got, err := svc.GetByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GoalLoseWeight, got.Goal)
}

func TestPhotoLimitAndDailyRollover(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.ConsumePhotoAnalysis(u))
	}
	err := svc.ConsumePhotoAnalysis(u)
	assert.ErrorIs(t, err, ErrLimitReached)

	// A new day resets the counter.
	u.LastPhotoAnalysisAt = time.Now().AddDate(0, 0, -1)
	require.NoError(t, svc.ConsumePhotoAnalysis(u))
	assert.Equal(t, 1, u.PhotosAnalyzedToday)
}

func TestReportLimitAndWeeklyRollover(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.ConsumeReport(u))
	}
	err := svc.ConsumeReport(u)
	assert.ErrorIs(t, err, ErrLimitReached)

	u.ReportsResetAt = time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, svc.ConsumeReport(u))
	assert.Equal(t, 1, u.ReportsThisWeek)
}

func TestCompleteChallengeIdempotent(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")

	got, err := svc.CompleteChallenge(u.ID, "7-day-streak", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Points)
	assert.Equal(t, 1, got.DisciplineScore)

	// Completing again must not double the reward.
	again, err := svc.CompleteChallenge(u.ID, "7-day-streak", 50)
	require.NoError(t, err)
	assert.Equal(t, 50, again.Points)
	assert.Equal(t, 1, again.DisciplineScore)
}

func TestDeleteAccountPurge(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")

	weights := store.NewCollection[models.WeightEntry](s)
	_, err := weights.Put(&models.WeightEntry{UserID: u.ID, Day: time.Now(), WeightKg: 75})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(u.ID, true))

	gone, err := svc.GetByID(u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	left, err := weights.Where("user_id = ?", u.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestDeleteAccountAnonymize(t *testing.T) {
	s := newTestStore(t)
	svc := NewUserService(s, nil, nil)
	u := newTestUser(t, s, "alice")
	_, err := svc.AddPoints(u.ID, 120, "test")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(u.ID, false))

	got, err := svc.GetByID(u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Anonymous user", got.Name)
	assert.True(t, got.Anonymized)
	assert.Empty(t, got.PasswordHash)
	// Gameplay history survives anonymization.
	assert.Equal(t, 120, got.Points)
}
