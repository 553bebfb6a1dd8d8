package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/models"
	"vitatrack/store"
)

func newGymServer(t *testing.T, status remoteBlockStatus) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/students/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(status)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newSyncFixture(t *testing.T, s *store.Store) (*SyncService, *SettingsService, *ActivityService) {
	t.Helper()
	settings := NewSettingsService(s, nil, nil)
	activity := NewActivityService(s, nil)
	alerts := NewAlertBus(activity, nil, nil)
	return NewSyncService(s, settings, alerts, nil), settings, activity
}

func TestSyncNotConfigured(t *testing.T) {
	s := newTestStore(t)
	svc, _, _ := newSyncFixture(t, s)
	newTestUser(t, s, "alice")

	outcome, err := svc.SyncStudent(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, SyncNotConfigured, outcome)
}

func TestSyncUnreachableKeepsLocalState(t *testing.T) {
	s := newTestStore(t)
	svc, settings, _ := newSyncFixture(t, s)
	u := newTestUser(t, s, "alice")
	require.NoError(t, settings.Set(SettingGymServerURL, "http://127.0.0.1:1"))

	outcome, err := svc.SyncStudent(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, SyncUnreachable, outcome)

	users := store.NewCollection[models.User](s)
	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.AccessBlocked)
	assert.Nil(t, got.LastGymSyncAt)
}

func TestSyncAppliesBlockAndPreservesPoints(t *testing.T) {
	s := newTestStore(t)
	svc, settings, activity := newSyncFixture(t, s)
	u := newTestUser(t, s, "alice")

	users := store.NewCollection[models.User](s)
	u.Points = 250
	_, err := users.Put(u)
	require.NoError(t, err)

	srv := newGymServer(t, remoteBlockStatus{
		AccessBlocked: true,
		BlockedReason: "overdue payment",
		BlockedBy:     "front desk",
		BlockedAt:     "2026-08-30T10:00:00Z",
	})
	require.NoError(t, settings.Set(SettingGymServerURL, srv.URL))

	outcome, err := svc.SyncStudent(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, SyncUpdated, outcome)

	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.AccessBlocked)
	assert.Equal(t, "overdue payment", got.BlockedReason)
	require.NotNil(t, got.BlockedAt)
	require.NotNil(t, got.LastGymSyncAt)
	// Only access-control fields come from remote.
	assert.Equal(t, 250, got.Points)

	// The flip raised an alert in the audit trail.
	entries, err := activity.List(u.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "alert.access_blocked", entries[0].Action)
}

func TestSyncFailedForUnknownLocalUser(t *testing.T) {
	s := newTestStore(t)
	svc, settings, _ := newSyncFixture(t, s)

	// Server reachable, but no local account matches.
	srv := newGymServer(t, remoteBlockStatus{AccessBlocked: false})
	require.NoError(t, settings.Set(SettingGymServerURL, srv.URL))

	outcome, err := svc.SyncStudent(context.Background(), "nobody")
	require.Error(t, err)
	assert.Equal(t, SyncFailed, outcome)
}

func TestSyncNoChangeOnSecondRun(t *testing.T) {
	s := newTestStore(t)
	svc, settings, _ := newSyncFixture(t, s)
	newTestUser(t, s, "alice")

	srv := newGymServer(t, remoteBlockStatus{AccessBlocked: false})
	require.NoError(t, settings.Set(SettingGymServerURL, srv.URL))

	// First run applies (stamps LastGymSyncAt) even when nothing differs.
	outcome, err := svc.SyncStudent(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, SyncUpdated, outcome)

	outcome, err = svc.SyncStudent(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, SyncNoChange, outcome)
}

func TestSyncUnblockRaisesRestoredAlert(t *testing.T) {
	s := newTestStore(t)
	svc, settings, activity := newSyncFixture(t, s)
	u := newTestUser(t, s, "alice")

	users := store.NewCollection[models.User](s)
	u.AccessBlocked = true
	u.BlockedReason = "overdue payment"
	_, err := users.Put(u)
	require.NoError(t, err)

	srv := newGymServer(t, remoteBlockStatus{AccessBlocked: false})
	require.NoError(t, settings.Set(SettingGymServerURL, srv.URL))

	outcome, err := svc.SyncStudent(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, SyncUpdated, outcome)

	got, err := users.GetByID(u.ID)
	require.NoError(t, err)
	assert.False(t, got.AccessBlocked)
	assert.Empty(t, got.BlockedReason)

	entries, err := activity.List(u.ID, 10)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "alert.access_restored", entries[0].Action)
}

func TestTestConnectionVerbatimError(t *testing.T) {
	s := newTestStore(t)
	svc, settings, _ := newSyncFixture(t, s)

	err := svc.TestConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no gym server configured")

	require.NoError(t, settings.Set(SettingGymServerURL, "http://127.0.0.1:1"))
	err = svc.TestConnection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gym server unreachable")
}
