package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogCapped(t *testing.T) {
	s := newTestStore(t)
	svc := NewActivityService(s, nil)
	u := newTestUser(t, s, "alice")

	for i := 0; i < maxActivityEntries+20; i++ {
		require.NoError(t, svc.Record(u.ID, "test.action", fmt.Sprintf("entry %d", i)))
	}

	entries, err := svc.List(u.ID, maxActivityEntries)
	require.NoError(t, err)
	assert.Len(t, entries, maxActivityEntries)
	// Newest first; the oldest 20 were evicted.
	assert.Equal(t, fmt.Sprintf("entry %d", maxActivityEntries+19), entries[0].Detail)
}

func TestSessionRegistryCappedAndUpserts(t *testing.T) {
	s := newTestStore(t)
	svc := NewActivityService(s, nil)
	u := newTestUser(t, s, "alice")

	for i := 0; i < maxActiveSessions+2; i++ {
		_, err := svc.RegisterSession(u.ID, fmt.Sprintf("token-%d", i), "android")
		require.NoError(t, err)
	}

	sessions, err := svc.Sessions(u.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, maxActiveSessions)

	// Re-registering an existing token updates, it does not duplicate.
	_, err = svc.RegisterSession(u.ID, fmt.Sprintf("token-%d", maxActiveSessions+1), "ios")
	require.NoError(t, err)
	sessions, err = svc.Sessions(u.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, maxActiveSessions)
}

func TestRemoveSession(t *testing.T) {
	s := newTestStore(t)
	svc := NewActivityService(s, nil)
	u := newTestUser(t, s, "alice")

	_, err := svc.RegisterSession(u.ID, "token-a", "web")
	require.NoError(t, err)
	require.NoError(t, svc.RemoveSession(u.ID, "token-a"))

	sessions, err := svc.Sessions(u.ID)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}
