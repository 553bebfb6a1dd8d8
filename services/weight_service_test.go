package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightUpsertSameDayOverwrites(t *testing.T) {
	s := newTestStore(t)
	svc := NewWeightService(s, nil)
	u := newTestUser(t, s, "alice")

	now := time.Now()
	_, err := svc.Upsert(u.ID, now, 80)
	require.NoError(t, err)

	entry, err := svc.Upsert(u.ID, now.Add(2*time.Hour), 79.5)
	require.NoError(t, err)
	assert.Equal(t, 79.5, entry.WeightKg)

	entries, err := svc.List(u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 79.5, entries[0].WeightKg)
}

func TestWeightHistorySortedByDay(t *testing.T) {
	s := newTestStore(t)
	svc := NewWeightService(s, nil)
	u := newTestUser(t, s, "alice")

	now := time.Now()
	// Insert out of order.
	_, err := svc.Upsert(u.ID, now, 78)
	require.NoError(t, err)
	_, err = svc.Upsert(u.ID, now.AddDate(0, 0, -5), 80)
	require.NoError(t, err)
	_, err = svc.Upsert(u.ID, now.AddDate(0, 0, -2), 79)
	require.NoError(t, err)

	entries, err := svc.List(u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 80.0, entries[0].WeightKg)
	assert.Equal(t, 79.0, entries[1].WeightKg)
	assert.Equal(t, 78.0, entries[2].WeightKg)

	latest, err := svc.Latest(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 78.0, latest.WeightKg)
}

func TestWeightIsolatedPerUser(t *testing.T) {
	s := newTestStore(t)
	svc := NewWeightService(s, nil)
	alice := newTestUser(t, s, "alice")
	bob := newTestUser(t, s, "bob")

	_, err := svc.Upsert(alice.ID, time.Now(), 70)
	require.NoError(t, err)
	_, err = svc.Upsert(bob.ID, time.Now(), 90)
	require.NoError(t, err)

	entries, err := svc.List(alice.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 70.0, entries[0].WeightKg)
}
