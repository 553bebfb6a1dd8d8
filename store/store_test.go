package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/models"
)

func testPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test.db")
}

func TestOpenAndCRUD(t *testing.T) {
	s, err := Open(Config{Path: testPath(t)})
	require.NoError(t, err)
	defer s.Close()

	users := NewCollection[models.User](s)

	u := &models.User{Username: "alice", PasswordHash: "h", Name: "Alice"}
	id, err := users.Put(u)
	require.NoError(t, err)
	assert.NotZero(t, id)

	got, err := users.GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)

	got.Name = "Alice B"
	_, err = users.Put(got)
	require.NoError(t, err)

	again, err := users.GetByID(id)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", again.Name)

	require.NoError(t, users.Remove(id))
	missing, err := users.GetByID(id)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestGetMissingReturnsNil(t *testing.T) {
	s, err := Open(Config{Path: testPath(t)})
	require.NoError(t, err)
	defer s.Close()

	users := NewCollection[models.User](s)
	got, err := users.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, got)

	byName, err := users.First("username = ?", "nobody")
	require.NoError(t, err)
	assert.Nil(t, byName)
}

func TestNotReadyGuard(t *testing.T) {
	var users Collection[models.User]
	_, err := users.Put(&models.User{Username: "x"})
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = users.GetByID(1)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestAdditiveMigration(t *testing.T) {
	path := testPath(t)

	// Open at schema v1 only and write a record.
	s, err := open(Config{Path: path}, migrations[:1])
	require.NoError(t, err)
	users := NewCollection[models.User](s)
	_, err = users.Put(&models.User{Username: "bob", PasswordHash: "h"})
	require.NoError(t, err)

	// Collections from later versions are unknown at v1.
	chats := NewCollection[models.ChatMessage](s)
	_, err = chats.Put(&models.ChatMessage{UserID: 1, Role: "user", Content: "hi"})
	assert.ErrorIs(t, err, ErrSchema)
	require.NoError(t, s.Close())

	// Reopen with the full migration set: new tables appear, old data stays.
	s2, err := Open(Config{Path: path})
	require.NoError(t, err)
	defer s2.Close()

	users2 := NewCollection[models.User](s2)
	got, err := users2.First("username = ?", "bob")
	require.NoError(t, err)
	require.NotNil(t, got)

	chats2 := NewCollection[models.ChatMessage](s2)
	_, err = chats2.Put(&models.ChatMessage{UserID: got.ID, Role: "user", Content: "hi"})
	require.NoError(t, err)

	var meta schemaMeta
	require.NoError(t, s2.DB().First(&meta).Error)
	assert.Equal(t, SchemaVersion(), meta.Version)
}

func TestMigrationVersionNeverRegresses(t *testing.T) {
	path := testPath(t)

	s, err := Open(Config{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Opening again with a truncated step list must not rewind the version.
	s2, err := open(Config{Path: path}, migrations[:1])
	require.NoError(t, err)
	defer s2.Close()

	var meta schemaMeta
	require.NoError(t, s2.DB().First(&meta).Error)
	assert.Equal(t, SchemaVersion(), meta.Version)
}

func TestFallbackKV(t *testing.T) {
	kv := NewFallbackKV(filepath.Join(t.TempDir(), "kv.json"))

	_, ok := kv.Get("theme")
	assert.False(t, ok)

	require.NoError(t, kv.Set("theme", "dark"))
	v, ok := kv.Get("theme")
	assert.True(t, ok)
	assert.Equal(t, "dark", v)

	require.NoError(t, kv.Set("theme", "light"))
	v, _ = kv.Get("theme")
	assert.Equal(t, "light", v)
}
