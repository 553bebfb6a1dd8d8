package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitatrack/ai"
	"vitatrack/store"
)

func newChatFixture(t *testing.T, s *store.Store) *ChatService {
	t.Helper()
	settings := NewSettingsService(s, nil, nil)
	users := NewUserService(s, nil, nil)
	return NewChatService(s, ai.NewResolver(nil), settings, users, nil)
}

func TestChatSendStoresBothTurns(t *testing.T) {
	s := newTestStore(t)
	svc := newChatFixture(t, s)
	u := newTestUser(t, s, "alice")

	reply, err := svc.Send(context.Background(), u.ID, "what should I eat for lunch?")
	require.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, "offline", reply.Source)
	assert.NotEmpty(t, reply.Content)

	msgs, err := svc.History(u.ID, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "user", msgs[0].Role)
	assert.Equal(t, "assistant", msgs[1].Role)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	s := newTestStore(t)
	svc := newChatFixture(t, s)
	u := newTestUser(t, s, "alice")

	_, err := svc.Send(context.Background(), u.ID, "   ")
	assert.Error(t, err)
}

func TestChatTranscriptCapped(t *testing.T) {
	s := newTestStore(t)
	svc := newChatFixture(t, s)
	u := newTestUser(t, s, "alice")

	// Each send writes two turns.
	for i := 0; i < maxChatMessages/2+5; i++ {
		_, err := svc.Send(context.Background(), u.ID, fmt.Sprintf("question %d", i))
		require.NoError(t, err)
	}

	msgs, err := svc.History(u.ID, 0)
	require.NoError(t, err)
	assert.Len(t, msgs, maxChatMessages)
}

func TestChatClear(t *testing.T) {
	s := newTestStore(t)
	svc := newChatFixture(t, s)
	u := newTestUser(t, s, "alice")

	_, err := svc.Send(context.Background(), u.ID, "hello")
	require.NoError(t, err)
	require.NoError(t, svc.Clear(u.ID))

	msgs, err := svc.History(u.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
