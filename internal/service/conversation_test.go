package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
	"github.com/aliskhannn/escape-room-bot/internal/repository"
	"github.com/aliskhannn/escape-room-bot/internal/storage"
)

func newTestConversation(t *testing.T) (*ConversationService, *Session, *repository.PlayerRepository) {
	t.Helper()

	players := repository.NewPlayerRepository(storage.NewMemoryStore(), zap.NewNop())
	auth := NewAuthService(players, nil, false, zap.NewNop())

	sess := NewSession(testOwner)
	_, _, err := auth.LoginOrCreate(context.Background(), sess, "alice", "")
	require.NoError(t, err)

	return NewConversationService(auth, zap.NewNop()), sess, players
}

func TestConversation_SessionFor(t *testing.T) {
	conv, sess, _ := newTestConversation(t)

	assert.Nil(t, conv.SessionFor(NewSession(testOwner), 1))

	cs := conv.SessionFor(sess, 1)
	require.NotNil(t, cs)
	assert.Equal(t, entities.StateNotStarted, cs.State)
	assert.Empty(t, cs.Messages)

	// Repeated lookups return the same materialized session.
	assert.Same(t, cs, conv.SessionFor(sess, 1))
}

func TestConversation_AppendMessage(t *testing.T) {
	ctx := context.Background()
	conv, sess, players := newTestConversation(t)

	err := conv.AppendMessage(ctx, NewSession(testOwner), 1, entities.RoleUser, "hi")
	assert.ErrorIs(t, err, entities.ErrNoActiveSession)

	require.NoError(t, conv.AppendMessage(ctx, sess, 1, entities.RoleUser, "where is the key?"))
	require.NoError(t, conv.AppendMessage(ctx, sess, 1, entities.RoleBot, "look closer."))

	cs := conv.SessionFor(sess, 1)
	require.NotNil(t, cs)
	assert.Equal(t, entities.StateStarted, cs.State)
	require.Len(t, cs.Messages, 2)
	assert.Equal(t, entities.RoleUser, cs.Messages[0].Role)
	assert.Equal(t, "where is the key?", cs.Messages[0].Text)
	assert.Equal(t, entities.RoleBot, cs.Messages[1].Role)
	assert.False(t, cs.Messages[0].Timestamp.IsZero())

	// The conversation survives in the stored record, not just in memory.
	stored, ok := players.FindUser(ctx, "alice")
	require.True(t, ok)
	require.Contains(t, stored.Progress.ChapterData, 1)
	assert.Len(t, stored.Progress.ChapterData[1].Messages, 2)
}

func TestConversation_Reset(t *testing.T) {
	ctx := context.Background()
	conv, sess, players := newTestConversation(t)

	err := conv.Reset(ctx, NewSession(testOwner), 1)
	assert.ErrorIs(t, err, entities.ErrNoActiveSession)

	require.NoError(t, conv.AppendMessage(ctx, sess, 1, entities.RoleUser, "hello"))
	require.NoError(t, conv.Reset(ctx, sess, 1))

	cs := conv.SessionFor(sess, 1)
	require.NotNil(t, cs)
	assert.Equal(t, entities.StateStarted, cs.State)
	assert.Empty(t, cs.Messages)

	stored, ok := players.FindUser(ctx, "alice")
	require.True(t, ok)
	require.Contains(t, stored.Progress.ChapterData, 1)
	assert.Empty(t, stored.Progress.ChapterData[1].Messages)
}

func TestConversation_ResetDoesNotTouchCompletion(t *testing.T) {
	ctx := context.Background()
	conv, sess, _ := newTestConversation(t)

	progress := sess.User().Progress.Clone()
	progress.MarkCompleted(1)
	sess.User().Progress = *progress

	require.NoError(t, conv.Reset(ctx, sess, 1))

	assert.True(t, sess.User().Progress.HasCompleted(1))
	assert.Equal(t, 1, sess.User().Progress.ChaptersCompleted)
}
