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

const testOwner = "chat-1"

func newTestAuth(t *testing.T, remote RemoteSync) (*AuthService, *repository.PlayerRepository) {
	t.Helper()

	players := repository.NewPlayerRepository(storage.NewMemoryStore(), zap.NewNop())
	enforce := remote != nil
	return NewAuthService(players, remote, enforce, zap.NewNop()), players
}

func TestLoginOrCreate_CreatesFreshUser(t *testing.T) {
	ctx := context.Background()
	auth, players := newTestAuth(t, nil)
	sess := NewSession(testOwner)

	user, mode, err := auth.LoginOrCreate(ctx, sess, "  alice  ", "")
	require.NoError(t, err)

	assert.Equal(t, ModeCreated, mode)
	assert.Equal(t, "alice", user.Nickname)
	assert.Nil(t, user.PIN)
	assert.Equal(t, 0, user.Progress.ChaptersCompleted)
	assert.Empty(t, user.Progress.CompletedChapters)
	assert.Empty(t, user.Progress.ChapterData)
	assert.False(t, user.JoinedAt.IsZero())
	assert.True(t, sess.Active())

	stored, ok := players.FindUser(ctx, "alice")
	require.True(t, ok)
	assert.Equal(t, "alice", stored.Nickname)

	current, ok := players.GetCurrentUser(ctx, testOwner)
	require.True(t, ok)
	assert.Equal(t, "alice", current.Nickname)
}

func TestLoginOrCreate_Validation(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t, nil)

	tests := []struct {
		name     string
		nickname string
		pin      string
	}{
		{"empty nickname", "", ""},
		{"whitespace nickname", "   ", "1234"},
		{"nickname too long", "abcdefghijklmnopqrstu", ""},
		{"pin too short", "bob", "123"},
		{"pin with letters", "bob", "12ab"},
		{"pin too long", "bob", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := auth.LoginOrCreate(ctx, NewSession(testOwner), tt.nickname, tt.pin)
			assert.ErrorIs(t, err, entities.ErrValidation)
		})
	}
}

func TestLoginOrCreate_LoginIsIdempotent(t *testing.T) {
	ctx := context.Background()
	auth, players := newTestAuth(t, nil)

	_, mode, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "1234")
	require.NoError(t, err)
	require.Equal(t, ModeCreated, mode)

	user, mode, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "1234")
	require.NoError(t, err)

	assert.Equal(t, ModeLogin, mode)
	assert.Equal(t, "alice", user.Nickname)
	assert.Len(t, players.AllUsers(ctx), 1)
}

func TestLoginOrCreate_PINGate(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t, nil)

	_, _, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "1234")
	require.NoError(t, err)

	_, _, err = auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "9999")
	assert.ErrorIs(t, err, entities.ErrIncorrectPIN)

	_, _, err = auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "")
	assert.ErrorIs(t, err, entities.ErrIncorrectPIN)
}

func TestLoginOrCreate_NoPINAcceptsAnything(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t, nil)

	_, _, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "")
	require.NoError(t, err)

	_, mode, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "4321")
	require.NoError(t, err)
	assert.Equal(t, ModeLogin, mode)
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	auth, players := newTestAuth(t, nil)
	sess := NewSession(testOwner)

	// Logout with no active session succeeds trivially.
	require.NoError(t, auth.Logout(ctx, sess))

	_, _, err := auth.LoginOrCreate(ctx, sess, "alice", "")
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, sess))
	assert.False(t, sess.Active())

	// The record survives, only the pointer is gone.
	_, ok := players.GetCurrentUser(ctx, testOwner)
	assert.False(t, ok)
	_, ok = players.FindUser(ctx, "alice")
	assert.True(t, ok)
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	auth, players := newTestAuth(t, nil)
	sess := NewSession(testOwner)

	_, err := auth.DeleteAccount(ctx, sess, true)
	assert.ErrorIs(t, err, entities.ErrNoActiveSession)

	_, _, err = auth.LoginOrCreate(ctx, sess, "alice", "1234")
	require.NoError(t, err)

	// Declining the confirmation cancels without an error.
	deleted, err := auth.DeleteAccount(ctx, sess, false)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.True(t, sess.Active())

	deleted, err = auth.DeleteAccount(ctx, sess, true)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.False(t, sess.Active())

	_, ok := players.FindUser(ctx, "alice")
	assert.False(t, ok)
	_, ok = players.GetCurrentUser(ctx, testOwner)
	assert.False(t, ok)

	// The nickname is free again: the next login takes the created branch.
	_, mode, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, ModeCreated, mode)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	auth, players := newTestAuth(t, nil)
	sess := NewSession(testOwner)

	err := auth.Update(ctx, sess, entities.UserUpdate{})
	assert.ErrorIs(t, err, entities.ErrNoActiveSession)

	_, _, err = auth.LoginOrCreate(ctx, sess, "alice", "")
	require.NoError(t, err)

	avatar := "https://example.com/a.png"
	progress := sess.User().Progress.Clone()
	progress.MarkCompleted(1)

	err = auth.Update(ctx, sess, entities.UserUpdate{Avatar: &avatar, Progress: progress})
	require.NoError(t, err)

	// Both the stored record and the session snapshot carry the update.
	stored, ok := players.FindUser(ctx, "alice")
	require.True(t, ok)
	require.NotNil(t, stored.Avatar)
	assert.Equal(t, avatar, *stored.Avatar)
	assert.Equal(t, 1, stored.Progress.ChaptersCompleted)
	assert.Equal(t, []int{1}, stored.Progress.CompletedChapters)

	current, ok := players.GetCurrentUser(ctx, testOwner)
	require.True(t, ok)
	assert.Equal(t, 1, current.Progress.ChaptersCompleted)
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t, nil)

	assert.False(t, auth.Resume(ctx, testOwner).Active())

	_, _, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "")
	require.NoError(t, err)

	resumed := auth.Resume(ctx, testOwner)
	require.True(t, resumed.Active())
	assert.Equal(t, "alice", resumed.User().Nickname)
}

func TestResume_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	auth, _ := newTestAuth(t, nil)

	_, _, err := auth.LoginOrCreate(ctx, NewSession("chat-a"), "alice", "1234")
	require.NoError(t, err)

	// A different chat must not inherit alice's session: it starts logged
	// out and the PIN gate still applies to an explicit login.
	other := auth.Resume(ctx, "chat-b")
	assert.False(t, other.Active())

	_, _, err = auth.LoginOrCreate(ctx, other, "alice", "")
	assert.ErrorIs(t, err, entities.ErrIncorrectPIN)

	// The owning chat still resumes normally.
	owner := auth.Resume(ctx, "chat-a")
	require.True(t, owner.Active())
	assert.Equal(t, "alice", owner.User().Nickname)
}

type fakeRemote struct {
	claimErr error
}

func (f *fakeRemote) ClaimNickname(context.Context, string) error { return f.claimErr }
func (f *fakeRemote) SavePlayer(context.Context, string, *entities.Progress) error {
	return nil
}
func (f *fakeRemote) LoadPlayer(context.Context, string) (*entities.Progress, bool, error) {
	return nil, false, nil
}
func (f *fakeRemote) DeletePlayer(context.Context, string) error { return nil }

func TestLoginOrCreate_ClaimConflictRollsBack(t *testing.T) {
	ctx := context.Background()
	auth, players := newTestAuth(t, &fakeRemote{claimErr: entities.ErrNicknameTaken})
	sess := NewSession(testOwner)

	_, _, err := auth.LoginOrCreate(ctx, sess, "alice", "")
	assert.ErrorIs(t, err, entities.ErrNicknameTaken)
	assert.False(t, sess.Active())

	// No orphaned local record survives the rejected claim.
	_, ok := players.FindUser(ctx, "alice")
	assert.False(t, ok)
	_, ok = players.GetCurrentUser(ctx, testOwner)
	assert.False(t, ok)
}

func TestLoginOrCreate_ClaimConflictRestoresPriorPointer(t *testing.T) {
	ctx := context.Background()

	remote := &fakeRemote{}
	auth, players := newTestAuth(t, remote)
	sess := NewSession(testOwner)

	_, _, err := auth.LoginOrCreate(ctx, sess, "alice", "")
	require.NoError(t, err)

	// Switching to a new nickname that loses the claim must leave alice's
	// resume pointer exactly as it was.
	remote.claimErr = entities.ErrNicknameTaken
	_, _, err = auth.LoginOrCreate(ctx, sess, "bob", "")
	assert.ErrorIs(t, err, entities.ErrNicknameTaken)

	assert.Equal(t, "alice", sess.User().Nickname)
	current, ok := players.GetCurrentUser(ctx, testOwner)
	require.True(t, ok)
	assert.Equal(t, "alice", current.Nickname)
	_, ok = players.FindUser(ctx, "bob")
	assert.False(t, ok)
}

func TestLoginOrCreate_ClaimSkippedForExistingUser(t *testing.T) {
	ctx := context.Background()

	remote := &fakeRemote{}
	auth, _ := newTestAuth(t, remote)

	_, _, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "")
	require.NoError(t, err)

	// A later claim conflict must not affect plain logins.
	remote.claimErr = entities.ErrNicknameTaken
	_, mode, err := auth.LoginOrCreate(ctx, NewSession(testOwner), "alice", "")
	require.NoError(t, err)
	assert.Equal(t, ModeLogin, mode)
}
