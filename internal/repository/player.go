package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
	"github.com/aliskhannn/escape-room-bot/internal/storage"
)

// PlayerRepository persists user records in the key-value store under two
// logical keys: the current-session pointer and the all-users table.
//
// The pointer record carries the owner that wrote it, and reads hand it out
// only to that owner. The store is shared across every chat, so an unscoped
// pointer would let any chat resume a PIN-protected account.
//
// Reads never propagate storage failures: an unavailable or corrupt store
// degrades to "no data" with a warning, trading a false fresh-user state for
// availability. Writes do return errors.
type PlayerRepository struct {
	store  storage.Store
	logger *zap.Logger
}

// currentUserRecord is the stored shape of the session pointer.
type currentUserRecord struct {
	Owner string         `json:"owner"`
	User  *entities.User `json:"user"`
}

// NewPlayerRepository creates a PlayerRepository on the given store.
func NewPlayerRepository(store storage.Store, logger *zap.Logger) *PlayerRepository {
	return &PlayerRepository{store: store, logger: logger}
}

// GetCurrentUser returns the user referenced by the session pointer, if it
// exists and belongs to the given owner.
func (r *PlayerRepository) GetCurrentUser(ctx context.Context, owner string) (*entities.User, bool) {
	raw, ok, err := r.store.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		r.logger.Warn("failed to read current user, treating as absent", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var record currentUserRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		r.logger.Warn("current user record is corrupt, treating as absent", zap.Error(err))
		return nil, false
	}
	if record.User == nil || record.Owner != owner {
		return nil, false
	}

	return record.User, true
}

// SetCurrentUser stores the session pointer snapshot bound to its owner.
func (r *PlayerRepository) SetCurrentUser(ctx context.Context, owner string, user *entities.User) error {
	raw, err := json.Marshal(currentUserRecord{Owner: owner, User: user})
	if err != nil {
		return fmt.Errorf("marshal current user: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyCurrentUser, raw); err != nil {
		return fmt.Errorf("set current user: %w", err)
	}

	return nil
}

// ClearCurrentUser removes the session pointer. The underlying user record is
// untouched.
func (r *PlayerRepository) ClearCurrentUser(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.KeyCurrentUser); err != nil {
		return fmt.Errorf("clear current user: %w", err)
	}

	return nil
}

// AllUsers returns every stored user record.
func (r *PlayerRepository) AllUsers(ctx context.Context) []*entities.User {
	raw, ok, err := r.store.Get(ctx, storage.KeyUsers)
	if err != nil {
		r.logger.Warn("failed to read users table, treating as empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var users []*entities.User
	if err := json.Unmarshal(raw, &users); err != nil {
		r.logger.Warn("users table is corrupt, treating as empty", zap.Error(err))
		return nil
	}

	return users
}

// FindUser looks up a user by nickname (case-sensitive exact match).
func (r *PlayerRepository) FindUser(ctx context.Context, nickname string) (*entities.User, bool) {
	for _, user := range r.AllUsers(ctx) {
		if user.Nickname == nickname {
			return user, true
		}
	}

	return nil, false
}

// SaveUser inserts the user into the all-users table, or replaces the record
// with the same nickname.
func (r *PlayerRepository) SaveUser(ctx context.Context, user *entities.User) error {
	users := r.AllUsers(ctx)

	replaced := false
	for i, u := range users {
		if u.Nickname == user.Nickname {
			users[i] = user
			replaced = true
			break
		}
	}
	if !replaced {
		users = append(users, user)
	}

	return r.writeUsers(ctx, users)
}

// DeleteUser removes the record with the given nickname. Deleting an unknown
// nickname is a no-op.
func (r *PlayerRepository) DeleteUser(ctx context.Context, nickname string) error {
	users := r.AllUsers(ctx)

	kept := users[:0]
	for _, u := range users {
		if u.Nickname != nickname {
			kept = append(kept, u)
		}
	}

	return r.writeUsers(ctx, kept)
}

func (r *PlayerRepository) writeUsers(ctx context.Context, users []*entities.User) error {
	if users == nil {
		users = []*entities.User{}
	}

	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}

	if err := r.store.Set(ctx, storage.KeyUsers, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}

	return nil
}
