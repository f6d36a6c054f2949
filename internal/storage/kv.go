package storage

import "context"

// Storage keys for the two logical game records.
const (
	KeyCurrentUser = "escape_game_current_user"
	KeyUsers       = "escape_game_users"
)

// Store is a durable key-value store. Writes must be atomic per key: a reader
// never observes a partially written value.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
