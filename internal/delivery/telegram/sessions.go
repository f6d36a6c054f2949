package telegram

import (
	"sync"

	"github.com/aliskhannn/escape-room-bot/internal/service"
)

// chatState is the per-chat presentation state: the game session handle plus
// the chapter currently open for conversation (0 when none).
type chatState struct {
	sess          *service.Session
	activeChapter int
}

// chatRegistry tracks chat states by Telegram chat ID.
type chatRegistry struct {
	mu    sync.RWMutex
	chats map[int64]*chatState
}

func newChatRegistry() *chatRegistry {
	return &chatRegistry{
		chats: make(map[int64]*chatState),
	}
}

func (r *chatRegistry) get(chatID int64) (*chatState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st, ok := r.chats[chatID]
	return st, ok
}

func (r *chatRegistry) set(chatID int64, st *chatState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chatID] = st
}
