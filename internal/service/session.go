package service

import "github.com/aliskhannn/escape-room-bot/internal/domain/entities"

// Session is a caller-owned handle to the logged-in player, if any. Services
// receive it explicitly on every call instead of keeping a current-user
// singleton, so the delivery layer can hold one session per chat.
//
// owner identifies who holds the handle (the delivery layer uses the chat ID).
// The stored resume pointer is bound to it, so one chat's login never leaks
// into another chat.
//
// A session is not safe for concurrent use; each one belongs to a single
// conversation loop.
type Session struct {
	owner string
	user  *entities.User
}

// NewSession returns a logged-out session for the given owner.
func NewSession(owner string) *Session {
	return &Session{owner: owner}
}

// Active reports whether a player is logged in on this session.
func (s *Session) Active() bool {
	return s.user != nil
}

// User returns the logged-in player record, or nil.
func (s *Session) User() *entities.User {
	return s.user
}
