package entities

import "errors"

// Error kinds shared across the game core. Operations wrap these with
// fmt.Errorf("...: %w", ...) so callers can branch with errors.Is.
var (
	ErrValidation      = errors.New("invalid input")
	ErrIncorrectPIN    = errors.New("incorrect PIN for this nickname")
	ErrNoActiveSession = errors.New("no user is logged in")
	ErrNicknameTaken   = errors.New("nickname already taken")
	ErrNotFound        = errors.New("not found")
)
