package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

// LoginMode discriminates which branch LoginOrCreate took.
type LoginMode string

const (
	ModeLogin   LoginMode = "login"
	ModeCreated LoginMode = "created"
)

const maxNicknameLength = 20

var pinPattern = regexp.MustCompile(`^\d{4}$`)

const mirrorTimeout = 10 * time.Second

// AuthService owns the user record lifecycle: creation, authentication,
// profile updates and deletion. All operations act on an explicit Session
// handle supplied by the caller.
type AuthService struct {
	players       PlayerRepository
	remote        RemoteSync // nil when cloud sync is disabled
	enforceUnique bool
	logger        *zap.Logger
}

// NewAuthService creates an AuthService. remote may be nil; enforceUnique
// only matters when remote is set.
func NewAuthService(players PlayerRepository, remote RemoteSync, enforceUnique bool, logger *zap.Logger) *AuthService {
	return &AuthService{
		players:       players,
		remote:        remote,
		enforceUnique: enforceUnique,
		logger:        logger,
	}
}

// Resume returns a session restored from the stored current-user pointer, or
// a logged-out session. The pointer is only honored for the owner that wrote
// it: any other caller starts logged out and must present credentials.
func (s *AuthService) Resume(ctx context.Context, owner string) *Session {
	user, ok := s.players.GetCurrentUser(ctx, owner)
	if !ok {
		return NewSession(owner)
	}

	s.logger.Info("session resumed", zap.String("nickname", user.Nickname))
	return &Session{owner: owner, user: user}
}

// LoginOrCreate authenticates an existing player or creates a new one.
//
// Both inputs are trimmed. Validation failures wrap entities.ErrValidation;
// a PIN mismatch returns entities.ErrIncorrectPIN without touching the
// record. When the nickname is unknown, a fresh record with zeroed progress
// is created and becomes the active session. With unique-nickname enforcement
// on, the remote claim must succeed before the created record is final: on a
// claim failure the local write is rolled back and entities.ErrNicknameTaken
// (or the claim transport error) is returned.
func (s *AuthService) LoginOrCreate(ctx context.Context, sess *Session, nickname, pin string) (*entities.User, LoginMode, error) {
	nickname = strings.TrimSpace(nickname)
	pin = strings.TrimSpace(pin)

	if nickname == "" {
		return nil, "", fmt.Errorf("%w: nickname is required", entities.ErrValidation)
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLength {
		return nil, "", fmt.Errorf("%w: nickname must be %d characters or less", entities.ErrValidation, maxNicknameLength)
	}
	if pin != "" && !pinPattern.MatchString(pin) {
		return nil, "", fmt.Errorf("%w: PIN must be exactly 4 digits", entities.ErrValidation)
	}

	if existing, ok := s.players.FindUser(ctx, nickname); ok {
		if existing.PIN != nil && *existing.PIN != pin {
			return nil, "", entities.ErrIncorrectPIN
		}

		if err := s.players.SetCurrentUser(ctx, sess.owner, existing); err != nil {
			return nil, "", fmt.Errorf("activate session: %w", err)
		}
		sess.user = existing

		s.logger.Info("user logged in", zap.String("nickname", nickname))
		s.mirror(existing.Nickname, &existing.Progress)

		return existing, ModeLogin, nil
	}

	// Remember the pointer this owner held before the create branch, so a
	// rejected claim can restore it instead of leaving the prior player
	// without a resume pointer.
	prev, _ := s.players.GetCurrentUser(ctx, sess.owner)

	user := entities.NewUser(nickname, pin, time.Now().UTC())
	if err := s.players.SaveUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("save user: %w", err)
	}
	if err := s.players.SetCurrentUser(ctx, sess.owner, user); err != nil {
		return nil, "", fmt.Errorf("activate session: %w", err)
	}

	if s.remote != nil && s.enforceUnique {
		if err := s.remote.ClaimNickname(ctx, nickname); err != nil {
			// Roll back the local write so no orphaned record survives a
			// rejected claim.
			s.rollbackCreate(ctx, sess.owner, nickname, prev)

			if errors.Is(err, entities.ErrNicknameTaken) {
				return nil, "", err
			}
			return nil, "", fmt.Errorf("claim nickname: %w", err)
		}
	}

	sess.user = user
	s.logger.Info("new user created", zap.String("nickname", nickname))
	s.mirror(user.Nickname, &user.Progress)

	return user, ModeCreated, nil
}

// Logout clears the session pointer. The stored record survives. Calling it
// on a logged-out session succeeds trivially.
func (s *AuthService) Logout(ctx context.Context, sess *Session) error {
	if sess.user == nil {
		return nil
	}

	nickname := sess.user.Nickname
	if err := s.players.ClearCurrentUser(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	sess.user = nil

	s.logger.Info("user logged out", zap.String("nickname", nickname))
	return nil
}

// DeleteAccount permanently removes the logged-in player. The confirmation
// decision belongs to the caller: without it the operation returns
// (false, nil), a cancelled result rather than an error. Remote deletion is
// best effort.
func (s *AuthService) DeleteAccount(ctx context.Context, sess *Session, confirmed bool) (bool, error) {
	if sess.user == nil {
		return false, entities.ErrNoActiveSession
	}
	if !confirmed {
		return false, nil
	}

	nickname := sess.user.Nickname
	if err := s.players.DeleteUser(ctx, nickname); err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	if err := s.players.ClearCurrentUser(ctx); err != nil {
		return false, fmt.Errorf("clear session: %w", err)
	}
	sess.user = nil

	if s.remote != nil {
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
			defer cancel()
			if err := s.remote.DeletePlayer(mctx, nickname); err != nil {
				s.logger.Warn("remote delete failed",
					zap.String("nickname", nickname),
					zap.Error(err),
				)
			}
		}()
	}

	s.logger.Info("account deleted", zap.String("nickname", nickname))
	return true, nil
}

// Update merges the typed partial update into the logged-in player and
// persists it as both the stored record and the session snapshot.
func (s *AuthService) Update(ctx context.Context, sess *Session, upd entities.UserUpdate) error {
	if sess.user == nil {
		return entities.ErrNoActiveSession
	}

	upd.Apply(sess.user)

	if err := s.players.SaveUser(ctx, sess.user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	if err := s.players.SetCurrentUser(ctx, sess.owner, sess.user); err != nil {
		return fmt.Errorf("update session snapshot: %w", err)
	}

	return nil
}

// mirror pushes a progress snapshot to the cloud in the background. A local
// write is authoritative the moment it lands; a slow or failed mirror only
// produces a warning.
func (s *AuthService) mirror(nickname string, progress *entities.Progress) {
	if s.remote == nil {
		return
	}

	snapshot := progress.Clone()
	go func() {
		mctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.remote.SavePlayer(mctx, nickname, snapshot); err != nil {
			s.logger.Warn("cloud mirror failed",
				zap.String("nickname", nickname),
				zap.Error(err),
			)
		}
	}()
}

// rollbackCreate undoes the local record creation after a rejected remote
// claim, restoring the pointer the owner held before the attempt. Rollback
// failures are logged only, the claim error takes precedence.
func (s *AuthService) rollbackCreate(ctx context.Context, owner, nickname string, prev *entities.User) {
	if err := s.players.DeleteUser(ctx, nickname); err != nil {
		s.logger.Error("failed to roll back user record",
			zap.String("nickname", nickname),
			zap.Error(err),
		)
	}

	var err error
	if prev != nil {
		err = s.players.SetCurrentUser(ctx, owner, prev)
	} else {
		err = s.players.ClearCurrentUser(ctx)
	}
	if err != nil {
		s.logger.Error("failed to roll back session pointer",
			zap.String("nickname", nickname),
			zap.Error(err),
		)
	}
}
