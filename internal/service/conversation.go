package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

// ConversationService tracks the per-chapter message log and its coarse
// lifecycle state. Completion is deliberately not its concern: the state tag
// and the completed-chapters set stay independent.
type ConversationService struct {
	users  UserUpdater
	logger *zap.Logger
}

// NewConversationService creates a ConversationService.
func NewConversationService(users UserUpdater, logger *zap.Logger) *ConversationService {
	return &ConversationService{users: users, logger: logger}
}

// SessionFor returns the chapter conversation for the session's player,
// lazily materializing an empty not_started one. Nothing is persisted until
// the first write. Returns nil without an active session.
func (s *ConversationService) SessionFor(sess *Session, chapterID int) *entities.ChapterSession {
	if !sess.Active() {
		return nil
	}
	return sess.user.Progress.EnsureChapterSession(chapterID)
}

// Reset replaces the chapter conversation with a fresh started session,
// discarding prior messages. Destructive: confirmation gating is the
// caller's job.
func (s *ConversationService) Reset(ctx context.Context, sess *Session, chapterID int) error {
	if !sess.Active() {
		return entities.ErrNoActiveSession
	}

	progress := sess.user.Progress.Clone()
	if progress.ChapterData == nil {
		progress.ChapterData = make(map[int]*entities.ChapterSession)
	}
	progress.ChapterData[chapterID] = &entities.ChapterSession{
		State:    entities.StateStarted,
		Messages: []entities.Message{},
	}

	if err := s.users.Update(ctx, sess, entities.UserUpdate{Progress: progress}); err != nil {
		return fmt.Errorf("persist reset: %w", err)
	}

	s.logger.Info("chapter conversation reset",
		zap.String("nickname", sess.user.Nickname),
		zap.Int("chapter_id", chapterID),
	)

	return nil
}

// AppendMessage appends a timestamped message to the chapter conversation,
// lazily initializing it, and persists through the identity update path.
// Message content is not validated here; the input contract lives with the
// presentation layer.
func (s *ConversationService) AppendMessage(ctx context.Context, sess *Session, chapterID int, role, text string) error {
	if !sess.Active() {
		return entities.ErrNoActiveSession
	}

	progress := sess.user.Progress.Clone()
	cs := progress.EnsureChapterSession(chapterID)
	cs.Append(role, text, time.Now().UTC())

	if err := s.users.Update(ctx, sess, entities.UserUpdate{Progress: progress}); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}

	return nil
}
