package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

// ChapterService evaluates chapter availability against the static catalog
// and the current player's completed set, and records completions.
type ChapterService struct {
	catalog ChapterCatalog
	users   UserUpdater
	logger  *zap.Logger
}

// NewChapterService creates a ChapterService.
func NewChapterService(catalog ChapterCatalog, users UserUpdater, logger *zap.Logger) *ChapterService {
	return &ChapterService{catalog: catalog, users: users, logger: logger}
}

// All returns the full static catalog in order.
func (s *ChapterService) All() []entities.Chapter {
	return s.catalog.All()
}

// Get returns a single chapter by id.
func (s *ChapterService) Get(id int) (*entities.Chapter, error) {
	ch, ok := s.catalog.ByID(id)
	if !ok {
		return nil, fmt.Errorf("chapter %d: %w", id, entities.ErrNotFound)
	}
	return ch, nil
}

// IsAvailable reports whether the chapter is unlocked for the session's
// player. Without an active session every chapter is unavailable.
func (s *ChapterService) IsAvailable(sess *Session, ch *entities.Chapter) bool {
	if !sess.Active() {
		return false
	}
	if ch.RequiredToUnlock == nil {
		return true
	}
	return sess.user.Progress.HasCompleted(*ch.RequiredToUnlock)
}

// ListWithStatus maps every chapter to its completion and availability for
// the session's player, preserving catalog order. Without an active session
// it returns an empty list, not an error.
func (s *ChapterService) ListWithStatus(sess *Session) []entities.ChapterStatus {
	if !sess.Active() {
		return nil
	}

	chapters := s.catalog.All()
	statuses := make([]entities.ChapterStatus, 0, len(chapters))
	for i := range chapters {
		ch := chapters[i]
		statuses = append(statuses, entities.ChapterStatus{
			Chapter:     ch,
			IsCompleted: sess.user.Progress.HasCompleted(ch.ID),
			IsAvailable: s.IsAvailable(sess, &ch),
		})
	}

	return statuses
}

// MarkComplete records the chapter in the player's completed set and persists
// through the identity update path. Completing an already completed chapter
// is a no-op success.
func (s *ChapterService) MarkComplete(ctx context.Context, sess *Session, chapterID int) error {
	if !sess.Active() {
		return entities.ErrNoActiveSession
	}
	if _, ok := s.catalog.ByID(chapterID); !ok {
		return fmt.Errorf("chapter %d: %w", chapterID, entities.ErrNotFound)
	}
	if sess.user.Progress.HasCompleted(chapterID) {
		return nil
	}

	progress := sess.user.Progress.Clone()
	progress.MarkCompleted(chapterID)

	if err := s.users.Update(ctx, sess, entities.UserUpdate{Progress: progress}); err != nil {
		return fmt.Errorf("persist completion: %w", err)
	}

	s.logger.Info("chapter marked complete",
		zap.String("nickname", sess.user.Nickname),
		zap.Int("chapter_id", chapterID),
		zap.Int("chapters_completed", sess.user.Progress.ChaptersCompleted),
	)

	return nil
}
