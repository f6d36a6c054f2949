package telegram

import (
	"context"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
	"github.com/aliskhannn/escape-room-bot/internal/service"
)

type AuthService interface {
	Resume(ctx context.Context, owner string) *service.Session
	LoginOrCreate(ctx context.Context, sess *service.Session, nickname, pin string) (*entities.User, service.LoginMode, error)
	Logout(ctx context.Context, sess *service.Session) error
	DeleteAccount(ctx context.Context, sess *service.Session, confirmed bool) (bool, error)
}

type ChapterService interface {
	Get(id int) (*entities.Chapter, error)
	IsAvailable(sess *service.Session, ch *entities.Chapter) bool
	ListWithStatus(sess *service.Session) []entities.ChapterStatus
	MarkComplete(ctx context.Context, sess *service.Session, chapterID int) error
}

type ConversationService interface {
	SessionFor(sess *service.Session, chapterID int) *entities.ChapterSession
	Reset(ctx context.Context, sess *service.Session, chapterID int) error
	AppendMessage(ctx context.Context, sess *service.Session, chapterID int, role, text string) error
}

type ChatbotService interface {
	Intro(chapterID int) string
	Reply(chapterID int, message string) string
	ValidateInput(message string) error
}
