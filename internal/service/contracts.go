package service

import (
	"context"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

type PlayerRepository interface {
	GetCurrentUser(ctx context.Context, owner string) (*entities.User, bool)
	SetCurrentUser(ctx context.Context, owner string, user *entities.User) error
	ClearCurrentUser(ctx context.Context) error
	AllUsers(ctx context.Context) []*entities.User
	FindUser(ctx context.Context, nickname string) (*entities.User, bool)
	SaveUser(ctx context.Context, user *entities.User) error
	DeleteUser(ctx context.Context, nickname string) error
}

type ChapterCatalog interface {
	All() []entities.Chapter
	ByID(id int) (*entities.Chapter, bool)
}

type ScriptCatalog interface {
	ByChapter(chapterID int) (*entities.Script, bool)
}

// RemoteSync mirrors identity and progress to a cloud store. The mirror is
// never authoritative; only ClaimNickname failures may surface to players.
type RemoteSync interface {
	ClaimNickname(ctx context.Context, nickname string) error
	SavePlayer(ctx context.Context, nickname string, progress *entities.Progress) error
	LoadPlayer(ctx context.Context, nickname string) (*entities.Progress, bool, error)
	DeletePlayer(ctx context.Context, nickname string) error
}

// UserUpdater is the persistence path every progress mutation goes through.
type UserUpdater interface {
	Update(ctx context.Context, sess *Session, upd entities.UserUpdate) error
}
