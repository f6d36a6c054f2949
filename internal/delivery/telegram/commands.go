package telegram

import (
	"context"
	"errors"
	"strconv"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
	"github.com/aliskhannn/escape-room-bot/internal/service"
)

// handleLogin processes "/login <nickname> [pin]".
func (h *Handler) handleLogin(st *chatState, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		parts := splitArgs(args)
		if len(parts) == 0 || len(parts) > 2 {
			h.send(newPlainMessage(chatID, msgLoginUsage))
			return nil
		}

		nickname := parts[0]
		pin := ""
		if len(parts) == 2 {
			pin = parts[1]
		}

		user, mode, err := h.auth.LoginOrCreate(ctx, st.sess, nickname, pin)
		if err != nil {
			switch {
			case errors.Is(err, entities.ErrIncorrectPIN):
				h.send(newPlainMessage(chatID, msgIncorrectPIN))
				return nil
			case errors.Is(err, entities.ErrNicknameTaken):
				h.send(newPlainMessage(chatID, msgNicknameTaken))
				return nil
			case errors.Is(err, entities.ErrValidation):
				h.send(newPlainMessage(chatID, err.Error()))
				return nil
			}
			return err
		}

		st.activeChapter = 0
		h.send(newPlainMessage(chatID, formatLoggedIn(user, string(mode))))
		return nil
	}
}

func (h *Handler) handleLogout(st *chatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.auth.Logout(ctx, st.sess); err != nil {
			return err
		}

		st.activeChapter = 0
		h.send(newPlainMessage(chatID, msgLoggedOut))
		return nil
	}
}

func (h *Handler) handleChapters(st *chatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		statuses := h.chapters.ListWithStatus(st.sess)
		if len(statuses) == 0 {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}

		msg := newPlainMessage(chatID, formatChapterList(statuses))
		if kb := buildChapterKeyboard(statuses); kb != nil {
			msg.ReplyMarkup = kb
		}
		h.send(msg)
		return nil
	}
}

// handlePlay processes "/play <n>".
func (h *Handler) handlePlay(st *chatState, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		parts := splitArgs(args)
		if len(parts) != 1 {
			h.send(newPlainMessage(chatID, msgChapterUnknown))
			return nil
		}

		id, err := strconv.Atoi(parts[0])
		if err != nil {
			h.send(newPlainMessage(chatID, msgChapterUnknown))
			return nil
		}

		return h.openChapter(ctx, st, chatID, id)
	}
}

// openChapter is shared by /play and the chapter keyboard callback.
func (h *Handler) openChapter(ctx context.Context, st *chatState, chatID int64, chapterID int) error {
	if !st.sess.Active() {
		h.send(newPlainMessage(chatID, msgNotLoggedIn))
		return nil
	}

	ch, err := h.chapters.Get(chapterID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			h.send(newPlainMessage(chatID, msgChapterUnknown))
			return nil
		}
		return err
	}

	if !h.chapters.IsAvailable(st.sess, ch) {
		h.send(newPlainMessage(chatID, msgChapterLocked))
		return nil
	}

	st.activeChapter = ch.ID
	h.send(newPlainMessage(chatID, formatChapterOpened(ch)))

	cs := h.conversations.SessionFor(st.sess, ch.ID)
	if cs != nil && len(cs.Messages) > 0 {
		h.send(newPlainMessage(chatID, formatReplay(cs.Messages)))
		return nil
	}

	intro := h.chatbot.Intro(ch.ID)
	if err := h.conversations.AppendMessage(ctx, st.sess, ch.ID, entities.RoleBot, intro); err != nil {
		return err
	}
	h.send(newPlainMessage(chatID, intro))
	return nil
}

func (h *Handler) handleComplete(st *chatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !st.sess.Active() {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}
		if st.activeChapter == 0 {
			h.send(newPlainMessage(chatID, msgNoChapterOpen))
			return nil
		}

		ch, err := h.chapters.Get(st.activeChapter)
		if err != nil {
			return err
		}

		if err := h.chapters.MarkComplete(ctx, st.sess, ch.ID); err != nil {
			return err
		}

		h.send(newPlainMessage(chatID, formatCompleted(ch)))
		return nil
	}
}

// handleReset processes "/reset [n]", defaulting to the open chapter.
func (h *Handler) handleReset(st *chatState, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !st.sess.Active() {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}

		chapterID := st.activeChapter
		if parts := splitArgs(args); len(parts) == 1 {
			id, err := strconv.Atoi(parts[0])
			if err != nil {
				h.send(newPlainMessage(chatID, msgResetUsage))
				return nil
			}
			chapterID = id
		}
		if chapterID == 0 {
			h.send(newPlainMessage(chatID, msgResetUsage))
			return nil
		}

		if _, err := h.chapters.Get(chapterID); err != nil {
			if errors.Is(err, entities.ErrNotFound) {
				h.send(newPlainMessage(chatID, msgChapterUnknown))
				return nil
			}
			return err
		}

		if err := h.conversations.Reset(ctx, st.sess, chapterID); err != nil {
			return err
		}

		if st.activeChapter == chapterID {
			intro := h.chatbot.Intro(chapterID)
			if err := h.conversations.AppendMessage(ctx, st.sess, chapterID, entities.RoleBot, intro); err != nil {
				return err
			}
			h.send(newPlainMessage(chatID, intro))
			return nil
		}

		h.send(newPlainMessage(chatID, "Chapter conversation reset."))
		return nil
	}
}

func (h *Handler) handleProfile(st *chatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !st.sess.Active() {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}

		h.send(newPlainMessage(chatID, formatProfile(st.sess.User())))
		return nil
	}
}

func (h *Handler) handleDelete(st *chatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !st.sess.Active() {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}

		msg := newPlainMessage(chatID, formatDeleteConfirm(st.sess.User().Nickname))
		msg.ReplyMarkup = buildDeleteConfirmKeyboard()
		h.send(msg)
		return nil
	}
}

// handleChat relays free text to the chapter guide.
func (h *Handler) handleChat(st *chatState, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !st.sess.Active() {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}
		if st.activeChapter == 0 {
			h.send(newPlainMessage(chatID, msgNoChapterOpen))
			return nil
		}

		if err := h.chatbot.ValidateInput(text); err != nil {
			switch {
			case errors.Is(err, service.ErrEmptyMessage):
				h.send(newPlainMessage(chatID, msgEmptyMessage))
			case errors.Is(err, service.ErrMessageTooLong):
				h.send(newPlainMessage(chatID, msgMessageTooLong))
			default:
				h.send(newPlainMessage(chatID, err.Error()))
			}
			return nil
		}

		if err := h.conversations.AppendMessage(ctx, st.sess, st.activeChapter, entities.RoleUser, text); err != nil {
			return err
		}

		reply := h.chatbot.Reply(st.activeChapter, text)
		if err := h.conversations.AppendMessage(ctx, st.sess, st.activeChapter, entities.RoleBot, reply); err != nil {
			return err
		}

		h.send(newPlainMessage(chatID, reply))
		return nil
	}
}
