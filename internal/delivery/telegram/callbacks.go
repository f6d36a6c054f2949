package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	callbackChapterPrefix = "chapter:"
	callbackDeleteYes     = "delete:yes"
	callbackDeleteNo      = "delete:no"
)

func chapterCallback(chapterID int) string {
	return fmt.Sprintf("%s%d", callbackChapterPrefix, chapterID)
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	switch {
	case strings.HasPrefix(cb.Data, callbackChapterPrefix):
		h.handleChapterCallback(ctx, st, chatID, cb.Data)

	case cb.Data == callbackDeleteYes:
		h.withErrorHandling(h.confirmDelete(st, true))(ctx, chatID)

	case cb.Data == callbackDeleteNo:
		h.withErrorHandling(h.confirmDelete(st, false))(ctx, chatID)

	default:
		return
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, "")
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("callback answer error", zap.Error(err))
	}
}

func (h *Handler) handleChapterCallback(ctx context.Context, st *chatState, chatID int64, data string) {
	idStr := strings.TrimPrefix(data, callbackChapterPrefix)
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		h.logger.Warn("invalid chapter callback data", zap.String("data", data))
		return
	}

	h.withErrorHandling(func(ctx context.Context, chatID int64) error {
		return h.openChapter(ctx, st, chatID, id)
	})(ctx, chatID)
}

// confirmDelete finishes the /delete flow once the player picks a button.
func (h *Handler) confirmDelete(st *chatState, confirmed bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !st.sess.Active() {
			h.send(newPlainMessage(chatID, msgNotLoggedIn))
			return nil
		}

		deleted, err := h.auth.DeleteAccount(ctx, st.sess, confirmed)
		if err != nil {
			return err
		}

		if !deleted {
			h.send(newPlainMessage(chatID, msgDeleteCancelled))
			return nil
		}

		st.activeChapter = 0
		h.send(newPlainMessage(chatID, msgDeleteDone))
		return nil
	}
}
