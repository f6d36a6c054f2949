package telegram

import (
	"context"
	"strconv"

	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling logs and reports unexpected handler errors and degrades
// them to a generic apology. Expected game errors never reach this point:
// handlers translate those into player-facing messages themselves.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := fn(ctx, chatID); err != nil {
			h.logger.Error("handle error",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			h.reporter.Report("handler error", map[string]string{
				"chat_id": strconv.FormatInt(chatID, 10),
				"error":   err.Error(),
			})
			h.sendError(chatID, msgInternalError)
			return nil
		}
		return nil
	}
}
