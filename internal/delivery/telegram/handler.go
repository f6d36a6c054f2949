package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/escape-room-bot/internal/telemetry"
)

type Handler struct {
	bot           *tgbotapi.BotAPI
	logger        *zap.Logger
	reporter      telemetry.Reporter
	auth          AuthService
	chapters      ChapterService
	conversations ConversationService
	chatbot       ChatbotService
	chats         *chatRegistry
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	reporter telemetry.Reporter,
	auth AuthService,
	chapters ChapterService,
	conversations ConversationService,
	chatbot ChatbotService,
) *Handler {
	return &Handler{
		bot:           bot,
		logger:        logger,
		reporter:      reporter,
		auth:          auth,
		chapters:      chapters,
		conversations: conversations,
		chatbot:       chatbot,
		chats:         newChatRegistry(),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	chatID := update.Message.Chat.ID
	st := h.stateFor(ctx, chatID)

	h.logger.Debug("update received",
		zap.Int64("chat_id", chatID),
		zap.String("text", update.Message.Text),
	)

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start":
			h.handleStart(st)(ctx, chatID)

		case "help":
			h.send(newPlainMessage(chatID, msgHelp))

		case "login":
			h.withErrorHandling(h.handleLogin(st, update.Message.CommandArguments()))(ctx, chatID)

		case "logout":
			h.withErrorHandling(h.handleLogout(st))(ctx, chatID)

		case "chapters":
			h.withErrorHandling(h.handleChapters(st))(ctx, chatID)

		case "play":
			h.withErrorHandling(h.handlePlay(st, update.Message.CommandArguments()))(ctx, chatID)

		case "complete":
			h.withErrorHandling(h.handleComplete(st))(ctx, chatID)

		case "reset":
			h.withErrorHandling(h.handleReset(st, update.Message.CommandArguments()))(ctx, chatID)

		case "profile":
			h.withErrorHandling(h.handleProfile(st))(ctx, chatID)

		case "delete":
			h.withErrorHandling(h.handleDelete(st))(ctx, chatID)

		default:
			h.send(newPlainMessage(chatID, msgUnknownCommand))
		}

		return
	}

	h.withErrorHandling(h.handleChat(st, update.Message.Text))(ctx, chatID)
}

// stateFor returns the chat's presentation state, resuming the stored game
// session on first contact after a restart. The resume is scoped to this
// chat; other chats start logged out.
func (h *Handler) stateFor(ctx context.Context, chatID int64) *chatState {
	if st, ok := h.chats.get(chatID); ok {
		return st
	}

	st := &chatState{sess: h.auth.Resume(ctx, strconv.FormatInt(chatID, 10))}
	h.chats.set(chatID, st)
	return st
}

func (h *Handler) handleStart(st *chatState) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if st.sess.Active() {
			h.send(newPlainMessage(chatID, formatLoggedIn(st.sess.User(), "login")))
			return nil
		}
		h.send(newPlainMessage(chatID, msgWelcome))
		return nil
	}
}

func (h *Handler) sendError(chatID int64, err string) {
	h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// splitArgs splits command arguments on whitespace, dropping empty parts.
func splitArgs(args string) []string {
	return strings.Fields(args)
}
