package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/escape-room-bot/internal/domain/entities"
)

func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// buildChapterKeyboard offers one button per available chapter.
func buildChapterKeyboard(statuses []entities.ChapterStatus) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for _, st := range statuses {
		if !st.IsAvailable {
			continue
		}
		label := st.Icon + " " + st.Title
		if st.IsCompleted {
			label = "✅ " + st.Title
		}
		data := chapterCallback(st.ID)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, data),
		))
	}

	if len(rows) == 0 {
		return nil
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildDeleteConfirmKeyboard() *tgbotapi.InlineKeyboardMarkup {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes, delete everything", callbackDeleteYes),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", callbackDeleteNo),
		),
	)
	return &kb
}
