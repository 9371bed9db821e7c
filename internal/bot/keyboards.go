package bot

import (
	"prokat/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func replyKeyboard(rows [][]string, oneTime bool) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			line = append(line, tgbotapi.NewKeyboardButton(label))
		}
		buttons = append(buttons, line)
	}

	markup := tgbotapi.NewReplyKeyboard(buttons...)
	markup.ResizeKeyboard = true
	markup.OneTimeKeyboard = oneTime
	return markup
}

func inlineKeyboard(rows [][]flow.Button) tgbotapi.InlineKeyboardMarkup {
	buttons := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			line = append(line, tgbotapi.NewInlineKeyboardButtonData(btn.Label, btn.Data))
		}
		buttons = append(buttons, line)
	}
	return tgbotapi.NewInlineKeyboardMarkup(buttons...)
}
