package bot

import (
	"context"

	"prokat/internal/flow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	l := zerolog.Ctx(ctx)
	l.Debug().
		Int64("user_id", msg.From.ID).
		Str("username", msg.From.UserName).
		Str("text", msg.Text).
		Msg("Handling message")

	if b.metrics != nil {
		b.metrics.UpdatesTotal.WithLabelValues("message").Inc()
	}

	text := msg.Text
	if msg.IsCommand() {
		// "/start@prokat_bot" -> "/start"
		text = "/" + msg.Command()
	}

	replies := b.engine.HandleMessage(ctx, flow.Inbound{
		UserID:    msg.From.ID,
		ChatID:    msg.Chat.ID,
		FirstName: msg.From.FirstName,
		Text:      text,
	})
	b.deliver(ctx, msg.Chat.ID, replies)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	l := zerolog.Ctx(ctx)
	l.Debug().
		Int64("user_id", callback.From.ID).
		Str("data", callback.Data).
		Msg("Handling callback")

	if b.metrics != nil {
		b.metrics.UpdatesTotal.WithLabelValues("callback").Inc()
	}

	// Отвечаем на callback сразу, чтобы убрать "часики"
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		l.Warn().Err(err).Msg("Failed to answer callback")
	}

	if callback.Message == nil {
		return
	}
	chatID := callback.Message.Chat.ID

	replies := b.engine.HandleCallback(ctx, flow.Inbound{
		UserID:    callback.From.ID,
		ChatID:    chatID,
		FirstName: callback.From.FirstName,
		Data:      callback.Data,
	})
	b.deliver(ctx, chatID, replies)
}

func (b *Bot) deliver(ctx context.Context, chatID int64, replies []flow.Reply) {
	l := zerolog.Ctx(ctx)
	for _, r := range replies {
		if err := b.sendReply(chatID, r); err != nil {
			l.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reply")
			if b.metrics != nil {
				b.metrics.SendErrors.Inc()
			}
			if r.Document != "" {
				b.sendMessage(chatID, b.getErrorMessage(err))
			}
		}
	}
}

func (b *Bot) sendReply(chatID int64, r flow.Reply) error {
	var err error
	switch {
	case r.Document != "":
		_, err = b.tgService.SendDocument(chatID, r.Document, r.Text)
	case len(r.Inline) > 0:
		_, err = b.tgService.SendWithInlineKeyboard(chatID, r.Text, inlineKeyboard(r.Inline))
	case len(r.Keyboard) > 0:
		_, err = b.tgService.SendWithKeyboard(chatID, r.Text, replyKeyboard(r.Keyboard, r.OneTime))
	case r.RemoveKeyboard:
		_, err = b.tgService.SendRemoveKeyboard(chatID, r.Text)
	default:
		_, err = b.tgService.SendMessage(chatID, r.Text)
	}
	return err
}

func (b *Bot) sendMessage(chatID int64, text string) {
	if _, err := b.tgService.SendMessage(chatID, text); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send message")
	}
}
