package bot

import (
	"errors"
	"fmt"

	"prokat/internal/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotWrapper adapts *tgbotapi.BotAPI to domain.TelegramSender.
type BotWrapper struct {
	*tgbotapi.BotAPI
}

func (w *BotWrapper) GetSelf() tgbotapi.User {
	return w.Self
}

// Connect авторизуется в Telegram по токену из конфигурации.
func Connect(cfg config.TelegramConfig) (*BotWrapper, error) {
	if cfg.BotToken == "" {
		return nil, errors.New("telegram bot token is empty")
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", err)
	}
	api.Debug = cfg.Debug

	return &BotWrapper{BotAPI: api}, nil
}
