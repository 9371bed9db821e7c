package service

import (
	"context"

	"prokat/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram режет бота при ~30 сообщениях в секунду на все чаты.
const (
	outboundRPS   = 30
	outboundBurst = 30
)

// TelegramService обертка над Bot API с общим лимитом исходящих запросов.
type TelegramService struct {
	bot     domain.TelegramSender
	limiter *rate.Limiter
}

func NewTelegramService(bot domain.TelegramSender) *TelegramService {
	return &TelegramService{
		bot:     bot,
		limiter: rate.NewLimiter(rate.Limit(outboundRPS), outboundBurst),
	}
}

func (s *TelegramService) wait() {
	// Background: ожидание ограничено самим лимитером
	_ = s.limiter.Wait(context.Background())
}

func (s *TelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.wait()
	return s.bot.Send(c)
}

func (s *TelegramService) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.wait()
	return s.bot.Request(c)
}

func (s *TelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	return s.Send(tgbotapi.NewMessage(chatID, text))
}

func (s *TelegramService) SendWithKeyboard(chatID int64, text string, keyboard tgbotapi.ReplyKeyboardMarkup) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.Send(msg)
}

func (s *TelegramService) SendWithInlineKeyboard(
	chatID int64,
	text string,
	keyboard tgbotapi.InlineKeyboardMarkup,
) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	return s.Send(msg)
}

// SendRemoveKeyboard убирает reply-клавиатуру, например на шаге ввода телефона.
func (s *TelegramService) SendRemoveKeyboard(chatID int64, text string) (tgbotapi.Message, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	return s.Send(msg)
}

func (s *TelegramService) SendDocument(chatID int64, path, caption string) (tgbotapi.Message, error) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	return s.Send(doc)
}

func (s *TelegramService) AnswerCallback(callbackID, text string) error {
	_, err := s.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

func (s *TelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return s.bot.GetUpdatesChan(config)
}

func (s *TelegramService) GetSelf() tgbotapi.User {
	return s.bot.GetSelf()
}

func (s *TelegramService) StopReceivingUpdates() {
	s.bot.StopReceivingUpdates()
}
