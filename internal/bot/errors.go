package bot

import (
	"context"
	"errors"
)

const (
	msgRateLimited = "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного."
	msgInternal    = "❌ Произошла внутренняя ошибка. Попробуйте еще раз или нажмите /start."
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "⏳ Запрос выполнялся слишком долго. Пожалуйста, попробуйте еще раз."
	}

	// Default error message
	return "❌ Ошибка при отправке файла. Пожалуйста, попробуйте позже."
}
