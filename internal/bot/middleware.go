package bot

func (b *Bot) withRecovery(chatID int64, handler func()) {
	defer func() {
		if r := recover(); r != nil {
			if b.metrics != nil {
				b.metrics.ErrorsTotal.Inc()
			}
			b.logger.Error().Interface("panic", r).Msg("Recovered from panic in update handler")
			if chatID != 0 {
				b.sendMessage(chatID, msgInternal)
			}
		}
	}()
	handler()
}
