package bot

import (
	"context"
	"os"
	"sync"
	"time"

	"prokat/internal/config"
	"prokat/internal/domain"
	"prokat/internal/flow"
	"prokat/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	updateTimeout = 30 * time.Second
	workerCount   = 8
)

// Conversation turns inbound user events into replies.
type Conversation interface {
	HandleMessage(ctx context.Context, in flow.Inbound) []flow.Reply
	HandleCallback(ctx context.Context, in flow.Inbound) []flow.Reply
}

type Bot struct {
	tgService    domain.TelegramService
	config       *config.Config
	stateService domain.StateManager
	engine       Conversation
	metrics      *Metrics
	logger       *zerolog.Logger
}

func NewBot(
	tgService domain.TelegramService,
	config *config.Config,
	stateService domain.StateManager,
	engine Conversation,
	metrics *Metrics,
	logger *zerolog.Logger,
) (*Bot, error) {
	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Bot{
		tgService:    tgService,
		config:       config,
		stateService: stateService,
		engine:       engine,
		metrics:      metrics,
		logger:       logger,
	}, nil
}

// Start читает обновления до отмены ctx. Обновления одного пользователя
// всегда попадают в один и тот же обработчик, поэтому сохраняют порядок.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.config.Bot.UpdateTimeout

	updates := b.tgService.GetUpdatesChan(u)

	b.logger.Info().Str("username", b.tgService.GetSelf().UserName).Msg("Authorized on account")

	var wg sync.WaitGroup
	queues := make([]chan tgbotapi.Update, workerCount)
	for i := range queues {
		queues[i] = make(chan tgbotapi.Update, models.WorkerQueueSize)
		wg.Add(1)
		go func(q <-chan tgbotapi.Update) {
			defer wg.Done()
			b.worker(ctx, q)
		}(queues[i])
	}
	defer func() {
		for _, q := range queues {
			close(q)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info().Msg("Bot stopping...")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			userID := updateUserID(update)
			if userID == 0 {
				continue
			}
			select {
			case queues[shard(userID)] <- update:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (b *Bot) worker(ctx context.Context, queue <-chan tgbotapi.Update) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-queue:
			if !ok {
				return
			}
			b.processUpdate(ctx, update)
		}
	}
}

func shard(userID int64) int {
	if userID < 0 {
		userID = -userID
	}
	return int(userID % workerCount)
}

func updateUserID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

func updateChatID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.Chat != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil && update.CallbackQuery.Message.Chat != nil:
		return update.CallbackQuery.Message.Chat.ID
	}
	return 0
}

func (b *Bot) processUpdate(ctx context.Context, update tgbotapi.Update) {
	start := time.Now()
	defer func() {
		if b.metrics != nil {
			b.metrics.UpdateProcessingTime.Observe(time.Since(start).Seconds())
		}
	}()

	// Создаем контекст для обработки каждого обновления
	updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
	defer cancel()

	requestID := uuid.New().String()
	l := b.logger.With().Str("request_id", requestID).Logger()
	updateCtx = l.WithContext(updateCtx)

	b.withRecovery(updateChatID(update), func() {
		userID := updateUserID(update)
		if userID == 0 || b.isBlacklisted(userID) {
			return
		}

		if !b.allow(updateCtx, userID) {
			if update.Message != nil {
				b.sendMessage(update.Message.Chat.ID, msgRateLimited)
			}
			return
		}

		if update.CallbackQuery != nil {
			b.handleCallbackQuery(updateCtx, update.CallbackQuery)
			return
		}
		if update.Message != nil {
			b.handleMessage(updateCtx, update.Message)
		}
	})
}

// allow пропускает сообщение, если хранилище лимитов недоступно.
func (b *Bot) allow(ctx context.Context, userID int64) bool {
	allowed, err := b.stateService.CheckRateLimit(
		ctx,
		userID,
		b.config.Bot.RateLimitMessages,
		time.Duration(b.config.Bot.RateLimitWindow)*time.Second,
	)
	if err != nil {
		b.logger.Error().Err(err).Int64("user_id", userID).Msg("Rate limit check failed")
		return true
	}
	if !allowed {
		b.logger.Warn().Int64("user_id", userID).Msg("Rate limit exceeded")
		if b.metrics != nil {
			b.metrics.RateLimited.Inc()
		}
	}
	return allowed
}

func (b *Bot) isBlacklisted(userID int64) bool {
	for _, id := range b.config.Bot.Blacklist {
		if id == userID {
			return true
		}
	}
	return false
}
