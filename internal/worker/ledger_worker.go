package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"prokat/internal/domain"
	"prokat/internal/events"
	"prokat/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	redisQueueKey = "ledger:queue"
	deadLetterKey = "ledger:deadletter"
)

var ErrQueueFull = errors.New("ledger queue is full")

// ledgerTask единица работы воркера.
type ledgerTask struct {
	Record    *models.LedgerRecord `json:"record"`
	Attempt   int                  `json:"attempt"`
	LastError string               `json:"last_error,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// LedgerWorker переносит оформленные аренды во внешний журнал с ретраями.
// Очередь живет в Redis, если он доступен, иначе в памяти процесса.
type LedgerWorker struct {
	ledger       domain.LedgerWriter
	redis        *redis.Client
	retryPolicy  RetryPolicy
	queue        chan ledgerTask
	pollInterval time.Duration
	logger       *zerolog.Logger

	// ретраи, ожидающие своего времени
	pending sync.WaitGroup
}

func NewLedgerWorker(ledger domain.LedgerWriter, redisClient *redis.Client, retry RetryPolicy, logger *zerolog.Logger) *LedgerWorker {
	l := logger.With().Str("component", "ledger_worker").Logger()
	return &LedgerWorker{
		ledger:       ledger,
		redis:        redisClient,
		retryPolicy:  retry.withDefaults(),
		queue:        make(chan ledgerTask, models.WorkerQueueSize),
		pollInterval: 2 * time.Second,
		logger:       &l,
	}
}

// Enqueue ставит запись в очередь. Redis первым, память как запасной вариант.
func (w *LedgerWorker) Enqueue(ctx context.Context, record *models.LedgerRecord) error {
	if record == nil || record.RentalID == 0 {
		return errors.New("rental id is required")
	}
	return w.push(ctx, ledgerTask{Record: record, CreatedAt: time.Now()})
}

func (w *LedgerWorker) push(ctx context.Context, task ledgerTask) error {
	if w.redis != nil {
		if err := w.pushRedis(ctx, redisQueueKey, task); err != nil {
			w.logger.Warn().Err(err).Int64("rental_id", task.Record.RentalID).
				Msg("Redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
		return nil
	default:
		w.logger.Error().Int64("rental_id", task.Record.RentalID).Msg("In-memory ledger queue is full")
		return ErrQueueFull
	}
}

// HandleRentalBooked подписчик на events.EventRentalBooked.
func (w *LedgerWorker) HandleRentalBooked(event *events.Event) error {
	var payload events.RentalEventPayload
	if err := event.Decode(&payload); err != nil {
		return fmt.Errorf("decode rental event: %w", err)
	}

	record := &models.LedgerRecord{
		RentalID:  payload.RentalID,
		ItemID:    payload.ItemID,
		ItemLabel: payload.ItemType + " " + payload.ItemBrand,
		Client:    payload.ClientName,
		Phone:     payload.Phone,
		Start:     payload.Start,
		End:       payload.End,
		TotalCost: payload.TotalCost,
	}
	return w.Enqueue(context.Background(), record)
}

// Start крутит основной цикл до отмены ctx.
func (w *LedgerWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Ledger worker started")
	defer func() {
		w.pending.Wait()
		w.logger.Info().Msg("Ledger worker stopped")
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case t := <-w.queue:
			w.processTask(ctx, &t)
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *LedgerWorker) tryLocalQueue() (ledgerTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return ledgerTask{}, false
	}
}

func (w *LedgerWorker) tryRedis(ctx context.Context) (ledgerTask, bool) {
	if w.redis == nil {
		return ledgerTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, redisQueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("Redis BRPOP failed")
		}
		return ledgerTask{}, false
	}
	if len(res) != 2 {
		return ledgerTask{}, false
	}

	var task ledgerTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil || task.Record == nil {
		w.logger.Error().Err(err).Str("raw", res[1]).Msg("Dropping undecodable ledger task")
		return ledgerTask{}, false
	}
	return task, true
}

func (w *LedgerWorker) processTask(ctx context.Context, task *ledgerTask) {
	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := w.ledger.AppendRental(callCtx, task.Record); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	w.logger.Debug().Int64("rental_id", task.Record.RentalID).Int("attempt", task.Attempt+1).
		Msg("Rental written to ledger")
}

func (w *LedgerWorker) retryOrFail(ctx context.Context, task *ledgerTask, cause error) {
	task.Attempt++
	task.LastError = cause.Error()

	if w.retryPolicy.Exhausted(task.Attempt) {
		w.logger.Error().Err(cause).Int64("rental_id", task.Record.RentalID).Int("attempts", task.Attempt).
			Msg("Ledger write failed, giving up")
		w.pushDeadLetter(ctx, task)
		return
	}

	delay := w.retryPolicy.NextDelay(task.Attempt)
	w.logger.Warn().Err(cause).Int64("rental_id", task.Record.RentalID).Dur("retry_in", delay).
		Msg("Ledger write failed, will retry")

	retry := *task
	w.pending.Add(1)
	go func() {
		defer w.pending.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			// не успели: сохраняем в dead letter, чтобы запись не потерялась молча
			w.pushDeadLetter(context.Background(), &retry)
		case <-timer.C:
			if err := w.push(ctx, retry); err != nil {
				w.pushDeadLetter(ctx, &retry)
			}
		}
	}()
}

func (w *LedgerWorker) pushRedis(ctx context.Context, key string, task ledgerTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, key, data).Err()
}

func (w *LedgerWorker) pushDeadLetter(ctx context.Context, task *ledgerTask) {
	if w.redis == nil {
		w.logger.Error().Int64("rental_id", task.Record.RentalID).Str("last_error", task.LastError).
			Msg("Ledger task dropped (no dead letter store)")
		return
	}
	if err := w.pushRedis(ctx, deadLetterKey, *task); err != nil {
		w.logger.Error().Err(err).Int64("rental_id", task.Record.RentalID).Msg("Dead letter push failed")
	}
}
