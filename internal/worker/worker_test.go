package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"prokat/internal/events"
	"prokat/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLedger struct {
	mu       sync.Mutex
	failures int // сколько первых вызовов вернут ошибку; -1 всегда
	calls    int
	written  []*models.LedgerRecord
}

func (f *fakeLedger) AppendRental(_ context.Context, record *models.LedgerRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures < 0 || f.calls <= f.failures {
		return errors.New("sheets unavailable")
	}
	f.written = append(f.written, record)
	return nil
}

func (f *fakeLedger) snapshot() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls, len(f.written)
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func fastPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{MaxRetries: maxRetries, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func record(id int64) *models.LedgerRecord {
	return &models.LedgerRecord{RentalID: id, ItemID: 1, ItemLabel: "bike Stels", TotalCost: 450}
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestProcessTaskSuccess(t *testing.T) {
	ledger := &fakeLedger{}
	w := NewLedgerWorker(ledger, nil, RetryPolicy{}, nopLogger())

	ctx := context.Background()
	require.NoError(t, w.Enqueue(ctx, record(1)))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	w.processTask(ctx, &task)

	calls, written := ledger.snapshot()
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, written)
}

func TestEnqueueValidation(t *testing.T) {
	w := NewLedgerWorker(&fakeLedger{}, nil, RetryPolicy{}, nopLogger())
	assert.Error(t, w.Enqueue(context.Background(), nil))
	assert.Error(t, w.Enqueue(context.Background(), &models.LedgerRecord{}))
}

func TestEnqueueQueueFull(t *testing.T) {
	w := NewLedgerWorker(&fakeLedger{}, nil, RetryPolicy{}, nopLogger())
	ctx := context.Background()

	for i := 0; i < models.WorkerQueueSize; i++ {
		require.NoError(t, w.Enqueue(ctx, record(int64(i+1))))
	}
	assert.ErrorIs(t, w.Enqueue(ctx, record(999)), ErrQueueFull)
}

func TestWorkerRetriesUntilSuccess(t *testing.T) {
	ledger := &fakeLedger{failures: 2}
	w := NewLedgerWorker(ledger, nil, fastPolicy(5), nopLogger())
	w.pollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	require.NoError(t, w.Enqueue(ctx, record(7)))

	assert.Eventually(t, func() bool {
		_, written := ledger.snapshot()
		return written == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	<-done

	calls, _ := ledger.snapshot()
	assert.Equal(t, 3, calls)
}

func TestWorkerRedisQueueAndDeadLetter(t *testing.T) {
	mr, client := newRedis(t)
	ledger := &fakeLedger{failures: -1}
	w := NewLedgerWorker(ledger, client, fastPolicy(2), nopLogger())
	w.pollInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Enqueue(ctx, record(9)))
	queued, err := mr.List(redisQueueKey)
	require.NoError(t, err)
	assert.Len(t, queued, 1, "task goes to redis when it is available")

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		dead, err := mr.List(deadLetterKey)
		return err == nil && len(dead) == 1
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	calls, written := ledger.snapshot()
	assert.Equal(t, 2, calls)
	assert.Zero(t, written)

	dead, err := mr.List(deadLetterKey)
	require.NoError(t, err)
	assert.Contains(t, dead[0], `"rental_id":9`)
	assert.Contains(t, dead[0], "sheets unavailable")
}

func TestEnqueueRedisDownFallsBackToMemory(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	w := NewLedgerWorker(&fakeLedger{}, client, RetryPolicy{}, nopLogger())
	require.NoError(t, w.Enqueue(context.Background(), record(3)))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	assert.EqualValues(t, 3, task.Record.RentalID)
}

func TestHandleRentalBooked(t *testing.T) {
	w := NewLedgerWorker(&fakeLedger{}, nil, RetryPolicy{}, nopLogger())
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	event, err := events.NewJSONEvent(events.EventRentalBooked, events.RentalEventPayload{
		RentalID:   5,
		ClientName: "Иван",
		Phone:      "+79990000000",
		ItemID:     2,
		ItemType:   "bike",
		ItemBrand:  "Stels",
		Start:      start,
		End:        start.Add(3 * time.Hour),
		TotalCost:  450,
	})
	require.NoError(t, err)
	require.NoError(t, w.HandleRentalBooked(&event))

	task, ok := w.tryLocalQueue()
	require.True(t, ok)
	assert.Equal(t, "bike Stels", task.Record.ItemLabel)
	assert.Equal(t, "Иван", task.Record.Client)
	assert.EqualValues(t, 2, task.Record.ItemID)
	assert.True(t, task.Record.End.Equal(start.Add(3*time.Hour)))
	assert.Equal(t, 450.0, task.Record.TotalCost)

	bad := events.Event{Type: events.EventRentalBooked, Payload: []byte("{")}
	assert.Error(t, w.HandleRentalBooked(&bad))
}

func TestRetryPolicy(t *testing.T) {
	p := RetryPolicy{InitialDelay: time.Second, MaxDelay: 5 * time.Second, BackoffFactor: 2}

	assert.Equal(t, time.Second, p.NextDelay(0))
	assert.Equal(t, time.Second, p.NextDelay(1))
	assert.Equal(t, 2*time.Second, p.NextDelay(2))
	assert.Equal(t, 4*time.Second, p.NextDelay(3))
	assert.Equal(t, 5*time.Second, p.NextDelay(4))
	assert.Equal(t, 5*time.Second, p.NextDelay(100))

	def := RetryPolicy{}.withDefaults()
	assert.Equal(t, DefaultRetryPolicy(), def)
	assert.False(t, def.Exhausted(4))
	assert.True(t, def.Exhausted(5))
}
