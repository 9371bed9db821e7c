package repository

import (
	"context"
	"sync/atomic"
	"time"

	"prokat/internal/domain"
	"prokat/internal/models"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverStateRepository uses primary until it errors, then serves from
// fallback and retries primary once per recoveryInterval.
type FailoverStateRepository struct {
	primary   domain.StateRepository
	fallback  domain.StateRepository
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverStateRepository(primary, fallback domain.StateRepository, logger *zerolog.Logger) *FailoverStateRepository {
	return &FailoverStateRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// usePrimary решает, идти ли в основной репозиторий
func (r *FailoverStateRepository) usePrimary() bool {
	if !r.isDown.Load() {
		return true
	}
	return time.Since(time.Unix(0, r.lastCheck.Load())) > recoveryInterval
}

func (r *FailoverStateRepository) markDown(err error) {
	if !r.isDown.Swap(true) {
		r.logger.Error().Err(err).Msg("Primary state repository failed, falling back to memory")
	}
	r.lastCheck.Store(time.Now().UnixNano())
}

func (r *FailoverStateRepository) markUp() {
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary state repository recovered")
	}
}

func (r *FailoverStateRepository) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	if r.usePrimary() {
		session, err := r.primary.GetSession(ctx, userID)
		if err == nil {
			r.markUp()
			return session, nil
		}
		r.markDown(err)
	}
	return r.fallback.GetSession(ctx, userID)
}

func (r *FailoverStateRepository) SetSession(ctx context.Context, session *models.Session) error {
	if r.usePrimary() {
		err := r.primary.SetSession(ctx, session)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown(err)
	}
	return r.fallback.SetSession(ctx, session)
}

func (r *FailoverStateRepository) ClearSession(ctx context.Context, userID int64) error {
	// fallback чистим всегда, там могла остаться сессия с прошлого сбоя
	fallbackErr := r.fallback.ClearSession(ctx, userID)
	if r.usePrimary() {
		err := r.primary.ClearSession(ctx, userID)
		if err == nil {
			r.markUp()
			return fallbackErr
		}
		r.markDown(err)
	}
	return fallbackErr
}

func (r *FailoverStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	if r.usePrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, userID, limit, window)
		if err == nil {
			r.markUp()
			return allowed, nil
		}
		r.markDown(err)
	}
	return r.fallback.CheckRateLimit(ctx, userID, limit, window)
}
