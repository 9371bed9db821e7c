package service

import (
	"context"
	"sync"
	"time"

	"prokat/internal/domain"
	"prokat/internal/models"

	"github.com/rs/zerolog"
)

// SessionService хранит состояние мастеров и сериализует события одного пользователя.
type SessionService struct {
	repo   domain.StateRepository
	logger *zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewSessionService(repo domain.StateRepository, logger *zerolog.Logger) *SessionService {
	return &SessionService{
		repo:   repo,
		logger: logger,
		locks:  make(map[int64]*userLock),
	}
}

// Lock blocks until the caller owns userID. The returned func releases it.
func (s *SessionService) Lock(userID int64) func() {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Unlock()

			s.mu.Lock()
			l.refs--
			if l.refs == 0 {
				delete(s.locks, userID)
			}
			s.mu.Unlock()
		})
	}
}

func (s *SessionService) Get(ctx context.Context, userID int64) (*models.Session, error) {
	session, err := s.repo.GetSession(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get session")
		return nil, err
	}
	return session, nil
}

func (s *SessionService) Save(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now()
	if err := s.repo.SetSession(ctx, session); err != nil {
		s.logger.Error().Err(err).Int64("user_id", session.UserID).Msg("failed to save session")
		return err
	}
	return nil
}

func (s *SessionService) Clear(ctx context.Context, userID int64) error {
	if err := s.repo.ClearSession(ctx, userID); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear session")
		return err
	}
	return nil
}

func (s *SessionService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.repo.CheckRateLimit(ctx, userID, limit, window)
}
