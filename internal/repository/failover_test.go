package repository

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"prokat/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetSession(ctx context.Context, userID int64) (*models.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *mockRepo) SetSession(ctx context.Context, session *models.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockRepo) ClearSession(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *mockRepo) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, userID, limit, window)
	return args.Bool(0), args.Error(1)
}

func newFailover() (*FailoverStateRepository, *mockRepo, *mockRepo) {
	primary := new(mockRepo)
	fallback := new(mockRepo)
	logger := zerolog.New(io.Discard)
	return NewFailoverStateRepository(primary, fallback, &logger), primary, fallback
}

func markDownAt(repo *FailoverStateRepository, at time.Time) {
	repo.isDown.Store(true)
	repo.lastCheck.Store(at.UnixNano())
}

func TestFailoverStateRepository_GetSession(t *testing.T) {
	ctx := context.Background()

	t.Run("PrimarySuccess", func(t *testing.T) {
		repo, primary, _ := newFailover()
		session := models.NewRentalSession(1, 10)
		primary.On("GetSession", ctx, int64(1)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		primary.AssertExpectations(t)
	})

	t.Run("PrimaryFailFallbackSuccess", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		session := models.NewInventorySession(2)
		primary.On("GetSession", ctx, int64(2)).Return(nil, errors.New("fail")).Once()
		fallback.On("GetSession", ctx, int64(2)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 2)
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.True(t, repo.isDown.Load())
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("AlreadyDownSkipsPrimary", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		markDownAt(repo, time.Now())
		fallback.On("GetSession", ctx, int64(3)).Return(nil, nil).Once()

		got, err := repo.GetSession(ctx, 3)
		assert.NoError(t, err)
		assert.Nil(t, got)
		primary.AssertNotCalled(t, "GetSession", mock.Anything, mock.Anything)
	})

	t.Run("Recovery", func(t *testing.T) {
		repo, primary, _ := newFailover()
		markDownAt(repo, time.Now().Add(-2*recoveryInterval))

		session := models.NewRoleSelectionSession(4)
		primary.On("GetSession", ctx, int64(4)).Return(session, nil).Once()

		got, err := repo.GetSession(ctx, 4)
		assert.NoError(t, err)
		assert.Equal(t, session, got)
		assert.False(t, repo.isDown.Load())
	})

	t.Run("RecoveryAttemptFail", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		markDownAt(repo, time.Now().Add(-2*recoveryInterval))

		primary.On("GetSession", ctx, int64(5)).Return(nil, errors.New("still fail")).Once()
		fallback.On("GetSession", ctx, int64(5)).Return(nil, nil).Once()

		_, err := repo.GetSession(ctx, 5)
		assert.NoError(t, err)
		assert.True(t, repo.isDown.Load())
		assert.False(t, repo.usePrimary())
	})
}

func TestFailoverStateRepository_Writes(t *testing.T) {
	ctx := context.Background()

	t.Run("SetSessionSuccess", func(t *testing.T) {
		repo, primary, _ := newFailover()
		session := models.NewRentalSession(7, 1)
		primary.On("SetSession", ctx, session).Return(nil).Once()

		assert.NoError(t, repo.SetSession(ctx, session))
		primary.AssertExpectations(t)
	})

	t.Run("SetSessionFailover", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		session := models.NewRentalSession(8, 1)
		primary.On("SetSession", ctx, session).Return(errors.New("fail")).Once()
		fallback.On("SetSession", ctx, session).Return(nil).Once()

		assert.NoError(t, repo.SetSession(ctx, session))
		assert.True(t, repo.isDown.Load())
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionClearsBoth", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		fallback.On("ClearSession", ctx, int64(9)).Return(nil).Once()
		primary.On("ClearSession", ctx, int64(9)).Return(nil).Once()

		assert.NoError(t, repo.ClearSession(ctx, 9))
		primary.AssertExpectations(t)
		fallback.AssertExpectations(t)
	})

	t.Run("ClearSessionFailover", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		fallback.On("ClearSession", ctx, int64(10)).Return(nil).Once()
		primary.On("ClearSession", ctx, int64(10)).Return(errors.New("fail")).Once()

		assert.NoError(t, repo.ClearSession(ctx, 10))
		assert.True(t, repo.isDown.Load())
	})

	t.Run("CheckRateLimitFailover", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		primary.On("CheckRateLimit", ctx, int64(6), 10, time.Minute).Return(false, errors.New("fail")).Once()
		fallback.On("CheckRateLimit", ctx, int64(6), 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, 6, 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		assert.True(t, repo.isDown.Load())
	})

	t.Run("CheckRateLimitAlreadyDown", func(t *testing.T) {
		repo, primary, fallback := newFailover()
		markDownAt(repo, time.Now())
		fallback.On("CheckRateLimit", ctx, int64(66), 10, time.Minute).Return(true, nil).Once()

		allowed, err := repo.CheckRateLimit(ctx, 66, 10, time.Minute)
		assert.NoError(t, err)
		assert.True(t, allowed)
		primary.AssertNotCalled(t, "CheckRateLimit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
