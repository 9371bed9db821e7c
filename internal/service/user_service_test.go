package service

import (
	"context"
	"errors"
	"testing"

	"prokat/internal/database"
	"prokat/internal/events"
	"prokat/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUserService_GetRole(t *testing.T) {
	repo := new(MockRepository)
	logger := zerolog.Nop()
	s := NewUserService(repo, nil, &logger)
	ctx := context.Background()

	repo.On("GetUserRole", mock.Anything, int64(1)).Return(models.RoleSeller, nil)
	repo.On("GetUserRole", mock.Anything, int64(2)).Return("", database.ErrUserNotFound)
	repo.On("GetUserRole", mock.Anything, int64(3)).Return("", errors.New("db down"))

	role, err := s.GetRole(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, models.RoleSeller, role)

	role, err = s.GetRole(ctx, 2)
	assert.NoError(t, err)
	assert.Empty(t, role)

	_, err = s.GetRole(ctx, 3)
	assert.Error(t, err)
}

func TestUserService_RegisterRole(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.Nop()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockRepository)
		pub := &recordingPublisher{}
		s := NewUserService(repo, pub, &logger)
		repo.On("RegisterUser", mock.Anything, int64(10), models.RoleBuyer).
			Return(&models.User{ID: 1, TelegramID: 10, Role: models.RoleBuyer}, nil)

		assert.NoError(t, s.RegisterRole(ctx, 10, models.RoleBuyer))
		assert.Equal(t, []string{events.EventUserRegistered}, pub.events)
	})

	t.Run("InvalidRole", func(t *testing.T) {
		repo := new(MockRepository)
		s := NewUserService(repo, nil, &logger)

		assert.ErrorIs(t, s.RegisterRole(ctx, 10, "admin"), ErrInvalidRole)
		repo.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("AlreadyRegistered", func(t *testing.T) {
		repo := new(MockRepository)
		pub := &recordingPublisher{}
		s := NewUserService(repo, pub, &logger)
		repo.On("RegisterUser", mock.Anything, int64(10), models.RoleSeller).Return(nil, ErrAlreadyRegistered)

		assert.ErrorIs(t, s.RegisterRole(ctx, 10, models.RoleSeller), ErrAlreadyRegistered)
		assert.Empty(t, pub.events)
	})
}
