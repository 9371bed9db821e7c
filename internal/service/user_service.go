package service

import (
	"context"
	"errors"

	"prokat/internal/database"
	"prokat/internal/domain"
	"prokat/internal/events"
	"prokat/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	repo     domain.Repository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewUserService(repo domain.Repository, eventBus domain.EventPublisher, logger *zerolog.Logger) *UserService {
	return &UserService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// GetRole returns "" for users who never registered.
func (s *UserService) GetRole(ctx context.Context, telegramID int64) (string, error) {
	role, err := s.repo.GetUserRole(ctx, telegramID)
	if errors.Is(err, database.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return role, nil
}

// RegisterRole регистрирует пользователя один раз, повторная попытка возвращает ErrAlreadyRegistered.
func (s *UserService) RegisterRole(ctx context.Context, telegramID int64, role string) error {
	if role != models.RoleSeller && role != models.RoleBuyer {
		return ErrInvalidRole
	}

	if _, err := s.repo.RegisterUser(ctx, telegramID, role); err != nil {
		return err
	}

	s.logger.Info().Int64("telegram_id", telegramID).Str("role", role).Msg("User registered")

	if s.eventBus != nil {
		payload := events.UserEventPayload{TelegramID: telegramID, Role: role}
		if err := s.eventBus.PublishJSON(events.EventUserRegistered, payload); err != nil {
			s.logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("publish user_registered")
		}
	}
	return nil
}
