package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prokat/internal/models"
)

// RegisterUser создает пользователя. Роль после регистрации не меняется.
func (db *DB) RegisterUser(ctx context.Context, telegramID int64, role string) (*models.User, error) {
	result, err := db.ExecContext(ctx, `INSERT INTO users (telegram_id, role) VALUES (?, ?)`, telegramID, role)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return &models.User{ID: id, TelegramID: telegramID, Role: role}, nil
}

// GetUserRole returns ErrUserNotFound for unregistered telegram ids.
func (db *DB) GetUserRole(ctx context.Context, telegramID int64) (string, error) {
	var role string
	err := db.QueryRowContext(ctx, `SELECT role FROM users WHERE telegram_id = ?`, telegramID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user role: %w", err)
	}
	return role, nil
}
