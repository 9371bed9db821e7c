package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prokat/internal/models"
)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) CreateClient(ctx context.Context, name, phone string) (int64, error) {
	return insertClient(ctx, db, name, phone)
}

func (db *DB) GetClientByPhone(ctx context.Context, phone string) (*models.Client, error) {
	return findClientByPhone(ctx, db, phone)
}

func insertClient(ctx context.Context, q execer, name, phone string) (int64, error) {
	result, err := q.ExecContext(ctx, `INSERT INTO clients (name, phone, reg_date) VALUES (?, ?, ?)`,
		name, phone, formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("failed to create client %s: %w", phone, ErrDuplicatePhone)
		}
		return 0, fmt.Errorf("failed to create client: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// findClientByPhone returns nil, nil when nobody has this phone.
func findClientByPhone(ctx context.Context, q execer, phone string) (*models.Client, error) {
	var (
		c       models.Client
		regDate string
	)
	err := q.QueryRowContext(ctx, `SELECT id, name, phone, reg_date FROM clients WHERE phone = ?`, phone).
		Scan(&c.ID, &c.Name, &c.Phone, &regDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find client: %w", err)
	}
	if c.RegDate, err = parseTime(regDate); err != nil {
		return nil, err
	}
	return &c, nil
}
