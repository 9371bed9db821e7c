package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"prokat/internal/models"
)

const inventoryColumns = `id, type, brand, size, status, price_per_hour, registration_date`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.InventoryItem, error) {
	var (
		item    models.InventoryItem
		size    sql.NullString
		regDate string
	)
	if err := row.Scan(&item.ID, &item.Type, &item.Brand, &size, &item.Status, &item.PricePerHour, &regDate); err != nil {
		return nil, err
	}
	item.Size = size.String

	t, err := parseTime(regDate)
	if err != nil {
		return nil, err
	}
	item.RegistrationDate = t
	return &item, nil
}

func nullableSize(size string) sql.NullString {
	return sql.NullString{String: size, Valid: size != ""}
}

// CreateItem добавляет позицию со статусом available
func (db *DB) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	now := time.Now().Truncate(time.Second)
	if item.Status == "" {
		item.Status = models.StatusAvailable
	}

	query := `INSERT INTO inventory (type, brand, size, status, price_per_hour, registration_date)
              VALUES (?, ?, ?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		item.Type,
		item.Brand,
		nullableSize(item.Size),
		item.Status,
		item.PricePerHour,
		formatTime(now),
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.RegistrationDate = now
	return nil
}

func (db *DB) GetItem(ctx context.Context, id int64) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = ?`
	item, err := scanItem(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

func (db *DB) GetItemPrice(ctx context.Context, id int64) (float64, error) {
	var price float64
	err := db.QueryRowContext(ctx, `SELECT price_per_hour FROM inventory WHERE id = ?`, id).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrItemNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get item price: %w", err)
	}
	return price, nil
}

// GetAvailableItems возвращает позиции со статусом available
func (db *DB) GetAvailableItems(ctx context.Context) ([]models.InventoryItem, error) {
	return db.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE status = ? ORDER BY id`, models.StatusAvailable)
}

func (db *DB) GetAllItems(ctx context.Context) ([]models.InventoryItem, error) {
	return db.queryItems(ctx, `SELECT `+inventoryColumns+` FROM inventory ORDER BY id`)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...any) ([]models.InventoryItem, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	items := make([]models.InventoryItem, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItemStatus меняет статус позиции. Отсутствующий id не ошибка.
func (db *DB) UpdateItemStatus(ctx context.Context, id int64, status string) error {
	_, err := db.ExecContext(ctx, `UPDATE inventory SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}
	return nil
}

func (db *DB) CountItems(ctx context.Context) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inventory`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// SeedInventory загружает стартовый инвентарь, только если таблица пуста.
func (db *DB) SeedInventory(ctx context.Context, items []models.InventoryItem) (int, error) {
	n, err := db.CountItems(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 || len(items) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := formatTime(time.Now())
	query := `INSERT INTO inventory (type, brand, size, status, price_per_hour, registration_date)
              VALUES (?, ?, ?, ?, ?, ?)`
	for _, item := range items {
		status := item.Status
		if status == "" {
			status = models.StatusAvailable
		}
		size := item.Size
		if size == models.NoSizeSentinel {
			size = ""
		}
		if _, err := tx.ExecContext(ctx, query, item.Type, item.Brand, nullableSize(size), status, item.PricePerHour, now); err != nil {
			return 0, fmt.Errorf("failed to seed item %s %s: %w", item.Type, item.Brand, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}

	db.logger.Info().Int("count", len(items)).Msg("Инвентарь загружен из конфигурации")
	return len(items), nil
}
