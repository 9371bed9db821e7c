package database

import (
	"context"
	"fmt"
	"time"

	"prokat/internal/models"
)

// CreateRental вставляет запись аренды без изменения статуса позиции.
func (db *DB) CreateRental(ctx context.Context, clientID, itemID int64, start, end time.Time, cost float64) (int64, error) {
	return insertRental(ctx, db, clientID, itemID, start, end, cost)
}

func insertRental(ctx context.Context, q execer, clientID, itemID int64, start, end time.Time, cost float64) (int64, error) {
	query := `INSERT INTO rentals (client_id, inventory_id, start_time, end_time, total_cost)
              VALUES (?, ?, ?, ?, ?)`
	result, err := q.ExecContext(ctx, query, clientID, itemID, formatTime(start), formatTime(end), cost)
	if err != nil {
		return 0, fmt.Errorf("failed to create rental: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert id: %w", err)
	}
	return id, nil
}

// BookRental creates the client and the rental and flips the item to
// rented in one transaction. Nothing is persisted if any step fails.
func (db *DB) BookRental(ctx context.Context, req *models.BookingRequest) (*models.Rental, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var clientID int64
	if req.ReuseClient {
		existing, err := findClientByPhone(ctx, tx, req.Phone)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			clientID = existing.ID
		}
	}
	if clientID == 0 {
		if clientID, err = insertClient(ctx, tx, req.ClientName, req.Phone); err != nil {
			return nil, err
		}
	}

	rentalID, err := insertRental(ctx, tx, clientID, req.ItemID, req.Start, req.End, req.TotalCost)
	if err != nil {
		return nil, err
	}

	// Статус меняется только у свободной позиции
	result, err := tx.ExecContext(ctx,
		`UPDATE inventory SET status = ? WHERE id = ? AND status = ?`,
		models.StatusRented, req.ItemID, models.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to mark item rented: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return nil, ErrItemNotAvailable
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking: %w", err)
	}

	db.logger.Debug().
		Int64("rental_id", rentalID).
		Int64("item_id", req.ItemID).
		Int64("client_id", clientID).
		Msg("Аренда оформлена")

	return &models.Rental{
		ID:          rentalID,
		ClientID:    clientID,
		InventoryID: req.ItemID,
		StartTime:   req.Start,
		EndTime:     req.End,
		TotalCost:   req.TotalCost,
	}, nil
}

func (db *DB) GetRental(ctx context.Context, id int64) (*models.Rental, error) {
	var (
		r          models.Rental
		start, end string
	)
	err := db.QueryRowContext(ctx,
		`SELECT id, client_id, inventory_id, start_time, end_time, total_cost FROM rentals WHERE id = ?`, id).
		Scan(&r.ID, &r.ClientID, &r.InventoryID, &start, &end, &r.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental: %w", err)
	}
	if r.StartTime, err = parseTime(start); err != nil {
		return nil, err
	}
	if r.EndTime, err = parseTime(end); err != nil {
		return nil, err
	}
	return &r, nil
}
