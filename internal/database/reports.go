package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prokat/internal/models"
)

// GetRevenueReport суммирует аренды, начатые в [start 00:00:00, end 23:59:59].
func (db *DB) GetRevenueReport(ctx context.Context, start, end time.Time) (*models.RevenueReport, error) {
	from := start.Format(models.DateLayout) + " 00:00:00"
	to := end.Format(models.DateLayout) + " 23:59:59"

	var (
		total sql.NullFloat64
		count int64
	)
	err := db.QueryRowContext(ctx,
		`SELECT SUM(total_cost), COUNT(*) FROM rentals WHERE start_time BETWEEN ? AND ?`, from, to).
		Scan(&total, &count)
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue report: %w", err)
	}

	report := &models.RevenueReport{Start: start, End: end, Count: count}
	if total.Valid {
		v := total.Float64
		report.Total = &v
	}
	return report, nil
}

func (db *DB) GetInventoryReport(ctx context.Context) ([]models.InventoryCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT type, status, COUNT(*) FROM inventory GROUP BY type, status ORDER BY type, status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory report: %w", err)
	}
	defer rows.Close()

	result := make([]models.InventoryCount, 0)
	for rows.Next() {
		var c models.InventoryCount
		if err := rows.Scan(&c.Type, &c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan inventory report: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// GetPopularItems returns at most limit items by rental count, ties by id.
// Items without rentals never appear.
func (db *DB) GetPopularItems(ctx context.Context, limit int) ([]models.PopularItem, error) {
	if limit <= 0 {
		limit = models.PopularItemsLimit
	}

	query := `SELECT r.inventory_id, COALESCE(i.type, ''), COALESCE(i.brand, ''), COUNT(*) AS rentals
              FROM rentals r
              LEFT JOIN inventory i ON i.id = r.inventory_id
              GROUP BY r.inventory_id
              ORDER BY rentals DESC, r.inventory_id ASC
              LIMIT ?`
	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get popular items: %w", err)
	}
	defer rows.Close()

	result := make([]models.PopularItem, 0, limit)
	for rows.Next() {
		var p models.PopularItem
		if err := rows.Scan(&p.ItemID, &p.Type, &p.Brand, &p.Rentals); err != nil {
			return nil, fmt.Errorf("failed to scan popular item: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}
