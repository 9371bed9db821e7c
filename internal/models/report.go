package models

import "time"

// RevenueReport сумма и количество аренд за период.
// Total is nil when no rentals started inside the period.
type RevenueReport struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Total *float64  `json:"total"`
	Count int64     `json:"count"`
}

type InventoryCount struct {
	Type   string `json:"type"`
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type PopularItem struct {
	ItemID  int64  `json:"item_id"`
	Type    string `json:"type"`
	Brand   string `json:"brand"`
	Rentals int64  `json:"rentals"`
}
