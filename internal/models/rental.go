package models

import "time"

type Client struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone"`
	RegDate time.Time `json:"reg_date"`
}

type Rental struct {
	ID          int64     `json:"id"`
	ClientID    int64     `json:"client_id"`
	InventoryID int64     `json:"inventory_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	TotalCost   float64   `json:"total_cost"`
}

// Hours returns the booked duration rounded to whole hours.
func (r *Rental) Hours() int {
	return int(r.EndTime.Sub(r.StartTime).Round(time.Hour) / time.Hour)
}

// BookingRequest is everything needed to book an item in one transaction.
type BookingRequest struct {
	ClientName string
	Phone      string
	ItemID     int64
	Start      time.Time
	End        time.Time
	TotalCost  float64
	// ReuseClient makes the store look up an existing client by phone
	// instead of always inserting a new row.
	ReuseClient bool
}

// LedgerRecord строка журнала аренд во внешней таблице
type LedgerRecord struct {
	RentalID  int64     `json:"rental_id"`
	ItemID    int64     `json:"item_id"`
	ItemLabel string    `json:"item_label"`
	Client    string    `json:"client"`
	Phone     string    `json:"phone"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	TotalCost float64   `json:"total_cost"`
}
