package models

import "time"

// InventoryItem единица проката
type InventoryItem struct {
	ID               int64     `json:"id" yaml:"id"`
	Type             string    `json:"type" yaml:"type"`
	Brand            string    `json:"brand" yaml:"brand"`
	Size             string    `json:"size,omitempty" yaml:"size"`
	Status           string    `json:"status" yaml:"status"`
	PricePerHour     float64   `json:"price_per_hour" yaml:"price_per_hour"`
	RegistrationDate time.Time `json:"registration_date" yaml:"-"`
}

// Label is the short caption used in item pickers.
func (i *InventoryItem) Label() string {
	return i.Type + " " + i.Brand
}

// HasSize reports whether the item was registered with a size.
func (i *InventoryItem) HasSize() bool {
	return i.Size != ""
}
