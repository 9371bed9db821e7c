package models

import "time"

// FlowKind tags which wizard a Session belongs to.
type FlowKind string

const (
	FlowRoleSelection FlowKind = "role_selection"
	FlowRental        FlowKind = "rental"
	FlowInventory     FlowKind = "inventory"
)

type RentalStep string

const (
	RentalAwaitingDuration RentalStep = "awaiting_duration"
	RentalAwaitingPhone    RentalStep = "awaiting_phone"
)

type InventoryStep string

const (
	InventoryAwaitingType  InventoryStep = "awaiting_type"
	InventoryAwaitingBrand InventoryStep = "awaiting_brand"
	InventoryAwaitingSize  InventoryStep = "awaiting_size"
	InventoryAwaitingPrice InventoryStep = "awaiting_price"
)

// RentalFlow поля мастера аренды
type RentalFlow struct {
	Step   RentalStep `json:"step"`
	ItemID int64      `json:"item_id"`
	Hours  int        `json:"hours,omitempty"`
	Cost   float64    `json:"cost,omitempty"`
}

// InventoryFlow поля мастера добавления инвентаря
type InventoryFlow struct {
	Step  InventoryStep `json:"step"`
	Type  string        `json:"type,omitempty"`
	Brand string        `json:"brand,omitempty"`
	Size  string        `json:"size,omitempty"`
}

// Session is the transient per-user wizard state. Exactly one payload
// matching Kind is set; role selection carries no payload.
type Session struct {
	UserID    int64          `json:"user_id"`
	Kind      FlowKind       `json:"kind"`
	Rental    *RentalFlow    `json:"rental,omitempty"`
	Inventory *InventoryFlow `json:"inventory,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewRoleSelectionSession(userID int64) *Session {
	return &Session{UserID: userID, Kind: FlowRoleSelection, UpdatedAt: time.Now()}
}

func NewRentalSession(userID, itemID int64) *Session {
	return &Session{
		UserID:    userID,
		Kind:      FlowRental,
		Rental:    &RentalFlow{Step: RentalAwaitingDuration, ItemID: itemID},
		UpdatedAt: time.Now(),
	}
}

func NewInventorySession(userID int64) *Session {
	return &Session{
		UserID:    userID,
		Kind:      FlowInventory,
		Inventory: &InventoryFlow{Step: InventoryAwaitingType},
		UpdatedAt: time.Now(),
	}
}

// Valid reports whether the payload agrees with the tag.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case FlowRoleSelection:
		return s.Rental == nil && s.Inventory == nil
	case FlowRental:
		return s.Rental != nil && s.Inventory == nil
	case FlowInventory:
		return s.Inventory != nil && s.Rental == nil
	default:
		return false
	}
}
