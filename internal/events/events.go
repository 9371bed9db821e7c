package events

import (
	"encoding/json"
	"errors"
	"sync"
	"time"
)

const (
	EventRentalBooked   = "rental_booked"
	EventInventoryAdded = "inventory_added"
	EventUserRegistered = "user_registered"
)

// RentalEventPayload snapshot of a booked rental.
type RentalEventPayload struct {
	RentalID   int64     `json:"rental_id"`
	ClientID   int64     `json:"client_id"`
	ClientName string    `json:"client_name"`
	Phone      string    `json:"phone"`
	ItemID     int64     `json:"item_id"`
	ItemType   string    `json:"item_type"`
	ItemBrand  string    `json:"item_brand"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	TotalCost  float64   `json:"total_cost"`
}

type InventoryEventPayload struct {
	ItemID       int64   `json:"item_id"`
	Type         string  `json:"type"`
	Brand        string  `json:"brand"`
	PricePerHour float64 `json:"price_per_hour"`
}

type UserEventPayload struct {
	TelegramID int64  `json:"telegram_id"`
	Role       string `json:"role"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the JSON payload into v.
func (e *Event) Decode(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish runs every handler synchronously and joins their errors.
// A failing handler does not stop the rest.
func (b *EventBus) Publish(event *Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}
	return b.Publish(&event)
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
