package events

import (
	"errors"
	"testing"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventRentalBooked, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	payload := RentalEventPayload{RentalID: 7, ItemID: 1, TotalCost: 450}
	if err := bus.PublishJSON(EventRentalBooked, payload); err != nil {
		t.Fatalf("PublishJSON failed: %v", err)
	}

	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}

	if received.Type != EventRentalBooked {
		t.Errorf("expected type %s, got %s", EventRentalBooked, received.Type)
	}

	var decoded RentalEventPayload
	if err := received.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode payload: %v", err)
	}

	if decoded.RentalID != 7 || decoded.TotalCost != 450 {
		t.Errorf("unexpected payload: %+v", decoded)
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	bus := NewEventBus()
	var count1, count2 int

	bus.Subscribe("event", func(_ *Event) error { count1++; return nil })
	bus.Subscribe("event", func(_ *Event) error { count2++; return nil })

	if err := bus.Publish(&Event{Type: "event"}); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both handlers to be called once, got %d and %d", count1, count2)
	}
}

func TestEventBusHandlerError(t *testing.T) {
	bus := NewEventBus()
	errSheets := errors.New("sheets down")
	var secondCalled bool

	bus.Subscribe(EventInventoryAdded, func(_ *Event) error { return errSheets })
	bus.Subscribe(EventInventoryAdded, func(_ *Event) error { secondCalled = true; return nil })

	err := bus.PublishJSON(EventInventoryAdded, InventoryEventPayload{ItemID: 1})
	if !errors.Is(err, errSheets) {
		t.Errorf("expected joined handler error, got %v", err)
	}
	if !secondCalled {
		t.Errorf("second handler must run after the first one fails")
	}
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	if err := bus.Publish(&Event{Type: "unknown"}); err != nil {
		t.Errorf("Publish failed: %v", err)
	}
	if err := bus.PublishJSON("unknown", nil); err != nil {
		t.Errorf("PublishJSON failed: %v", err)
	}

	var nilBus *EventBus
	if err := nilBus.PublishJSON(EventUserRegistered, UserEventPayload{TelegramID: 1}); err != nil {
		t.Errorf("nil bus must ignore events, got %v", err)
	}
}

func TestNewJSONEvent(t *testing.T) {
	event, err := NewJSONEvent(EventUserRegistered, UserEventPayload{TelegramID: 123, Role: "seller"})
	if err != nil {
		t.Fatalf("NewJSONEvent failed: %v", err)
	}

	if event.CreatedAt.IsZero() {
		t.Errorf("expected CreatedAt to be set")
	}

	var decoded UserEventPayload
	if err := event.Decode(&decoded); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if decoded.TelegramID != 123 || decoded.Role != "seller" {
		t.Errorf("unexpected payload: %+v", decoded)
	}

	if _, err := NewJSONEvent("bad", make(chan int)); err == nil {
		t.Errorf("expected marshal error for channel payload")
	}
}
