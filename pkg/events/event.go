package events

import "time"

// Event type codes published by the scheduled jobs.
const (
	TypeCardFeeReminderSent = "CARD_FEE_REMINDER_SENT"
	TypeCardNeedsRenewal    = "CARD_NEEDS_RENEWAL"
	TypeCardSuspended       = "CARD_SUSPENDED"
	TypeCardPaymentExpired  = "CARD_PAYMENT_EXPIRED"
	TypeCardAutoCancelled   = "CARD_AUTO_CANCELLED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CARD_SUSPENDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// New builds a BaseEvent stamped now.
func New(eventType string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = make(map[string]interface{})
	}
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}
