package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationCategoryFeeReminder   = "CARD_FEE_REMINDER"
	NotificationCategoryCardSuspended = "CARD_SUSPENDED"
	NotificationCategoryPaymentReset  = "CARD_PAYMENT_RESET"

	ReferenceTypeFeeReminder      = "card_fee_reminder"
	ReferenceTypeCardRegistration = "card_registration"
)

// Notification is one message in a resident's inbox.
type Notification struct {
	Id            uuid.UUID
	ResidentId    uuid.UUID
	BuildingId    *uuid.UUID
	Category      string
	Title         string
	Message       string
	ReferenceId   *uuid.UUID
	ReferenceType string
	Data          map[string]interface{}
	IsRead        bool
	ReadAt        *time.Time
	CreatedAt     time.Time
}
