package dto

import "github.com/google/uuid"

// NotificationMessage is the payload carried on the in-process notification
// topic between the scheduled jobs and the notification consumer.
type NotificationMessage struct {
	ResidentId    uuid.UUID              `json:"resident_id" validate:"required"`
	BuildingId    *uuid.UUID             `json:"building_id,omitempty"`
	Category      string                 `json:"category" validate:"required"`
	Title         string                 `json:"title" validate:"required"`
	Body          string                 `json:"body" validate:"required"`
	ReferenceId   *uuid.UUID             `json:"reference_id,omitempty"`
	ReferenceType string                 `json:"reference_type"`
	Data          map[string]interface{} `json:"data,omitempty"`
}
