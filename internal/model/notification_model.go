package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Notification stores the resident-facing notification history.
type Notification struct {
	Id            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ResidentId    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_resident_created,priority:1"`
	BuildingId    *uuid.UUID `gorm:"type:uuid"`
	Category      string     `gorm:"type:varchar(50);not null;index"`
	Title         string     `gorm:"type:varchar(200);not null"`
	Message       string     `gorm:"type:text;not null"`
	ReferenceId   *uuid.UUID `gorm:"type:uuid"`
	ReferenceType string     `gorm:"type:varchar(50)"`
	Data          datatypes.JSON `gorm:"type:jsonb"`
	IsRead        bool       `gorm:"default:false"`
	ReadAt        *time.Time
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_notifications_resident_created,priority:2"`
}

func (Notification) TableName() string {
	return "notifications"
}
