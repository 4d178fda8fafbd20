package model

import (
	"time"

	"github.com/google/uuid"
)

type CardFeeReminderState struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CardId          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_card,priority:1"`
	CardType        string     `gorm:"type:varchar(20);not null;uniqueIndex:idx_reminder_card,priority:2"`
	ResidentId      *uuid.UUID `gorm:"type:uuid;index"`
	UserId          uuid.UUID  `gorm:"type:uuid;not null"`
	UnitId          *uuid.UUID `gorm:"type:uuid;index"`
	ApartmentNumber string     `gorm:"type:varchar(50)"`
	BuildingName    string     `gorm:"type:varchar(255)"`
	NextDueDate     time.Time  `gorm:"not null;index"`
	LastRemindedDue *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (CardFeeReminderState) TableName() string {
	return "card_fee_reminder_states"
}
