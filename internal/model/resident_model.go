package model

import (
	"time"

	"github.com/google/uuid"
)

// Resident and Unit mirror the slices of the residency service's schema that
// the reminder jobs read. They are never written from here.
type Resident struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	UnitId    *uuid.UUID `gorm:"type:uuid;index"`
	FullName  string     `gorm:"type:varchar(255)"`
	Email     string     `gorm:"type:varchar(255)"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (Resident) TableName() string {
	return "residents"
}

type Unit struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BuildingId      *uuid.UUID `gorm:"type:uuid;index"`
	ApartmentNumber string     `gorm:"type:varchar(50)"`
	BuildingName    string     `gorm:"type:varchar(255)"`
}

func (Unit) TableName() string {
	return "units"
}
