package model

import (
	"time"

	"github.com/google/uuid"
)

// The three card kinds share one row shape across three tables; the
// repository picks the table, so this model carries no TableName of its own.
type CardRegistration struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ResidentId       *uuid.UUID `gorm:"type:uuid;index"`
	UnitId           *uuid.UUID `gorm:"type:uuid;index"`
	Status           string     `gorm:"type:varchar(50);not null;index"`
	PaymentStatus    string     `gorm:"type:varchar(50);not null;index"`
	ApprovedAt       *time.Time
	VnpayInitiatedAt *time.Time
	AdminNote        string    `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

const (
	TableResidentCards = "resident_card_registrations"
	TableElevatorCards = "elevator_card_registrations"
	TableVehicleCards  = "vehicle_card_registrations"
)

// Typed aliases so AutoMigrate creates all three tables.

type ResidentCardRegistration struct{ CardRegistration }

func (ResidentCardRegistration) TableName() string { return TableResidentCards }

type ElevatorCardRegistration struct{ CardRegistration }

func (ElevatorCardRegistration) TableName() string { return TableElevatorCards }

type VehicleCardRegistration struct{ CardRegistration }

func (VehicleCardRegistration) TableName() string { return TableVehicleCards }
