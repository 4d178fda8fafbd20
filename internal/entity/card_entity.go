package entity

import (
	"time"

	"github.com/google/uuid"
)

type CardType string
type CardStatus string
type CardPaymentStatus string

const (
	CardTypeResident CardType = "resident"
	CardTypeElevator CardType = "elevator"
	CardTypeVehicle  CardType = "vehicle"

	CardStatusPending         CardStatus = "PENDING"
	CardStatusReadyForPayment CardStatus = "READY_FOR_PAYMENT"
	CardStatusApproved        CardStatus = "APPROVED"
	CardStatusNeedsRenewal    CardStatus = "NEEDS_RENEWAL"
	CardStatusSuspended       CardStatus = "SUSPENDED"
	CardStatusCancelled       CardStatus = "CANCELLED"

	PaymentStatusUnpaid     CardPaymentStatus = "UNPAID"
	PaymentStatusPending    CardPaymentStatus = "PAYMENT_PENDING"
	PaymentStatusInProgress CardPaymentStatus = "PAYMENT_IN_PROGRESS"
	PaymentStatusPaid       CardPaymentStatus = "PAID"
	PaymentStatusFailed     CardPaymentStatus = "PAYMENT_FAILED"

	// PaymentStatusLegacyVnpay is the pre-migration spelling still present on
	// vehicle card rows. The sweeper treats it exactly like PAYMENT_IN_PROGRESS.
	PaymentStatusLegacyVnpay CardPaymentStatus = "VNPAY_PENDING"
)

// CardTypes lists the three card kinds in their canonical display order.
var CardTypes = []CardType{CardTypeVehicle, CardTypeElevator, CardTypeResident}

// InProgressPaymentStatuses returns the payment statuses that mean a gateway
// session is open. Vehicle cards still carry the legacy spelling on old rows.
func InProgressPaymentStatuses(kind CardType) []CardPaymentStatus {
	statuses := []CardPaymentStatus{PaymentStatusInProgress}
	if kind == CardTypeVehicle {
		statuses = append(statuses, PaymentStatusLegacyVnpay)
	}
	return statuses
}

// CardRegistration is the shared shape of the three card kinds. Status moves
// forward only (APPROVED -> NEEDS_RENEWAL -> SUSPENDED, or to CANCELLED from a
// pre-APPROVED state); it never reverts automatically.
type CardRegistration struct {
	Id               uuid.UUID
	CardType         CardType
	UserId           uuid.UUID
	ResidentId       *uuid.UUID
	UnitId           *uuid.UUID
	Status           CardStatus
	PaymentStatus    CardPaymentStatus
	ApprovedAt       *time.Time
	VnpayInitiatedAt *time.Time
	AdminNote        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NoteOnce records an explanation only when no note exists yet, so repeated
// sweep runs never overwrite the first explanation. Returns whether the note
// was taken.
func (c *CardRegistration) NoteOnce(note string) bool {
	if c.AdminNote != "" {
		return false
	}
	c.AdminNote = note
	return true
}

func (t CardType) Label() string {
	switch t {
	case CardTypeResident:
		return "resident card"
	case CardTypeElevator:
		return "elevator card"
	case CardTypeVehicle:
		return "vehicle card"
	}
	return string(t) + " card"
}
