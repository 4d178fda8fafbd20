package entity

import (
	"time"

	"github.com/google/uuid"
)

// CardFeeReminderState is the per-card reminder bookkeeping row, kept apart
// from the registration so reminder state survives registration mutations.
// The "already reminded this cycle" marker is LastRemindedDue: a reminder was
// sent for the current cycle iff it equals NextDueDate. The marker clears
// itself when NextDueDate rolls over.
type CardFeeReminderState struct {
	Id              uuid.UUID
	CardId          uuid.UUID
	CardType        CardType
	ResidentId      *uuid.UUID
	UserId          uuid.UUID
	UnitId          *uuid.UUID
	ApartmentNumber string
	BuildingName    string
	NextDueDate     time.Time
	LastRemindedDue *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RemindedThisCycle reports whether a reminder already went out for the
// current NextDueDate.
func (s *CardFeeReminderState) RemindedThisCycle() bool {
	return s.LastRemindedDue != nil && !s.LastRemindedDue.Before(s.NextDueDate)
}

// DaysOverdue is how many whole days the fee is past due at the given time,
// never negative.
func (s *CardFeeReminderState) DaysOverdue(now time.Time) int {
	days := int(now.Sub(s.NextDueDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ResidentInfo is what the resident/unit directory resolves for a tracker
// that lacks a resident reference.
type ResidentInfo struct {
	ResidentId      uuid.UUID
	BuildingId      *uuid.UUID
	ApartmentNumber string
	BuildingName    string
	Email           string
}
