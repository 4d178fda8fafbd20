package entity

import (
	"testing"
	"time"
)

func TestRemindedThisCycle(t *testing.T) {
	due := date(2025, time.June, 1)
	prevDue := date(2024, time.June, 1)

	tests := []struct {
		name            string
		lastRemindedDue *time.Time
		want            bool
	}{
		{"never reminded", nil, false},
		{"reminded for a previous cycle", &prevDue, false},
		{"reminded for the current cycle", &due, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := CardFeeReminderState{
				NextDueDate:     due,
				LastRemindedDue: tt.lastRemindedDue,
			}
			if got := s.RemindedThisCycle(); got != tt.want {
				t.Errorf("RemindedThisCycle() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDaysOverdue(t *testing.T) {
	s := CardFeeReminderState{NextDueDate: date(2025, time.June, 1)}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"before due date", date(2025, time.May, 20), 0},
		{"on due date", date(2025, time.June, 1), 0},
		{"one day over", date(2025, time.June, 2), 1},
		{"ten days over", date(2025, time.June, 11), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.DaysOverdue(tt.now); got != tt.want {
				t.Errorf("DaysOverdue(%s) = %d, want %d", tt.now, got, tt.want)
			}
		})
	}
}

func TestInProgressPaymentStatuses(t *testing.T) {
	vehicle := InProgressPaymentStatuses(CardTypeVehicle)
	if len(vehicle) != 2 || vehicle[0] != PaymentStatusInProgress || vehicle[1] != PaymentStatusLegacyVnpay {
		t.Errorf("vehicle statuses = %v, want in-progress plus legacy", vehicle)
	}

	for _, kind := range []CardType{CardTypeResident, CardTypeElevator} {
		statuses := InProgressPaymentStatuses(kind)
		if len(statuses) != 1 || statuses[0] != PaymentStatusInProgress {
			t.Errorf("%s statuses = %v, want in-progress only", kind, statuses)
		}
	}
}

func TestNoteOnce(t *testing.T) {
	card := CardRegistration{}
	if !card.NoteOnce("first note") {
		t.Error("NoteOnce on empty card should apply")
	}
	if card.AdminNote != "first note" {
		t.Errorf("AdminNote = %q, want %q", card.AdminNote, "first note")
	}
	if card.NoteOnce("second note") {
		t.Error("NoteOnce on a noted card should not apply")
	}
	if card.AdminNote != "first note" {
		t.Errorf("AdminNote = %q, first note must win", card.AdminNote)
	}
}
