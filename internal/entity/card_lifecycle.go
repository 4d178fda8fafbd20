package entity

import "time"

// RenewalPolicy configures the time-based status transitions of an approved
// card. ThresholdMonths is the fee cycle measured in calendar months;
// SuspendAfterDays is the extra allowance past the threshold before the card
// is suspended. The suspension bound is computed in days (months x 30 + the
// allowance) so it stays conservative across uneven month lengths.
type RenewalPolicy struct {
	ThresholdMonths  int
	SuspendAfterDays int
}

func (p RenewalPolicy) renewalDue(approvedAt time.Time) time.Time {
	return approvedAt.AddDate(0, p.ThresholdMonths, 0)
}

func (p RenewalPolicy) suspendDue(approvedAt time.Time) time.Time {
	return approvedAt.AddDate(0, 0, p.ThresholdMonths*30+p.SuspendAfterDays)
}

// NextCardStatus decides the time-based transition for an approved, paid
// card. It is pure: no persistence, no clock. The suspension check runs first
// so a card past both bounds lands on SUSPENDED directly and is never pulled
// back to NEEDS_RENEWAL on a later run.
func NextCardStatus(current CardStatus, approvedAt time.Time, now time.Time, policy RenewalPolicy) CardStatus {
	if current != CardStatusApproved && current != CardStatusNeedsRenewal {
		return current
	}

	if !now.Before(policy.suspendDue(approvedAt)) {
		return CardStatusSuspended
	}
	if current == CardStatusApproved && !now.Before(policy.renewalDue(approvedAt)) {
		return CardStatusNeedsRenewal
	}
	return current
}

// NextFeeDueDate derives the tracker due date from the approval timestamp.
// The cycle is configured both in months and in days; when the two disagree
// the earlier date wins so the day-based bound stays conservative.
func NextFeeDueDate(approvedAt time.Time, cycleMonths, cycleDays int) time.Time {
	byMonth := approvedAt.AddDate(0, cycleMonths, 0)
	byDay := approvedAt.AddDate(0, 0, cycleDays)
	if byDay.Before(byMonth) {
		return byDay
	}
	return byMonth
}
