package specification

import (
	"time"

	"property-card-be/internal/entity"

	"gorm.io/gorm"
)

// WithStatus filters card registrations by lifecycle status.
type WithStatus struct {
	Status entity.CardStatus
}

func (s WithStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

// WithPaymentStatus filters card registrations by payment status.
type WithPaymentStatus struct {
	PaymentStatus entity.CardPaymentStatus
}

func (s WithPaymentStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("payment_status = ?", string(s.PaymentStatus))
}

// WithPaymentStatusIn matches any of the given payment statuses. Used by the
// sweeper where the legacy vehicle status rides along with the current one.
type WithPaymentStatusIn struct {
	PaymentStatuses []entity.CardPaymentStatus
}

func (s WithPaymentStatusIn) Apply(db *gorm.DB) *gorm.DB {
	values := make([]string, len(s.PaymentStatuses))
	for i, ps := range s.PaymentStatuses {
		values[i] = string(ps)
	}
	return db.Where("payment_status IN ?", values)
}

// UpdatedBefore selects rows whose last mutation is strictly older than the
// cutoff. Rows touched exactly at the cutoff are not stale yet.
type UpdatedBefore struct {
	Cutoff time.Time
}

func (s UpdatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("updated_at < ?", s.Cutoff)
}

// VnpayInitiatedBefore selects rows whose gateway session started strictly
// before the cutoff; rows without a session timestamp never match.
type VnpayInitiatedBefore struct {
	Cutoff time.Time
}

func (s VnpayInitiatedBefore) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("vnpay_initiated_at IS NOT NULL AND vnpay_initiated_at < ?", s.Cutoff)
}
