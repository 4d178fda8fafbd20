package implementation

import (
	"context"
	"time"

	"property-card-be/internal/entity"
	"property-card-be/internal/mapper"
	"property-card-be/internal/model"
	"property-card-be/internal/repository/contract"
	"property-card-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CardRegistrationRepositoryImpl serves one card kind; the three kinds differ
// only in their table name and, for vehicle cards, the legacy in-progress
// payment status that must keep matching sweeps.
type CardRegistrationRepositoryImpl struct {
	db         *gorm.DB
	kind       entity.CardType
	table      string
	inProgress []entity.CardPaymentStatus
	mapper     *mapper.CardMapper
}

func NewCardRegistrationRepository(db *gorm.DB, kind entity.CardType) contract.CardRegistrationRepository {
	r := &CardRegistrationRepositoryImpl{
		db:         db,
		kind:       kind,
		mapper:     mapper.NewCardMapper(),
		inProgress: entity.InProgressPaymentStatuses(kind),
	}
	switch kind {
	case entity.CardTypeResident:
		r.table = model.TableResidentCards
	case entity.CardTypeElevator:
		r.table = model.TableElevatorCards
	case entity.CardTypeVehicle:
		r.table = model.TableVehicleCards
	}
	return r
}

func (r *CardRegistrationRepositoryImpl) Kind() entity.CardType {
	return r.kind
}

func (r *CardRegistrationRepositoryImpl) query(ctx context.Context, specs ...specification.Specification) *gorm.DB {
	db := r.db.WithContext(ctx).Table(r.table)
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CardRegistrationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CardRegistration, error) {
	var models []*model.CardRegistration
	if err := r.query(ctx, specs...).Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CardRegistration, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(r.kind, m)
	}
	return entities, nil
}

// noteOnceExpr writes the note only when the row has none; the first
// explanation written by a sweep is the one that stays.
func noteOnceExpr(note string) interface{} {
	return gorm.Expr("CASE WHEN admin_note IS NULL OR admin_note = '' THEN ? ELSE admin_note END", note)
}

func (r *CardRegistrationRepositoryImpl) MarkNeedsRenewal(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Table(r.table).
		Where("id = ? AND status = ?", id, string(entity.CardStatusApproved)).
		Updates(map[string]interface{}{
			"status":     string(entity.CardStatusNeedsRenewal),
			"updated_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *CardRegistrationRepositoryImpl) MarkSuspended(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Table(r.table).
		Where("id = ? AND status IN ?", id, []string{
			string(entity.CardStatusApproved),
			string(entity.CardStatusNeedsRenewal),
		}).
		Updates(map[string]interface{}{
			"status":     string(entity.CardStatusSuspended),
			"updated_at": time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *CardRegistrationRepositoryImpl) ResetPendingPayment(ctx context.Context, id uuid.UUID, note string) (bool, error) {
	result := r.db.WithContext(ctx).Table(r.table).
		Where("id = ? AND payment_status = ?", id, string(entity.PaymentStatusPending)).
		Updates(map[string]interface{}{
			"payment_status": string(entity.PaymentStatusUnpaid),
			"status":         string(entity.CardStatusReadyForPayment),
			"admin_note":     noteOnceExpr(note),
			"updated_at":     time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *CardRegistrationRepositoryImpl) FailInProgressPayment(ctx context.Context, id uuid.UUID, note string) (bool, error) {
	statuses := make([]string, len(r.inProgress))
	for i, s := range r.inProgress {
		statuses[i] = string(s)
	}
	result := r.db.WithContext(ctx).Table(r.table).
		Where("id = ? AND payment_status IN ? AND payment_status <> ?",
			id, statuses, string(entity.PaymentStatusPaid)).
		Updates(map[string]interface{}{
			"payment_status": string(entity.PaymentStatusFailed),
			"admin_note":     noteOnceExpr(note),
			"updated_at":     time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}

func (r *CardRegistrationRepositoryImpl) CancelStaleReady(ctx context.Context, id uuid.UUID, note string) (bool, error) {
	result := r.db.WithContext(ctx).Table(r.table).
		Where("id = ? AND status = ? AND payment_status <> ?",
			id, string(entity.CardStatusReadyForPayment), string(entity.PaymentStatusPaid)).
		Updates(map[string]interface{}{
			"status":         string(entity.CardStatusCancelled),
			"payment_status": string(entity.PaymentStatusUnpaid),
			"admin_note":     noteOnceExpr(note),
			"updated_at":     time.Now(),
		})
	return result.RowsAffected > 0, result.Error
}
