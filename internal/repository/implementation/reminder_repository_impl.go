package implementation

import (
	"context"
	"time"

	"property-card-be/internal/entity"
	"property-card-be/internal/mapper"
	"property-card-be/internal/model"
	"property-card-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReminderStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReminderMapper
}

func NewReminderStateRepository(db *gorm.DB) contract.ReminderStateRepository {
	return &ReminderStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewReminderMapper(),
	}
}

func (r *ReminderStateRepositoryImpl) Upsert(ctx context.Context, state *entity.CardFeeReminderState) error {
	m := r.mapper.ToModel(state)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	// One tracker per (card, kind). Conflicts refresh the derived fields but
	// leave last_reminded_due alone so the cycle marker survives re-syncs.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "card_id"}, {Name: "card_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"resident_id", "user_id", "unit_id",
				"apartment_number", "building_name",
				"next_due_date", "updated_at",
			}),
		}).
		Create(m).Error
}

func (r *ReminderStateRepositoryImpl) FindDue(ctx context.Context, dueOnOrBefore time.Time) ([]*entity.CardFeeReminderState, error) {
	var models []*model.CardFeeReminderState
	err := r.db.WithContext(ctx).
		Model(&model.CardFeeReminderState{}).
		Where("next_due_date <= ?", dueOnOrBefore).
		Where("last_reminded_due IS NULL OR last_reminded_due < next_due_date").
		Order("next_due_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.CardFeeReminderState, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ReminderStateRepositoryImpl) MarkReminded(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.CardFeeReminderState{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"last_reminded_due": gorm.Expr("next_due_date"),
			"updated_at":        time.Now(),
		}).Error
}

func (r *ReminderStateRepositoryImpl) SetResident(ctx context.Context, id uuid.UUID, residentId uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.CardFeeReminderState{}).
		Where("id = ?", id).
		Update("resident_id", residentId).Error
}
