package implementation

import (
	"context"
	"errors"
	"time"

	"property-card-be/internal/entity"
	"property-card-be/internal/mapper"
	"property-card-be/internal/model"
	"property-card-be/internal/repository/contract"
	"property-card-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.NotificationMapper
}

func NewNotificationRepository(db *gorm.DB) contract.NotificationRepository {
	return &NotificationRepositoryImpl{
		db:     db,
		mapper: mapper.NewNotificationMapper(),
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *entity.Notification) error {
	m := r.mapper.ToModel(notification)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*notification = *r.mapper.ToEntity(m)
	return nil
}

func (r *NotificationRepositoryImpl) ListByResident(ctx context.Context, residentId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	var models []*model.Notification
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Notification{})
	db = specification.Filter("resident_id", residentId).Apply(db)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := specification.OrderBy{Field: "created_at", Desc: true}.Apply(db)
	listQuery = specification.Pagination{Limit: limit, Offset: offset}.Apply(listQuery)
	if err := listQuery.Find(&models).Error; err != nil {
		return nil, 0, err
	}

	entities := make([]*entity.Notification, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, total, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, residentId uuid.UUID) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).Model(&model.Notification{})
	db = specification.Filter("resident_id", residentId).Apply(db)
	db = specification.Filter("is_read", false).Apply(db)
	err := db.Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	db := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx).Model(&model.Notification{}))
	result := db.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("notification not found")
	}
	return nil
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(ctx context.Context, residentId uuid.UUID) error {
	now := time.Now()
	db := r.db.WithContext(ctx).Model(&model.Notification{})
	db = specification.Filter("resident_id", residentId).Apply(db)
	db = specification.Filter("is_read", false).Apply(db)
	return db.Updates(map[string]interface{}{
		"is_read": true,
		"read_at": now,
	}).Error
}
