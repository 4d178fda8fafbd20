package contract

import (
	"context"

	"property-card-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByResident(ctx context.Context, residentId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	UnreadCount(ctx context.Context, residentId uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, residentId uuid.UUID) error
}
