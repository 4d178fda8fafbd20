package service

import (
	"context"

	"property-card-be/internal/entity"
	"property-card-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// NotificationService is the query side of the resident inbox.
type NotificationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory) *NotificationService {
	return &NotificationService{uowFactory: uowFactory}
}

func (s *NotificationService) GetNotifications(ctx context.Context, residentId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().ListByResident(ctx, residentId, limit, offset)
}

func (s *NotificationService) GetUnreadCount(ctx context.Context, residentId uuid.UUID) (int64, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().UnreadCount(ctx, residentId)
}

func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAsRead(ctx, id)
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, residentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.NotificationRepository().MarkAllAsRead(ctx, residentId)
}
