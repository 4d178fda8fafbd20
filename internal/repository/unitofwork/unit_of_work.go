package unitofwork

import (
	"context"

	"property-card-be/internal/entity"
	"property-card-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CardRepository(kind entity.CardType) contract.CardRegistrationRepository
	ReminderStateRepository() contract.ReminderStateRepository
	NotificationRepository() contract.NotificationRepository
	ResidentRepository() contract.ResidentRepository
}
