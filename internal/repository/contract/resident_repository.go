package contract

import (
	"context"

	"property-card-be/internal/entity"

	"github.com/google/uuid"
)

// ResidentRepository is the read-only slice of the residency data this
// service needs: resolving (userId, unitId) to a resident and their unit's
// display names.
type ResidentRepository interface {
	FindByUserAndUnit(ctx context.Context, userId uuid.UUID, unitId *uuid.UUID) (*entity.ResidentInfo, error)
}
