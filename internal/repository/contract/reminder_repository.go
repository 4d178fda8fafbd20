package contract

import (
	"context"
	"time"

	"property-card-be/internal/entity"

	"github.com/google/uuid"
)

type ReminderStateRepository interface {
	// Upsert creates the tracker for (cardId, cardType) if absent, or
	// refreshes the derived fields (due date, resident/unit denormalization)
	// if it exists. The reminded marker is never touched here.
	Upsert(ctx context.Context, state *entity.CardFeeReminderState) error

	// FindDue returns trackers whose NextDueDate is on or before the given
	// date and whose reminder marker is unset for the current cycle.
	FindDue(ctx context.Context, dueOnOrBefore time.Time) ([]*entity.CardFeeReminderState, error)

	// MarkReminded stamps the current-cycle marker on the given trackers in
	// one batched update.
	MarkReminded(ctx context.Context, ids []uuid.UUID) error

	// SetResident backfills a resolved resident reference on a tracker.
	SetResident(ctx context.Context, id uuid.UUID, residentId uuid.UUID) error
}
