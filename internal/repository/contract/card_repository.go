package contract

import (
	"context"

	"property-card-be/internal/entity"
	"property-card-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CardRegistrationRepository is the query/mutation contract shared by the
// three card kinds. Every mutator carries its optimistic guard: the write
// applies only while the row still matches the expected pre-state, and the
// boolean result reports whether it did. Re-running a job over rows that
// already transitioned is therefore a no-op.
type CardRegistrationRepository interface {
	Kind() entity.CardType

	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CardRegistration, error)

	// MarkNeedsRenewal moves APPROVED -> NEEDS_RENEWAL.
	MarkNeedsRenewal(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkSuspended moves APPROVED or NEEDS_RENEWAL -> SUSPENDED.
	MarkSuspended(ctx context.Context, id uuid.UUID) (bool, error)

	// ResetPendingPayment reverts a stale PAYMENT_PENDING row to UNPAID /
	// READY_FOR_PAYMENT. The note lands only if the row has none yet.
	ResetPendingPayment(ctx context.Context, id uuid.UUID, note string) (bool, error)

	// FailInProgressPayment marks a stale gateway session PAYMENT_FAILED,
	// leaving the lifecycle status untouched.
	FailInProgressPayment(ctx context.Context, id uuid.UUID, note string) (bool, error)

	// CancelStaleReady cancels a READY_FOR_PAYMENT row that never paid.
	CancelStaleReady(ctx context.Context, id uuid.UUID, note string) (bool, error)
}
