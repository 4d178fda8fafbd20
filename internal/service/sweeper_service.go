package service

import (
	"context"
	"fmt"
	"time"

	"property-card-be/internal/config"
	"property-card-be/internal/entity"
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/repository/contract"
	"property-card-be/internal/repository/specification"
	"property-card-be/internal/repository/unitofwork"
	"property-card-be/pkg/events"
	pktNats "property-card-be/pkg/nats"
)

// Admin notes stamped by the sweeper. The repository keeps the first note a
// row ever gets, so a manual note from staff is never overwritten.
const (
	notePaymentReset   = "Payment window expired, reverted to unpaid"
	notePaymentTimeout = "Payment gateway session timed out"
	noteAutoCancelled  = "Cancelled automatically, payment was never started"
)

type IPaymentSweeper interface {
	// RunSweep walks the three card stores and times out payment flows that
	// have been stuck longer than the configured TTL.
	RunSweep(ctx context.Context) error
}

type paymentSweeper struct {
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pktNats.Publisher
	sender     NotificationSender
	logger     logger.ILogger
	cfg        config.CardConfig
	now        func() time.Time
}

func NewPaymentSweeper(
	uowFactory unitofwork.RepositoryFactory,
	natsPub *pktNats.Publisher,
	sender NotificationSender,
	log logger.ILogger,
	cfg config.CardConfig,
) IPaymentSweeper {
	return &paymentSweeper{
		uowFactory: uowFactory,
		natsPub:    natsPub,
		sender:     sender,
		logger:     log,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *paymentSweeper) RunSweep(ctx context.Context) error {
	cutoff := s.now().Add(-s.cfg.PendingPaymentTTL)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var reset, failed, cancelled, errored int
	for _, kind := range entity.CardTypes {
		repo := uow.CardRepository(kind)

		// Pending payments revert first so a row cannot be both reverted and
		// cancelled in one pass.
		r, e := s.sweepPhase(ctx, repo, "reset pending payment",
			[]specification.Specification{
				specification.WithPaymentStatus{PaymentStatus: entity.PaymentStatusPending},
				specification.UpdatedBefore{Cutoff: cutoff},
			},
			func(card *entity.CardRegistration) (bool, error) {
				return repo.ResetPendingPayment(ctx, card.Id, notePaymentReset)
			},
			events.TypeCardPaymentExpired,
			s.notifyPaymentReset)
		reset += r
		errored += e

		r, e = s.sweepPhase(ctx, repo, "fail stale gateway session",
			[]specification.Specification{
				specification.WithPaymentStatusIn{PaymentStatuses: entity.InProgressPaymentStatuses(kind)},
				specification.VnpayInitiatedBefore{Cutoff: cutoff},
			},
			func(card *entity.CardRegistration) (bool, error) {
				return repo.FailInProgressPayment(ctx, card.Id, notePaymentTimeout)
			},
			events.TypeCardPaymentExpired,
			nil)
		failed += r
		errored += e

		r, e = s.sweepPhase(ctx, repo, "cancel stale registration",
			[]specification.Specification{
				specification.WithStatus{Status: entity.CardStatusReadyForPayment},
				specification.UpdatedBefore{Cutoff: cutoff},
			},
			func(card *entity.CardRegistration) (bool, error) {
				return repo.CancelStaleReady(ctx, card.Id, noteAutoCancelled)
			},
			events.TypeCardAutoCancelled,
			nil)
		cancelled += r
		errored += e
	}

	s.logger.Info("PaymentSweeper", "Sweep finished", map[string]interface{}{
		"payments_reset":   reset,
		"payments_failed":  failed,
		"cards_cancelled":  cancelled,
		"errors":           errored,
	})
	return nil
}

// sweepPhase loads the candidates for one timeout rule and applies the
// conditional mutation row by row. A row that no longer matches its expected
// pre-state (another instance swept it, or the resident just paid) is left
// alone without counting as an error.
func (s *paymentSweeper) sweepPhase(
	ctx context.Context,
	repo contract.CardRegistrationRepository,
	action string,
	specs []specification.Specification,
	mutate func(card *entity.CardRegistration) (bool, error),
	eventType string,
	notify func(ctx context.Context, kind entity.CardType, card *entity.CardRegistration),
) (applied, errored int) {

	cards, err := repo.FindAll(ctx, specs...)
	if err != nil {
		s.logger.Error("PaymentSweeper", "Failed to load sweep candidates", map[string]interface{}{
			"card_type": repo.Kind(),
			"action":    action,
			"error":     err.Error(),
		})
		return 0, 1
	}

	for _, card := range cards {
		changed, err := mutate(card)
		if err != nil {
			s.logger.Error("PaymentSweeper", "Sweep mutation failed", map[string]interface{}{
				"card_type": repo.Kind(),
				"card_id":   card.Id,
				"action":    action,
				"error":     err.Error(),
			})
			errored++
			continue
		}
		if !changed {
			continue
		}
		applied++
		s.publish(ctx, eventType, repo.Kind(), card)
		if notify != nil {
			notify(ctx, repo.Kind(), card)
		}
	}
	return applied, errored
}

// notifyPaymentReset tells the resident their payment window expired and the
// registration is back to unpaid. Rows without a resident reference only get
// the NATS event.
func (s *paymentSweeper) notifyPaymentReset(ctx context.Context, kind entity.CardType, card *entity.CardRegistration) {
	if s.sender == nil || card.ResidentId == nil {
		return
	}
	refId := card.Id
	body := fmt.Sprintf("The payment for your %s expired before it completed. The registration is back to unpaid; please start the payment again.", kind.Label())
	err := s.sender.Send(ctx,
		*card.ResidentId, nil,
		entity.NotificationCategoryPaymentReset,
		"Payment window expired",
		body,
		&refId, entity.ReferenceTypeCardRegistration,
		map[string]interface{}{"card_type": string(kind)},
	)
	if err != nil {
		s.logger.Warn("PaymentSweeper", "Failed to queue payment reset notification", map[string]interface{}{
			"card_id": card.Id,
			"error":   err.Error(),
		})
	}
}

func (s *paymentSweeper) publish(ctx context.Context, eventType string, kind entity.CardType, card *entity.CardRegistration) {
	if s.natsPub == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{
		"card_id":   card.Id.String(),
		"card_type": string(kind),
		"user_id":   card.UserId.String(),
	})
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("PaymentSweeper", "Failed to publish sweep event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
