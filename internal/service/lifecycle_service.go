package service

import (
	"context"
	"fmt"
	"time"

	"property-card-be/internal/config"
	"property-card-be/internal/entity"
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/repository/specification"
	"property-card-be/internal/repository/unitofwork"
	"property-card-be/pkg/events"
	pktNats "property-card-be/pkg/nats"
)

type ICardLifecycleService interface {
	// RunStatusUpdate advances APPROVED+PAID cards along
	// APPROVED -> NEEDS_RENEWAL -> SUSPENDED based on their approval age.
	RunStatusUpdate(ctx context.Context) error
}

type cardLifecycleService struct {
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pktNats.Publisher
	sender     NotificationSender
	logger     logger.ILogger
	cfg        config.CardConfig
	now        func() time.Time
}

func NewCardLifecycleService(
	uowFactory unitofwork.RepositoryFactory,
	natsPub *pktNats.Publisher,
	sender NotificationSender,
	log logger.ILogger,
	cfg config.CardConfig,
) ICardLifecycleService {
	return &cardLifecycleService{
		uowFactory: uowFactory,
		natsPub:    natsPub,
		sender:     sender,
		logger:     log,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *cardLifecycleService) RunStatusUpdate(ctx context.Context) error {
	if !s.cfg.StatusUpdateEnabled {
		s.logger.Debug("CardLifecycle", "Status update job is disabled", nil)
		return nil
	}

	now := s.now()
	policy := entity.RenewalPolicy{
		ThresholdMonths:  s.cfg.RenewalThresholdMonth,
		SuspendAfterDays: s.cfg.SuspendAfterDays,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	var scanned, renewed, suspended, failed int

	for _, kind := range entity.CardTypes {
		repo := uow.CardRepository(kind)
		cards, err := repo.FindAll(ctx,
			specification.WithStatus{Status: entity.CardStatusApproved},
			specification.WithPaymentStatus{PaymentStatus: entity.PaymentStatusPaid},
		)
		if err != nil {
			// One kind failing must not starve the other two.
			s.logger.Error("CardLifecycle", "Failed to load approved cards", map[string]interface{}{
				"card_type": kind,
				"error":     err.Error(),
			})
			failed++
			continue
		}

		for _, card := range cards {
			scanned++
			if card.ApprovedAt == nil {
				s.logger.Warn("CardLifecycle", "Approved card has no approval timestamp, skipping", map[string]interface{}{
					"card_type": kind,
					"card_id":   card.Id,
				})
				continue
			}

			next := entity.NextCardStatus(card.Status, *card.ApprovedAt, now, policy)
			if next == card.Status {
				continue
			}

			var (
				changed bool
				err     error
			)
			switch next {
			case entity.CardStatusSuspended:
				changed, err = repo.MarkSuspended(ctx, card.Id)
			case entity.CardStatusNeedsRenewal:
				changed, err = repo.MarkNeedsRenewal(ctx, card.Id)
			}
			if err != nil {
				s.logger.Error("CardLifecycle", "Failed to advance card status", map[string]interface{}{
					"card_type": kind,
					"card_id":   card.Id,
					"to":        next,
					"error":     err.Error(),
				})
				failed++
				continue
			}
			if !changed {
				// Another instance won the conditional write; nothing to redo.
				continue
			}

			switch next {
			case entity.CardStatusSuspended:
				suspended++
				s.publish(ctx, events.TypeCardSuspended, kind, card)
				s.notifySuspended(ctx, kind, card)
			case entity.CardStatusNeedsRenewal:
				renewed++
				s.publish(ctx, events.TypeCardNeedsRenewal, kind, card)
			}
		}
	}

	s.logger.Info("CardLifecycle", "Status update run finished", map[string]interface{}{
		"scanned":        scanned,
		"needs_renewal":  renewed,
		"suspended":      suspended,
		"failed":         failed,
	})
	return nil
}

// notifySuspended drops a message in the resident's inbox when their card is
// suspended. Cards without a resident reference only get the NATS event.
func (s *cardLifecycleService) notifySuspended(ctx context.Context, kind entity.CardType, card *entity.CardRegistration) {
	if s.sender == nil || card.ResidentId == nil {
		return
	}
	refId := card.Id
	body := fmt.Sprintf("Your %s has been suspended. The renewal fee was not paid within the grace period.", kind.Label())
	err := s.sender.Send(ctx,
		*card.ResidentId, nil,
		entity.NotificationCategoryCardSuspended,
		"Card suspended",
		body,
		&refId, entity.ReferenceTypeCardRegistration,
		map[string]interface{}{"card_type": string(kind)},
	)
	if err != nil {
		s.logger.Warn("CardLifecycle", "Failed to queue suspension notification", map[string]interface{}{
			"card_id": card.Id,
			"error":   err.Error(),
		})
	}
}

func (s *cardLifecycleService) publish(ctx context.Context, eventType string, kind entity.CardType, card *entity.CardRegistration) {
	if s.natsPub == nil {
		return
	}
	evt := events.New(eventType, map[string]interface{}{
		"card_id":   card.Id.String(),
		"card_type": string(kind),
		"user_id":   card.UserId.String(),
	})
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		s.logger.Warn("CardLifecycle", "Failed to publish lifecycle event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
