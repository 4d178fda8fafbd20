package service

import (
	"context"
	"encoding/json"

	"property-card-be/internal/dto"
	"property-card-be/internal/entity"
	"property-card-be/internal/pkg/logger"
	"property-card-be/internal/pkg/mailer"
	"property-card-be/internal/repository/unitofwork"
	"property-card-be/pkg/events"
	pktNats "property-card-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/go-playground/validator/v10"
)

type INotificationConsumerService interface {
	Consume(ctx context.Context) error
}

// notificationConsumerService drains the notification topic: persist the
// inbox row, mirror the event onto NATS for the other services, and send the
// email copy when the payload carries an address.
type notificationConsumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pktNats.Publisher
	email      mailer.IEmailService
	logger     logger.ILogger
	validate   *validator.Validate
}

func NewNotificationConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	natsPub *pktNats.Publisher,
	email mailer.IEmailService,
	log logger.ILogger,
) INotificationConsumerService {
	return &notificationConsumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		natsPub:    natsPub,
		email:      email,
		logger:     log,
		validate:   validator.New(),
	}
}

func (cs *notificationConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *notificationConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.NotificationMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("NotificationConsumer", "Failed to unmarshal notification message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads must not loop forever
		return
	}
	if err := cs.validate.Struct(&payload); err != nil {
		cs.logger.Error("NotificationConsumer", "Rejected invalid notification message", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	notification := entity.Notification{
		ResidentId:    payload.ResidentId,
		BuildingId:    payload.BuildingId,
		Category:      payload.Category,
		Title:         payload.Title,
		Message:       payload.Body,
		ReferenceId:   payload.ReferenceId,
		ReferenceType: payload.ReferenceType,
		Data:          payload.Data,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.NotificationRepository().Create(ctx, &notification); err != nil {
		cs.logger.Error("NotificationConsumer", "Failed to persist notification", map[string]interface{}{
			"error":       err.Error(),
			"resident_id": payload.ResidentId,
		})
		msg.Nack()
		return
	}

	if cs.natsPub != nil {
		evt := events.New(eventTypeForCategory(payload.Category), map[string]interface{}{
			"notification_id": notification.Id.String(),
			"resident_id":     payload.ResidentId.String(),
			"title":           payload.Title,
			"message":         payload.Body,
		})
		if err := cs.natsPub.Publish(ctx, evt); err != nil {
			cs.logger.Warn("NotificationConsumer", "Failed to publish NATS event", map[string]interface{}{"error": err.Error()})
		}
	}

	cs.sendEmailCopy(payload)

	msg.Ack()
}

// eventTypeForCategory translates an inbox category into the event code the
// NATS mirror carries. Unknown categories pass through as-is.
func eventTypeForCategory(category string) string {
	switch category {
	case entity.NotificationCategoryFeeReminder:
		return events.TypeCardFeeReminderSent
	case entity.NotificationCategoryCardSuspended:
		return events.TypeCardSuspended
	case entity.NotificationCategoryPaymentReset:
		return events.TypeCardPaymentExpired
	default:
		return category
	}
}

func (cs *notificationConsumerService) sendEmailCopy(payload dto.NotificationMessage) {
	if cs.email == nil || payload.Data == nil {
		return
	}
	address, _ := payload.Data["email"].(string)
	if address == "" {
		return
	}
	unitLabel, _ := payload.Data["unit"].(string)
	if unitLabel == "" {
		unitLabel = "your unit"
	}
	if err := cs.email.SendFeeReminder(address, unitLabel, payload.Body); err != nil {
		cs.logger.Warn("NotificationConsumer", "Failed to send email copy", map[string]interface{}{
			"error":       err.Error(),
			"resident_id": payload.ResidentId,
		})
	}
}
