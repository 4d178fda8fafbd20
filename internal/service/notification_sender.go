package service

import (
	"context"
	"encoding/json"
	"fmt"

	"property-card-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// NotificationSender is the narrow contract the jobs dispatch through. From
// their perspective it is fire-and-forget; delivery is the consumer's problem.
type NotificationSender interface {
	Send(ctx context.Context, residentId uuid.UUID, buildingId *uuid.UUID,
		category, title, body string,
		referenceId *uuid.UUID, referenceType string,
		data map[string]interface{}) error
}

// messagePublisher is what the watermill gochannel pubsub satisfies.
type messagePublisher interface {
	Publish(topic string, messages ...*message.Message) error
}

type notificationPublisher struct {
	topic  string
	pubSub messagePublisher
}

func NewNotificationPublisher(topic string, pubSub messagePublisher) NotificationSender {
	return &notificationPublisher{
		topic:  topic,
		pubSub: pubSub,
	}
}

func (p *notificationPublisher) Send(ctx context.Context, residentId uuid.UUID, buildingId *uuid.UUID,
	category, title, body string,
	referenceId *uuid.UUID, referenceType string,
	data map[string]interface{}) error {

	payload, err := json.Marshal(dto.NotificationMessage{
		ResidentId:    residentId,
		BuildingId:    buildingId,
		Category:      category,
		Title:         title,
		Body:          body,
		ReferenceId:   referenceId,
		ReferenceType: referenceType,
		Data:          data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification message: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	return p.pubSub.Publish(p.topic, msg)
}
