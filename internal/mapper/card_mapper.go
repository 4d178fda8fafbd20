package mapper

import (
	"property-card-be/internal/entity"
	"property-card-be/internal/model"
)

type CardMapper struct{}

func NewCardMapper() *CardMapper {
	return &CardMapper{}
}

func (m *CardMapper) ToEntity(kind entity.CardType, c *model.CardRegistration) *entity.CardRegistration {
	if c == nil {
		return nil
	}
	return &entity.CardRegistration{
		Id:               c.Id,
		CardType:         kind,
		UserId:           c.UserId,
		ResidentId:       c.ResidentId,
		UnitId:           c.UnitId,
		Status:           entity.CardStatus(c.Status),
		PaymentStatus:    entity.CardPaymentStatus(c.PaymentStatus),
		ApprovedAt:       c.ApprovedAt,
		VnpayInitiatedAt: c.VnpayInitiatedAt,
		AdminNote:        c.AdminNote,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *CardMapper) ToModel(c *entity.CardRegistration) *model.CardRegistration {
	if c == nil {
		return nil
	}
	return &model.CardRegistration{
		Id:               c.Id,
		UserId:           c.UserId,
		ResidentId:       c.ResidentId,
		UnitId:           c.UnitId,
		Status:           string(c.Status),
		PaymentStatus:    string(c.PaymentStatus),
		ApprovedAt:       c.ApprovedAt,
		VnpayInitiatedAt: c.VnpayInitiatedAt,
		AdminNote:        c.AdminNote,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}
