package mapper

import (
	"property-card-be/internal/entity"
	"property-card-be/internal/model"
)

type ReminderMapper struct{}

func NewReminderMapper() *ReminderMapper {
	return &ReminderMapper{}
}

func (m *ReminderMapper) ToEntity(s *model.CardFeeReminderState) *entity.CardFeeReminderState {
	if s == nil {
		return nil
	}
	return &entity.CardFeeReminderState{
		Id:              s.Id,
		CardId:          s.CardId,
		CardType:        entity.CardType(s.CardType),
		ResidentId:      s.ResidentId,
		UserId:          s.UserId,
		UnitId:          s.UnitId,
		ApartmentNumber: s.ApartmentNumber,
		BuildingName:    s.BuildingName,
		NextDueDate:     s.NextDueDate,
		LastRemindedDue: s.LastRemindedDue,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func (m *ReminderMapper) ToModel(s *entity.CardFeeReminderState) *model.CardFeeReminderState {
	if s == nil {
		return nil
	}
	return &model.CardFeeReminderState{
		Id:              s.Id,
		CardId:          s.CardId,
		CardType:        string(s.CardType),
		ResidentId:      s.ResidentId,
		UserId:          s.UserId,
		UnitId:          s.UnitId,
		ApartmentNumber: s.ApartmentNumber,
		BuildingName:    s.BuildingName,
		NextDueDate:     s.NextDueDate,
		LastRemindedDue: s.LastRemindedDue,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}
