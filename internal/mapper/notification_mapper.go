package mapper

import (
	"encoding/json"

	"property-card-be/internal/entity"
	"property-card-be/internal/model"

	"gorm.io/datatypes"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	var data map[string]interface{}
	if len(n.Data) > 0 {
		// Malformed stored payloads are surfaced as an empty map, not an error.
		_ = json.Unmarshal(n.Data, &data)
	}
	return &entity.Notification{
		Id:            n.Id,
		ResidentId:    n.ResidentId,
		BuildingId:    n.BuildingId,
		Category:      n.Category,
		Title:         n.Title,
		Message:       n.Message,
		ReferenceId:   n.ReferenceId,
		ReferenceType: n.ReferenceType,
		Data:          data,
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}
	var data datatypes.JSON
	if n.Data != nil {
		raw, _ := json.Marshal(n.Data)
		data = datatypes.JSON(raw)
	}
	return &model.Notification{
		Id:            n.Id,
		ResidentId:    n.ResidentId,
		BuildingId:    n.BuildingId,
		Category:      n.Category,
		Title:         n.Title,
		Message:       n.Message,
		ReferenceId:   n.ReferenceId,
		ReferenceType: n.ReferenceType,
		Data:          data,
		IsRead:        n.IsRead,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}
