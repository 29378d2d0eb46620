package mapper

import (
	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToModel(e *entity.Notification) *model.Notification {
	return &model.Notification{
		Id:        e.Id,
		UserId:    e.UserId,
		Type:      e.Type,
		Title:     e.Title,
		Body:      e.Body,
		IsRead:    e.IsRead,
		CreatedAt: e.CreatedAt,
	}
}

func (m *NotificationMapper) ToEntity(mod *model.Notification) *entity.Notification {
	return &entity.Notification{
		Id:        mod.Id,
		UserId:    mod.UserId,
		Type:      mod.Type,
		Title:     mod.Title,
		Body:      mod.Body,
		IsRead:    mod.IsRead,
		CreatedAt: mod.CreatedAt,
	}
}
