package dto

import (
	"time"

	"github.com/teamly/project-management-api/internal/models"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID        uint64                  `json:"id"`
	Type      models.NotificationType `json:"type"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	RefType   models.NotificationRef  `json:"ref_type,omitempty"`
	RefID     *uint64                 `json:"ref_id,omitempty"`
	Payload   models.JSONMap          `json:"payload"`
	IsRead    bool                    `json:"is_read"`
	ReadAt    *time.Time              `json:"read_at"`
	CreatedAt time.Time               `json:"created_at"`
	Sender    *UserDTO                `json:"sender,omitempty"`
}

// NotificationListResponse is a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	Total         int64             `json:"total"`
	Page          int               `json:"page"`
	Limit         int               `json:"limit"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	dto := NotificationDTO{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		RefType:   n.RefType,
		RefID:     n.RefID,
		Payload:   n.Payload,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}

	// Include sender if preloaded
	if n.Sender != nil && n.Sender.ID != 0 {
		sender := ToUserDTO(*n.Sender)
		dto.Sender = &sender
	}
	return dto
}

// ToNotificationDTOs converts a slice of Notification models
func ToNotificationDTOs(notifications []models.Notification) []NotificationDTO {
	dtos := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		dtos[i] = ToNotificationDTO(n)
	}
	return dtos
}
