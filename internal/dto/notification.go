package dto

import (
	"time"

	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/utils"
)

// NotificationDTO represents a notification in API responses
type NotificationDTO struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title"`
	Message       string                  `json:"message"`
	Type          models.NotificationType `json:"type"`
	RelatedTaskID string                  `json:"related_task_id"`
	IsRead        bool                    `json:"is_read"`
	Timestamp     time.Time               `json:"timestamp"`
}

// NotificationListResponse represents one page of the inbox
type NotificationListResponse struct {
	Notifications []NotificationDTO        `json:"notifications"`
	Pagination    utils.PaginationResponse `json:"pagination"`
}

// ToNotificationDTO converts a Notification model to NotificationDTO
func ToNotificationDTO(n models.Notification) NotificationDTO {
	return NotificationDTO{
		ID:            n.ID,
		Title:         n.Title,
		Message:       n.Message,
		Type:          n.Type,
		RelatedTaskID: n.RelatedTaskID,
		IsRead:        n.IsRead,
		Timestamp:     n.Timestamp,
	}
}

// ToNotificationListResponse converts one page of notifications
func ToNotificationListResponse(notifications []models.Notification, params utils.PaginationParams, total int) NotificationListResponse {
	items := make([]NotificationDTO, len(notifications))
	for i, n := range notifications {
		items[i] = ToNotificationDTO(n)
	}
	return NotificationListResponse{
		Notifications: items,
		Pagination:    params.Response(total),
	}
}
