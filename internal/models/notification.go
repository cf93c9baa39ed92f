package models

import "time"

type NotificationType string

const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskCompleted NotificationType = "task_completed"
	NotificationCommentAdded  NotificationType = "comment_added"
)

// Notification is an alert about task activity addressed to one user.
type Notification struct {
	ID            string           `gorm:"primarykey;type:varchar(36)" json:"id"`
	TenantID      string           `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	UserID        string           `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Title         string           `gorm:"type:varchar(255);not null" json:"title"`
	Message       string           `gorm:"type:text" json:"message"`
	Type          NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	RelatedTaskID string           `gorm:"type:varchar(36)" json:"related_task_id"`
	IsRead        bool             `gorm:"not null" json:"is_read"`
	Timestamp     time.Time        `json:"timestamp"`
	Position      int              `gorm:"not null" json:"-"`
}
