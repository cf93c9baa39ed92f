package models

import "time"

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

type TaskPriority string

const (
	TaskPriorityHigh     TaskPriority = "high"
	TaskPriorityModerate TaskPriority = "moderate"
	TaskPriorityLow      TaskPriority = "low"
)

// ParsePriority returns the matching priority, defaulting to moderate.
func ParsePriority(value string) TaskPriority {
	switch TaskPriority(value) {
	case TaskPriorityHigh, TaskPriorityLow:
		return TaskPriority(value)
	default:
		return TaskPriorityModerate
	}
}

type Task struct {
	ID          string       `gorm:"primarykey;type:varchar(36)" json:"id"`
	TenantID    string       `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Title       string       `gorm:"type:varchar(255);not null" json:"title"`
	RawInput    string       `gorm:"type:text" json:"raw_input"`
	AssigneeID  *string      `gorm:"type:varchar(36);index" json:"assignee_id"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'moderate'" json:"priority"`
	DueDate     *time.Time   `json:"due_date"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
	Position    int          `gorm:"not null" json:"-"`

	// Relations
	Steps    []TaskStep `gorm:"foreignKey:TaskID" json:"steps"`
	Comments []Comment  `gorm:"foreignKey:TaskID" json:"comments"`
}

// IsAssignedTo reports whether teammateID is the task's assignee.
func (t Task) IsAssignedTo(teammateID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == teammateID
}
