package models

// TaskStep is one checklist item. Position keeps the creation order when the
// steps are persisted.
type TaskStep struct {
	ID          string `gorm:"primarykey;type:varchar(36)" json:"id"`
	TaskID      string `gorm:"type:varchar(36);not null;index" json:"-"`
	Position    int    `gorm:"not null" json:"-"`
	Text        string `gorm:"type:text;not null" json:"text"`
	IsCompleted bool   `gorm:"not null" json:"is_completed"`
}
