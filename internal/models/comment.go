package models

import "time"

// Comment is append-only; it is never edited or removed.
type Comment struct {
	ID         string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	TaskID     string    `gorm:"type:varchar(36);not null;index" json:"-"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	AuthorName string    `gorm:"type:varchar(255)" json:"author_name"`
	AuthorRole Role      `gorm:"type:varchar(20)" json:"author_role"`
	Timestamp  time.Time `json:"timestamp"`
	Position   int       `gorm:"not null" json:"-"`
}
