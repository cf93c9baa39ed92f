package models

import "strings"

type User struct {
	ID         string  `gorm:"primarykey;type:varchar(36)" json:"id"`
	TenantID   string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_users_tenant_username" json:"tenant_id"`
	Username   string  `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_tenant_username" json:"username"`
	Password   string  `gorm:"type:varchar(255);not null" json:"-"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	Role       Role    `gorm:"type:varchar(20);not null" json:"role"`
	TeammateID *string `gorm:"type:varchar(36)" json:"teammate_id,omitempty"`
	IsActive   bool    `gorm:"not null" json:"is_active"`
	JobProfile string  `gorm:"type:varchar(255)" json:"job_profile"`
	Position   int     `gorm:"not null" json:"-"`
}

// HasUsername compares usernames the way the workspace does: case-insensitively.
func (u User) HasUsername(username string) bool {
	return strings.EqualFold(u.Username, strings.TrimSpace(username))
}

// IsTeammateOf reports whether the user's linked teammate record is teammateID.
func (u User) IsTeammateOf(teammateID string) bool {
	return u.TeammateID != nil && *u.TeammateID == teammateID
}
