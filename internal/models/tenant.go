package models

import "time"

// Tenant is the root of isolation. Every other entity carries its id.
type Tenant struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Industry  string    `gorm:"type:varchar(255)" json:"industry"`
	CreatedAt time.Time `json:"created_at"`
}
