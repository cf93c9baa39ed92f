package models

// Teammate is the staff directory record of a non-admin user. It shares its
// id with the user's TeammateID.
type Teammate struct {
	ID         string  `gorm:"primarykey;type:varchar(36)" json:"id"`
	TenantID   string  `gorm:"type:varchar(36);not null;index" json:"tenant_id"`
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	JobProfile string  `gorm:"type:varchar(255)" json:"job_profile"`
	Contact    string  `gorm:"type:varchar(100)" json:"contact"`
	Email      string  `gorm:"type:varchar(255)" json:"email"`
	Username   string  `gorm:"type:varchar(255);not null" json:"username"`
	Skills     string  `gorm:"type:text" json:"skills"`
	IsActive   bool    `gorm:"not null" json:"is_active"`
	ManagerID  *string `gorm:"type:varchar(36)" json:"manager_id,omitempty"`
	Position   int     `gorm:"not null" json:"-"`
}

// ReportsTo reports whether managerID is the teammate's direct manager.
func (t Teammate) ReportsTo(managerID string) bool {
	return t.ManagerID != nil && *t.ManagerID == managerID
}
