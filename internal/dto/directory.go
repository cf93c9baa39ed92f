package dto

import (
	"time"

	"github.com/yukikurage/crewdesk-api/internal/hierarchy"
	"github.com/yukikurage/crewdesk-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID         string      `json:"id"`
	Username   string      `json:"username"`
	Name       string      `json:"name"`
	Role       models.Role `json:"role"`
	TeammateID *string     `json:"teammate_id,omitempty"`
	IsActive   bool        `json:"is_active"`
	JobProfile string      `json:"job_profile"`
}

// TenantDTO represents a tenant in API responses
type TenantDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionDTO is returned by register, login and me
type SessionDTO struct {
	User   UserDTO   `json:"user"`
	Tenant TenantDTO `json:"tenant"`
}

// TeammateDTO represents a directory entry in API responses
type TeammateDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Contact    string  `json:"contact"`
	JobProfile string  `json:"job_profile"`
	Skills     string  `json:"skills"`
	IsActive   bool    `json:"is_active"`
	ManagerID  *string `json:"manager_id"`
}

// ImportResultDTO summarizes a directory import
type ImportResultDTO struct {
	Imported           int                           `json:"imported"`
	ManagersLinked     int                           `json:"managers_linked"`
	Skipped            []hierarchy.SkippedRow        `json:"skipped"`
	UnresolvedManagers []hierarchy.UnresolvedManager `json:"unresolved_managers"`
}

// Conversion functions

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:         user.ID,
		Username:   user.Username,
		Name:       user.Name,
		Role:       user.Role.Normalize(),
		TeammateID: user.TeammateID,
		IsActive:   user.IsActive,
		JobProfile: user.JobProfile,
	}
}

// ToTenantDTO converts a Tenant model to TenantDTO
func ToTenantDTO(tenant models.Tenant) TenantDTO {
	return TenantDTO{
		ID:        tenant.ID,
		Name:      tenant.Name,
		Industry:  tenant.Industry,
		CreatedAt: tenant.CreatedAt,
	}
}

// ToSessionDTO combines the signed-in user with its tenant
func ToSessionDTO(user models.User, tenant models.Tenant) SessionDTO {
	return SessionDTO{
		User:   ToUserDTO(user),
		Tenant: ToTenantDTO(tenant),
	}
}

// ToTeammateDTO converts a Teammate model to TeammateDTO
func ToTeammateDTO(teammate models.Teammate) TeammateDTO {
	return TeammateDTO{
		ID:         teammate.ID,
		Name:       teammate.Name,
		Username:   teammate.Username,
		Email:      teammate.Email,
		Contact:    teammate.Contact,
		JobProfile: teammate.JobProfile,
		Skills:     teammate.Skills,
		IsActive:   teammate.IsActive,
		ManagerID:  teammate.ManagerID,
	}
}

// ToTeammateDTOs converts a slice of teammates
func ToTeammateDTOs(teammates []models.Teammate) []TeammateDTO {
	items := make([]TeammateDTO, len(teammates))
	for i, teammate := range teammates {
		items[i] = ToTeammateDTO(teammate)
	}
	return items
}

// ToImportResultDTO converts an import result
func ToImportResultDTO(result hierarchy.Result) ImportResultDTO {
	return ImportResultDTO{
		Imported:           len(result.Imported),
		ManagersLinked:     result.ManagersLinked,
		Skipped:            result.Skipped,
		UnresolvedManagers: result.UnresolvedManagers,
	}
}
