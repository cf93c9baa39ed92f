package models

import "strings"

// Role is the closed set of workspace roles.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleTeammate Role = "teammate"
)

// ParseRole normalizes a free-form role value. Anything that is not a known
// role resolves to RoleTeammate, the most restrictive one.
func ParseRole(value string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleManager:
		return RoleManager
	default:
		return RoleTeammate
	}
}

// Normalize returns r itself when it is a known role and RoleTeammate otherwise.
func (r Role) Normalize() Role {
	return ParseRole(string(r))
}

// CanManage reports whether users with this role may be referenced as a
// teammate's manager.
func (r Role) CanManage() bool {
	switch r.Normalize() {
	case RoleAdmin, RoleManager:
		return true
	default:
		return false
	}
}
