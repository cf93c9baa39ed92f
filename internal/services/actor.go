package services

import (
	"errors"

	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

var (
	ErrTenantNotFound  = store.ErrTenantNotFound
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountDisabled = errors.New("account is disabled")
	ErrForbidden       = errors.New("not allowed for this role")
	ErrMissingField    = errors.New("required field is missing")
)

// Actor identifies the signed-in user a request is made for.
type Actor struct {
	TenantID string
	UserID   string
}

// actorIn resolves the actor inside its workspace. Deactivated users lose
// access immediately, even with a live session.
func actorIn(ws *store.Workspace, actor Actor) (*models.User, error) {
	user := ws.UserByID(actor.UserID)
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}
