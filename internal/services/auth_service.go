package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/constants"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrPasswordTooShort   = errors.New("password too short")
)

// AuthService handles registration and sign-in.
type AuthService struct {
	store *store.Store
	clock clock.Clock
	newID clock.IDFunc
}

// NewAuthService creates a new AuthService.
func NewAuthService(s *store.Store, c clock.Clock, newID clock.IDFunc) *AuthService {
	if c == nil {
		c = clock.System
	}
	if newID == nil {
		newID = clock.NewID
	}
	return &AuthService{
		store: s,
		clock: c,
		newID: newID,
	}
}

// RegisterInput represents the information needed to open a workspace.
type RegisterInput struct {
	TenantName string
	Industry   string
	Name       string
	Username   string
	Password   string
}

// Register creates a tenant together with its admin user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, *models.Tenant, error) {
	tenantName := strings.TrimSpace(input.TenantName)
	name := strings.TrimSpace(input.Name)
	username := strings.TrimSpace(input.Username)

	switch {
	case tenantName == "":
		return nil, nil, fmt.Errorf("%w: tenant_name", ErrMissingField)
	case name == "":
		return nil, nil, fmt.Errorf("%w: name", ErrMissingField)
	case username == "":
		return nil, nil, fmt.Errorf("%w: username", ErrMissingField)
	case len(input.Password) < constants.MinPasswordLength:
		return nil, nil, ErrPasswordTooShort
	}

	tenant := models.Tenant{
		ID:        s.newID(),
		Name:      tenantName,
		Industry:  strings.TrimSpace(input.Industry),
		CreatedAt: s.clock.Now(),
	}
	admin := models.User{
		ID:       s.newID(),
		TenantID: tenant.ID,
		Username: username,
		Password: input.Password,
		Name:     name,
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	ws := &store.Workspace{
		Tenant: tenant,
		Users:  []models.User{admin},
	}
	if err := s.store.Create(ctx, ws); err != nil {
		return nil, nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	logger.FromContext(ctx).Info("Tenant registered",
		zap.String("tenant_id", tenant.ID),
		zap.String("admin_id", admin.ID),
	)
	return &admin, &tenant, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	TenantID string
	Username string
	Password string
}

// Login verifies credentials within a tenant. Unknown usernames and wrong
// passwords are indistinguishable; a disabled account is only reported once
// the password matched.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	var user models.User
	err := s.store.Read(ctx, input.TenantID, func(ws *store.Workspace) error {
		found := ws.UserByUsername(input.Username)
		if found == nil || !passwordMatches(found.Password, input.Password) {
			return ErrInvalidCredentials
		}
		if !found.IsActive {
			return ErrAccountDisabled
		}
		user = *found
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetUser returns the actor's user record and tenant.
func (s *AuthService) GetUser(ctx context.Context, actor Actor) (*models.User, *models.Tenant, error) {
	var (
		user   models.User
		tenant models.Tenant
	)
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		found, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		user = *found
		tenant = ws.Tenant
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &user, &tenant, nil
}

func passwordMatches(stored, given string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
