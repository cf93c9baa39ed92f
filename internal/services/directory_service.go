package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yukikurage/crewdesk-api/internal/access"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/hierarchy"
	"github.com/yukikurage/crewdesk-api/internal/logger"
	"github.com/yukikurage/crewdesk-api/internal/metrics"
	"github.com/yukikurage/crewdesk-api/internal/models"
	"github.com/yukikurage/crewdesk-api/internal/store"
	"go.uber.org/zap"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrTeammateNotFound   = errors.New("teammate not found")
	ErrInvalidManager     = errors.New("manager must be an existing manager or admin")
	ErrInvalidOnboardRole = errors.New("only teammates and managers can be onboarded")
)

// DirectoryService manages the staff directory of a tenant.
type DirectoryService struct {
	store           *store.Store
	newID           clock.IDFunc
	defaultPassword string
}

// NewDirectoryService creates a new DirectoryService. Imported users receive
// defaultPassword.
func NewDirectoryService(s *store.Store, newID clock.IDFunc, defaultPassword string) *DirectoryService {
	if newID == nil {
		newID = clock.NewID
	}
	return &DirectoryService{
		store:           s,
		newID:           newID,
		defaultPassword: defaultPassword,
	}
}

// ListTeammates returns the teammates the actor may see.
func (s *DirectoryService) ListTeammates(ctx context.Context, actor Actor) ([]models.Teammate, error) {
	var teammates []models.Teammate
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		teammates = access.VisibleTeammates(*user, ws.Teammates)
		return nil
	})
	return teammates, err
}

// ListAssignees returns the active teammates the actor may assign tasks to.
func (s *DirectoryService) ListAssignees(ctx context.Context, actor Actor) ([]models.Teammate, error) {
	var teammates []models.Teammate
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		teammates = access.AvailableAssignees(*user, ws.Teammates)
		return nil
	})
	return teammates, err
}

// OnboardInput represents a new staff member.
type OnboardInput struct {
	Name       string
	Username   string
	Password   string
	Email      string
	Contact    string
	JobProfile string
	Skills     string
	Role       string
	ManagerID  *string
}

// Onboard creates a user and its teammate record under one shared id. Admins
// may onboard managers and teammates reporting to anyone who can manage;
// managers may onboard teammates, who then report to them.
func (s *DirectoryService) Onboard(ctx context.Context, actor Actor, input OnboardInput) (*models.Teammate, error) {
	name := strings.TrimSpace(input.Name)
	username := strings.TrimSpace(input.Username)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	case username == "":
		return nil, fmt.Errorf("%w: username", ErrMissingField)
	case input.Password == "":
		return nil, fmt.Errorf("%w: password", ErrMissingField)
	}

	role := models.ParseRole(input.Role)
	if role == models.RoleAdmin {
		return nil, ErrInvalidOnboardRole
	}

	var teammate models.Teammate
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}

		managerID := input.ManagerID
		switch user.Role.Normalize() {
		case models.RoleAdmin:
		case models.RoleManager:
			if role != models.RoleTeammate {
				return ErrForbidden
			}
			managerID = &user.ID
		case models.RoleTeammate:
			return ErrForbidden
		}

		if managerID != nil {
			manager := ws.UserByID(*managerID)
			if manager == nil || !manager.Role.CanManage() {
				return ErrInvalidManager
			}
			id := manager.ID
			managerID = &id
		}

		if ws.UsernameTaken(username) {
			return ErrUsernameTaken
		}

		id := s.newID()
		teammate = models.Teammate{
			ID:         id,
			TenantID:   ws.Tenant.ID,
			Name:       name,
			JobProfile: strings.TrimSpace(input.JobProfile),
			Contact:    strings.TrimSpace(input.Contact),
			Email:      strings.TrimSpace(input.Email),
			Username:   username,
			Skills:     strings.TrimSpace(input.Skills),
			IsActive:   true,
			ManagerID:  managerID,
		}
		teammateID := id
		ws.Users = append(ws.Users, models.User{
			ID:         id,
			TenantID:   ws.Tenant.ID,
			Username:   username,
			Password:   input.Password,
			Name:       name,
			Role:       role,
			TeammateID: &teammateID,
			IsActive:   true,
			JobProfile: teammate.JobProfile,
		})
		ws.Teammates = append(ws.Teammates, teammate)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Teammate onboarded",
		zap.String("tenant_id", actor.TenantID),
		zap.String("teammate_id", teammate.ID),
		zap.String("role", string(role)),
	)
	return &teammate, nil
}

// UpdateProfileInput holds the editable profile fields. Nil fields are kept.
type UpdateProfileInput struct {
	Name       *string
	Email      *string
	Contact    *string
	JobProfile *string
	Skills     *string
}

// UpdateProfile edits a teammate and keeps the linked user's name and job
// profile in sync. Admins may edit anyone, managers their direct reports, and
// everybody their own record.
func (s *DirectoryService) UpdateProfile(ctx context.Context, actor Actor, teammateID string, input UpdateProfileInput) (*models.Teammate, error) {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}

	var updated models.Teammate
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		teammate := ws.TeammateByID(teammateID)
		if teammate == nil {
			return ErrTeammateNotFound
		}
		if !canEditTeammate(*user, *teammate) {
			return ErrForbidden
		}

		if input.Name != nil {
			teammate.Name = strings.TrimSpace(*input.Name)
		}
		if input.Email != nil {
			teammate.Email = strings.TrimSpace(*input.Email)
		}
		if input.Contact != nil {
			teammate.Contact = strings.TrimSpace(*input.Contact)
		}
		if input.JobProfile != nil {
			teammate.JobProfile = strings.TrimSpace(*input.JobProfile)
		}
		if input.Skills != nil {
			teammate.Skills = strings.TrimSpace(*input.Skills)
		}

		if linked := ws.UserByTeammateID(teammate.ID); linked != nil {
			linked.Name = teammate.Name
			linked.JobProfile = teammate.JobProfile
		}
		updated = *teammate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetActive activates or deactivates a teammate together with its user.
// Only admins may do this.
func (s *DirectoryService) SetActive(ctx context.Context, actor Actor, teammateID string, active bool) (*models.Teammate, error) {
	var updated models.Teammate
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		if user.Role.Normalize() != models.RoleAdmin {
			return ErrForbidden
		}
		teammate := ws.TeammateByID(teammateID)
		if teammate == nil {
			return ErrTeammateNotFound
		}

		teammate.IsActive = active
		if linked := ws.UserByTeammateID(teammate.ID); linked != nil {
			linked.IsActive = active
		}
		updated = *teammate
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Teammate activation changed",
		zap.String("teammate_id", teammateID),
		zap.Bool("active", active),
	)
	return &updated, nil
}

// Import bulk-loads the directory from CSV. The whole file is applied in one
// write: a structural error leaves the tenant unchanged.
func (s *DirectoryService) Import(ctx context.Context, actor Actor, r io.Reader) (*hierarchy.Result, error) {
	var result hierarchy.Result
	err := s.store.Write(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		if user.Role.Normalize() != models.RoleAdmin {
			return ErrForbidden
		}

		result, err = hierarchy.Import(ws, r, hierarchy.Options{
			DefaultPassword: s.defaultPassword,
			NewID:           s.newID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.ImportRows.WithLabelValues("imported").Add(float64(len(result.Imported)))
	metrics.ImportRows.WithLabelValues("skipped").Add(float64(len(result.Skipped)))
	metrics.ImportRows.WithLabelValues("unresolved_manager").Add(float64(len(result.UnresolvedManagers)))

	logger.FromContext(ctx).Info("Directory imported",
		zap.String("tenant_id", actor.TenantID),
		zap.Int("imported", len(result.Imported)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("managers_linked", result.ManagersLinked),
		zap.Int("unresolved_managers", len(result.UnresolvedManagers)),
	)
	return &result, nil
}

// Export renders the directory as CSV. Only admins may export.
func (s *DirectoryService) Export(ctx context.Context, actor Actor) ([]byte, error) {
	var buf bytes.Buffer
	err := s.store.Read(ctx, actor.TenantID, func(ws *store.Workspace) error {
		user, err := actorIn(ws, actor)
		if err != nil {
			return err
		}
		if user.Role.Normalize() != models.RoleAdmin {
			return ErrForbidden
		}
		return hierarchy.Export(ws, &buf)
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func canEditTeammate(user models.User, teammate models.Teammate) bool {
	if user.IsTeammateOf(teammate.ID) {
		return true
	}
	switch user.Role.Normalize() {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		return teammate.ReportsTo(user.ID)
	default:
		return false
	}
}
