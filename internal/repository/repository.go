package repository

import (
	"context"

	"github.com/yukikurage/crewdesk-api/internal/store"
)

// WorkspaceRepository defines the interface for tenant workspace persistence.
// Implementations back the in-memory store.
type WorkspaceRepository interface {
	// LoadWorkspace reads every collection of a tenant, returning
	// store.ErrTenantNotFound for unknown tenants
	LoadWorkspace(ctx context.Context, tenantID string) (*store.Workspace, error)

	// SaveWorkspace replaces the persisted collections of a tenant in one transaction
	SaveWorkspace(ctx context.Context, ws *store.Workspace) error

	// ListTenantIDs lists the ids of every persisted tenant
	ListTenantIDs(ctx context.Context) ([]string, error)
}

var _ store.Backend = (WorkspaceRepository)(nil)
