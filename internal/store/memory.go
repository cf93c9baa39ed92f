package store

import (
	"context"
	"sync"
)

// MemoryBackend keeps workspaces in process memory.
type MemoryBackend struct {
	mu         sync.RWMutex
	workspaces map[string]*Workspace
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{workspaces: make(map[string]*Workspace)}
}

func (b *MemoryBackend) LoadWorkspace(_ context.Context, tenantID string) (*Workspace, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ws, ok := b.workspaces[tenantID]
	if !ok {
		return nil, ErrTenantNotFound
	}
	return ws.Clone(), nil
}

func (b *MemoryBackend) SaveWorkspace(_ context.Context, ws *Workspace) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.workspaces[ws.Tenant.ID] = ws.Clone()
	return nil
}
