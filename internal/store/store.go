// Package store holds the per-tenant object graph the engine operates on and
// serializes writes per tenant.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantExists   = errors.New("tenant already exists")
)

// Backend persists whole workspaces. LoadWorkspace returns ErrTenantNotFound
// for unknown tenants; SaveWorkspace replaces every collection of the tenant
// atomically.
type Backend interface {
	LoadWorkspace(ctx context.Context, tenantID string) (*Workspace, error)
	SaveWorkspace(ctx context.Context, ws *Workspace) error
}

type tenantSlot struct {
	mu sync.RWMutex
	ws *Workspace
}

// Store caches workspaces and makes every Write atomic: the callback works on
// a clone that only replaces the cached workspace once the backend accepted it.
// Tenants share no state, so operations on different tenants never contend
// beyond the brief slot lookup.
type Store struct {
	backend Backend

	mu      sync.Mutex
	tenants map[string]*tenantSlot
}

// New creates a Store. A nil backend keeps everything in memory.
func New(backend Backend) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	return &Store{
		backend: backend,
		tenants: make(map[string]*tenantSlot),
	}
}

// Create registers a brand new tenant workspace.
func (s *Store) Create(ctx context.Context, ws *Workspace) error {
	tenantID := ws.Tenant.ID

	s.mu.Lock()
	if _, exists := s.tenants[tenantID]; exists {
		s.mu.Unlock()
		return ErrTenantExists
	}
	slot := &tenantSlot{}
	slot.mu.Lock()
	s.tenants[tenantID] = slot
	s.mu.Unlock()
	defer slot.mu.Unlock()

	if _, err := s.backend.LoadWorkspace(ctx, tenantID); err == nil {
		s.forget(tenantID, slot)
		return ErrTenantExists
	} else if !errors.Is(err, ErrTenantNotFound) {
		s.forget(tenantID, slot)
		return fmt.Errorf("failed to check tenant: %w", err)
	}

	draft := ws.Clone()
	if err := s.backend.SaveWorkspace(ctx, draft); err != nil {
		s.forget(tenantID, slot)
		return fmt.Errorf("failed to save tenant: %w", err)
	}
	slot.ws = draft
	return nil
}

// Read runs fn under the tenant's shared lock. fn must not modify ws.
func (s *Store) Read(ctx context.Context, tenantID string, fn func(ws *Workspace) error) error {
	slot, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}

	slot.mu.RLock()
	defer slot.mu.RUnlock()
	return fn(slot.ws)
}

// Write runs fn on a private copy of the workspace under the tenant's
// exclusive lock. If fn or the backend fails nothing is committed.
func (s *Store) Write(ctx context.Context, tenantID string, fn func(ws *Workspace) error) error {
	slot, err := s.load(ctx, tenantID)
	if err != nil {
		return err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	draft := slot.ws.Clone()
	if err := fn(draft); err != nil {
		return err
	}
	if err := s.backend.SaveWorkspace(ctx, draft); err != nil {
		return fmt.Errorf("failed to save workspace: %w", err)
	}
	slot.ws = draft
	return nil
}

func (s *Store) load(ctx context.Context, tenantID string) (*tenantSlot, error) {
	for {
		slot := s.slotFor(tenantID)

		slot.mu.RLock()
		loaded := slot.ws != nil
		slot.mu.RUnlock()
		if loaded {
			return slot, nil
		}

		slot.mu.Lock()
		if !s.isCurrent(tenantID, slot) {
			// Dropped after a failed load; start over with the live slot.
			slot.mu.Unlock()
			continue
		}
		if slot.ws != nil {
			slot.mu.Unlock()
			return slot, nil
		}

		ws, err := s.backend.LoadWorkspace(ctx, tenantID)
		if err != nil {
			s.forget(tenantID, slot)
			slot.mu.Unlock()
			if errors.Is(err, ErrTenantNotFound) {
				return nil, ErrTenantNotFound
			}
			return nil, fmt.Errorf("failed to load workspace: %w", err)
		}
		slot.ws = ws
		slot.mu.Unlock()
		return slot, nil
	}
}

func (s *Store) slotFor(tenantID string) *tenantSlot {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.tenants[tenantID]
	if !ok {
		slot = &tenantSlot{}
		s.tenants[tenantID] = slot
	}
	return slot
}

func (s *Store) isCurrent(tenantID string, slot *tenantSlot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tenants[tenantID] == slot
}

// forget drops an empty slot so unknown tenant ids do not accumulate.
func (s *Store) forget(tenantID string, slot *tenantSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tenants[tenantID] == slot {
		delete(s.tenants, tenantID)
	}
}
