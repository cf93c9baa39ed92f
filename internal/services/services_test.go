package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crewdesk-api/internal/clock"
	"github.com/yukikurage/crewdesk-api/internal/store"
)

type fakeDistiller struct {
	result Distillation
	err    error
	calls  int
	raw    string
}

func (f *fakeDistiller) Distill(_ context.Context, raw string) (Distillation, error) {
	f.calls++
	f.raw = raw
	if f.err != nil {
		return Distillation{}, f.err
	}
	return f.result, nil
}

// servicesTestEnv is a registered tenant with a small hierarchy:
// admin <- mia (manager) <- tom (teammate), and ann (teammate) reporting to the admin.
type servicesTestEnv struct {
	store         *store.Store
	clock         *clock.Fixed
	distiller     *fakeDistiller
	auth          *AuthService
	directory     *DirectoryService
	tasks         *TaskService
	notifications *NotificationService

	tenantID string
	admin    Actor
	mia      Actor
	tom      Actor
	ann      Actor
}

func setupServicesTestEnv(t *testing.T) *servicesTestEnv {
	t.Helper()
	ctx := context.Background()

	s := store.New(nil)
	c := clock.NewFixed(time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC))
	newID := clock.Sequence("id")
	distiller := &fakeDistiller{result: Distillation{SuggestedTitle: "Restock", Steps: []string{"count", "order"}}}

	env := &servicesTestEnv{
		store:         s,
		clock:         c,
		distiller:     distiller,
		auth:          NewAuthService(s, c, newID),
		directory:     NewDirectoryService(s, newID, "changeme"),
		tasks:         NewTaskService(s, distiller, c, newID, time.Second),
		notifications: NewNotificationService(s),
	}

	admin, tenant, err := env.auth.Register(ctx, RegisterInput{
		TenantName: "Acme",
		Industry:   "Retail",
		Name:       "Olivia Owner",
		Username:   "owner",
		Password:   "secret",
	})
	require.NoError(t, err)
	env.tenantID = tenant.ID
	env.admin = Actor{TenantID: tenant.ID, UserID: admin.ID}

	adminID := admin.ID
	mia, err := env.directory.Onboard(ctx, env.admin, OnboardInput{
		Name: "Mia", Username: "mia", Password: "pw", Role: "manager", ManagerID: &adminID,
	})
	require.NoError(t, err)
	env.mia = Actor{TenantID: tenant.ID, UserID: mia.ID}

	tom, err := env.directory.Onboard(ctx, env.mia, OnboardInput{
		Name: "Tom", Username: "tom", Password: "pw",
	})
	require.NoError(t, err)
	env.tom = Actor{TenantID: tenant.ID, UserID: tom.ID}

	ann, err := env.directory.Onboard(ctx, env.admin, OnboardInput{
		Name: "Ann", Username: "ann", Password: "pw", ManagerID: &adminID,
	})
	require.NoError(t, err)
	env.ann = Actor{TenantID: tenant.ID, UserID: ann.ID}

	return env
}

func (env *servicesTestEnv) workspace(t *testing.T) *store.Workspace {
	t.Helper()
	var snapshot *store.Workspace
	err := env.store.Read(context.Background(), env.tenantID, func(ws *store.Workspace) error {
		snapshot = ws.Clone()
		return nil
	})
	require.NoError(t, err)
	return snapshot
}

var errBoom = errors.New("boom")
