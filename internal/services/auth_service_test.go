package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/crewdesk-api/internal/models"
)

func TestAuthService_Register(t *testing.T) {
	env := setupServicesTestEnv(t)

	ws := env.workspace(t)
	assert.Equal(t, "Acme", ws.Tenant.Name)
	assert.Equal(t, "Retail", ws.Tenant.Industry)

	admin := ws.Admin()
	require.NotNil(t, admin)
	assert.Equal(t, "owner", admin.Username)
	assert.Nil(t, admin.TeammateID)
	assert.True(t, admin.IsActive)
	assert.Nil(t, ws.TeammateByID(admin.ID))
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	env := setupServicesTestEnv(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Name: "A", Username: "a", Password: "p"},
		{TenantName: "T", Username: "a", Password: "p"},
		{TenantName: "T", Name: "A", Password: "p"},
	}
	for _, input := range cases {
		_, _, err := env.auth.Register(ctx, input)
		assert.ErrorIs(t, err, ErrMissingField)
	}

	_, _, err := env.auth.Register(ctx, RegisterInput{TenantName: "T", Name: "A", Username: "a"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAuthService_Login(t *testing.T) {
	env := setupServicesTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Login(ctx, LoginInput{TenantID: env.tenantID, Username: "OWNER", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, env.admin.UserID, user.ID)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = env.auth.Login(ctx, LoginInput{TenantID: env.tenantID, Username: "owner", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginInput{TenantID: env.tenantID, Username: "ghost", Password: "secret"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, LoginInput{TenantID: "nowhere", Username: "owner", Password: "secret"})
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestAuthService_Login_DisabledAccount(t *testing.T) {
	env := setupServicesTestEnv(t)
	ctx := context.Background()

	_, err := env.directory.SetActive(ctx, env.admin, env.tom.UserID, false)
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, LoginInput{TenantID: env.tenantID, Username: "tom", Password: "pw"})
	assert.ErrorIs(t, err, ErrAccountDisabled)

	// A wrong password still reads as bad credentials
	_, err = env.auth.Login(ctx, LoginInput{TenantID: env.tenantID, Username: "tom", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = env.auth.GetUser(ctx, env.tom)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAuthService_GetUser(t *testing.T) {
	env := setupServicesTestEnv(t)

	user, tenant, err := env.auth.GetUser(context.Background(), env.mia)
	require.NoError(t, err)
	assert.Equal(t, "mia", user.Username)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, env.tenantID, tenant.ID)

	_, _, err = env.auth.GetUser(context.Background(), Actor{TenantID: env.tenantID, UserID: "missing"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
