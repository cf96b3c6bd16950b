package service

import (
	"context"
	"testing"

	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/security"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newAuthService(t *testing.T) (*AuthService, *store.MemoryStore) {
	t.Helper()
	keys, err := security.NewKeyManager(testSecret)
	require.NoError(t, err)
	st := store.NewMemoryStore()
	return NewAuthService(keys, st, zap.NewNop()), st
}

func TestAuth_LoginAndValidate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	u, err := svc.CreateUser(ctx, "maria", "s3nh4-forte", "maria@example.com", model.RoleAdmin)
	require.NoError(t, err)
	assert.NotEqual(t, "s3nh4-forte", u.PasswordHash, "password must be stored hashed")

	token, err := svc.Login(ctx, "maria", "s3nh4-forte")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, svc.IsAdmin(got))
}

func TestAuth_LoginFailures(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "maria", "s3nh4-forte", "", "user")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "maria", "senha-errada")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "desconhecida", "qualquer")
	assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
}

func TestAuth_ValidateRejectsGarbage(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestAuth_CreateUserDuplicate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "maria", "x1", "", "user")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "maria", "x2", "", "user")
	assert.ErrorIs(t, err, errs.ErrDuplicateUser)
}

func TestAuth_IsAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	assert.False(t, svc.IsAdmin(nil))
	assert.False(t, svc.IsAdmin(&model.User{Role: "user"}))
	assert.True(t, svc.IsAdmin(&model.User{Role: model.RoleAdmin}))
}
