package store_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGormStore(t *testing.T) *store.GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Ticket{}, &model.TicketNote{}, &model.User{}, &model.Product{}, &model.AuditLog{}))
	return store.NewGormStore(db)
}

func newUser(username string, email *string) *model.User {
	return &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: "x",
		Email:        email,
		Role:         "user",
	}
}

func TestGormCreateUserWithoutEmail(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	// Two users without an email must not trip the unique email index.
	require.NoError(t, s.CreateUser(ctx, newUser("primeiro", nil)))
	require.NoError(t, s.CreateUser(ctx, newUser("segundo", nil)))

	first, err := s.GetUserByUsername(ctx, "primeiro")
	require.NoError(t, err)
	assert.Nil(t, first.Email)
}

func TestGormDuplicateUser(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	email := "ana@example.com"
	require.NoError(t, s.CreateUser(ctx, newUser("ana", &email)))

	err := s.CreateUser(ctx, newUser("ana", nil))
	assert.ErrorIs(t, err, errs.ErrDuplicateUser)

	err = s.CreateUser(ctx, newUser("outra", &email))
	assert.ErrorIs(t, err, errs.ErrDuplicateUser)
}

func TestGormProducts(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	p, err := s.UpsertProduct(ctx, "Mouse sem fio", "Logitech", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Quantity)

	p, err = s.UpsertProduct(ctx, "Mouse sem fio", "", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Quantity)
	assert.Equal(t, "Logitech", p.Description)

	p, err = s.DecrementProduct(ctx, "Mouse sem fio", 4)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Quantity)

	_, err = s.DecrementProduct(ctx, "Mouse sem fio", 2)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)

	_, err = s.DecrementProduct(ctx, "Webcam", 1)
	assert.ErrorIs(t, err, errs.ErrProductNotFound)

	items, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestGormDuplicateTicketCode(t *testing.T) {
	s := newGormStore(t)
	ctx := context.Background()

	mk := func() *model.Ticket {
		return &model.Ticket{
			Code:           "ABCD1234",
			RequesterName:  "Ana Souza",
			RequesterEmail: "ana@example.com",
			SquadLeader:    "Bruno Lima",
			Devices:        "Mouse",
			Description:    "mouse sem clique",
			Priority:       model.PriorityNormal,
			Status:         model.StatusPending,
		}
	}
	require.NoError(t, s.Create(ctx, mk()))
	assert.ErrorIs(t, s.Create(ctx, mk()), errs.ErrDuplicateCode)
}
