// Package store abstracts ticket, user, inventory and audit persistence so the backing
// implementation (Postgres/SQLite via GORM, or in-process memory) is
// swappable and testable in isolation.
package store

import (
	"context"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
)

// Filter narrows List results. Zero values mean "no filter"; the
// "Todos"/"Todas" sentinels are resolved by the service before reaching here.
type Filter struct {
	Status   model.TicketStatus
	Priority model.Priority

	// Ascending orders by created_at ASC (queue order) instead of the
	// default DESC (most recent first). Ties break on insertion id.
	Ascending bool
}

type TicketStore interface {
	// Create persists a new ticket. Returns errs.ErrDuplicateCode when the
	// public code is already taken.
	Create(ctx context.Context, t *model.Ticket) error

	// GetByCode looks a ticket up by its public code, notes included.
	// Exact match; callers normalize case beforehand.
	GetByCode(ctx context.Context, code string) (*model.Ticket, error)

	List(ctx context.Context, f Filter) ([]model.Ticket, error)

	// UpdateStatus is the sole mutation path: sets the status, bumps
	// updated_at and, when note is non-empty, appends one observation
	// carrying the new status. Atomic within the backing store.
	UpdateStatus(ctx context.Context, code string, status model.TicketStatus, note string) (*model.Ticket, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

type ProductStore interface {
	// UpsertProduct registers a product or, when the name already exists,
	// adds quantity to it (and replaces the description when non-empty).
	UpsertProduct(ctx context.Context, name, description string, quantity int) (*model.Product, error)

	// DecrementProduct takes quantity units out of stock. Returns
	// errs.ErrProductNotFound or errs.ErrInsufficientStock; the stored
	// quantity never goes negative.
	DecrementProduct(ctx context.Context, name string, quantity int) (*model.Product, error)

	// ListProducts returns the inventory ordered by name.
	ListProducts(ctx context.Context) ([]model.Product, error)
}

type AuditStore interface {
	AppendAuditLog(ctx context.Context, entry *model.AuditLog) error

	// ListAuditLogs returns entries newest first.
	ListAuditLogs(ctx context.Context) ([]model.AuditLog, error)
}

// Store is what the service layer gets injected with.
type Store interface {
	TicketStore
	UserStore
	ProductStore
	AuditStore
}
