package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
)

// MemoryStore keeps everything in process memory behind a mutex. Used by the
// test suite and by STORE_DRIVER=memory runs, where nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	tickets  []model.Ticket
	users    map[string]model.User // keyed by username
	products []model.Product
	logs     []model.AuditLog
	nextID   uint64
	nextObs  uint64
	nextProd uint64
	nextLog  uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]model.User)}
}

func (s *MemoryStore) Create(_ context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].Code == t.Code {
			return errs.ErrDuplicateCode
		}
	}
	s.nextID++
	t.ID = s.nextID
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	s.tickets = append(s.tickets, cloneTicket(*t))
	return nil
}

func (s *MemoryStore) GetByCode(_ context.Context, code string) (*model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.tickets {
		if s.tickets[i].Code == code {
			t := cloneTicket(s.tickets[i])
			return &t, nil
		}
	}
	return nil, errs.ErrTicketNotFound
}

func (s *MemoryStore) List(_ context.Context, f Filter) ([]model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Ticket, 0, len(s.tickets))
	for i := range s.tickets {
		t := s.tickets[i]
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		out = append(out, cloneTicket(t))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			if f.Ascending {
				return out[i].ID < out[j].ID
			}
			return out[i].ID > out[j].ID
		}
		if f.Ascending {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, code string, status model.TicketStatus, note string) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tickets {
		if s.tickets[i].Code != code {
			continue
		}
		now := time.Now().UTC()
		s.tickets[i].Status = status
		s.tickets[i].UpdatedAt = now
		if note != "" {
			s.nextObs++
			s.tickets[i].Notes = append(s.tickets[i].Notes, model.TicketNote{
				ID:        s.nextObs,
				TicketID:  s.tickets[i].ID,
				Text:      note,
				Status:    status,
				CreatedAt: now,
			})
		}
		t := cloneTicket(s.tickets[i])
		return &t, nil
	}
	return nil, errs.ErrTicketNotFound
}

func (s *MemoryStore) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.Username]; ok {
		return errs.ErrDuplicateUser
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt
	s.users[u.Username] = *u
	return nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[username]; ok {
		out := u
		return &out, nil
	}
	return nil, errs.ErrUserNotFound
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			out := u
			return &out, nil
		}
	}
	return nil, errs.ErrUserNotFound
}

func (s *MemoryStore) UpsertProduct(_ context.Context, name, description string, quantity int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].Name != name {
			continue
		}
		s.products[i].Quantity += quantity
		if description != "" {
			s.products[i].Description = description
		}
		p := s.products[i]
		return &p, nil
	}
	s.nextProd++
	p := model.Product{
		ID:          s.nextProd,
		Name:        name,
		Description: description,
		Quantity:    quantity,
		CreatedAt:   time.Now().UTC(),
	}
	s.products = append(s.products, p)
	return &p, nil
}

func (s *MemoryStore) DecrementProduct(_ context.Context, name string, quantity int) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].Name != name {
			continue
		}
		if s.products[i].Quantity < quantity {
			return nil, errs.ErrInsufficientStock
		}
		s.products[i].Quantity -= quantity
		p := s.products[i]
		return &p, nil
	}
	return nil, errs.ErrProductNotFound
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]model.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) AppendAuditLog(_ context.Context, entry *model.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextLog++
	entry.ID = s.nextLog
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.logs = append(s.logs, *entry)
	return nil
}

func (s *MemoryStore) ListAuditLogs(_ context.Context) ([]model.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.AuditLog, len(s.logs))
	// Appended in order, so reversing yields newest first.
	for i := range s.logs {
		out[len(s.logs)-1-i] = s.logs[i]
	}
	return out, nil
}

func cloneTicket(t model.Ticket) model.Ticket {
	notes := make([]model.TicketNote, len(t.Notes))
	copy(notes, t.Notes)
	t.Notes = notes
	return t
}
