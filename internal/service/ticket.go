package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"go.uber.org/zap"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8

	// createMaxAttempts bounds the retry-on-collision loop for code
	// generation. 36^8 codes make more than a couple of retries unheard of.
	createMaxAttempts = 5
)

// CreateTicketInput carries the intake form fields. Priority is optional:
// when empty it is derived from the selected devices.
type CreateTicketInput struct {
	RequesterName  string
	RequesterEmail string
	SquadLeader    string
	Devices        []string
	Description    string
	Priority       model.Priority
}

// ListFilter carries the admin list filters, still in UI terms: the
// "Todos"/"Todas" sentinels mean "no filter".
type ListFilter struct {
	Status   string
	Priority string
}

// Statistics is the read-only aggregate for the dashboard.
type Statistics struct {
	Total      int64 `json:"total_tickets"`
	Pending    int64 `json:"pendentes"`
	InProgress int64 `json:"em_andamento"`
	Done       int64 `json:"concluidos"`
	// Devices is the requested-device frequency table, most requested first.
	Devices []DeviceCount `json:"dispositivos_mais_solicitados"`
}

type DeviceCount struct {
	Device string `json:"dispositivo"`
	Count  int64  `json:"total"`
}

// TicketService implements the helpdesk core: intake, lookup, triage,
// queue position and statistics, over an injected store.
type TicketService struct {
	store  store.TicketStore
	logger *zap.Logger
	now    func() time.Time
	randFn func(n int) int
}

func NewTicketService(st store.TicketStore, logger *zap.Logger) *TicketService {
	return &TicketService{
		store:  st,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		randFn: rand.Intn,
	}
}

// Create validates the intake form, derives the priority when the requester
// did not choose one, and persists the ticket with a fresh unique code.
func (s *TicketService) Create(ctx context.Context, in CreateTicketInput) (*model.Ticket, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	prio := in.Priority
	if prio == "" {
		prio = model.DerivePriority(in.Devices)
	} else if !model.ValidPriority(prio) {
		return nil, fmt.Errorf("%w: prioridade %q", ErrValidation, in.Priority)
	}

	now := s.now()
	for attempt := 0; attempt < createMaxAttempts; attempt++ {
		t := &model.Ticket{
			Code:           s.newCode(),
			RequesterName:  strings.TrimSpace(in.RequesterName),
			RequesterEmail: strings.TrimSpace(in.RequesterEmail),
			SquadLeader:    strings.TrimSpace(in.SquadLeader),
			Devices:        strings.Join(in.Devices, ", "),
			Description:    strings.TrimSpace(in.Description),
			Priority:       prio,
			Status:         model.StatusPending,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		err := s.store.Create(ctx, t)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, errs.ErrDuplicateCode) {
			return nil, err
		}
		s.logger.Warn("ticket code collision, retrying", zap.String("code", t.Code))
	}
	return nil, fmt.Errorf("create ticket: exhausted %d code attempts", createMaxAttempts)
}

// Get looks up a ticket by public code. Codes are stored uppercase, so the
// lookup is normalized before the exact match.
func (s *TicketService) Get(ctx context.Context, code string) (*model.Ticket, error) {
	return s.store.GetByCode(ctx, normalizeCode(code))
}

// List returns tickets most recent first, honoring the UI filter sentinels.
func (s *TicketService) List(ctx context.Context, f ListFilter) ([]model.Ticket, error) {
	var sf store.Filter
	if f.Status != "" && f.Status != model.FilterAll && f.Status != model.FilterAllFem {
		sf.Status = model.TicketStatus(f.Status)
	}
	if f.Priority != "" && f.Priority != model.FilterAll && f.Priority != model.FilterAllFem {
		sf.Priority = model.Priority(f.Priority)
	}
	return s.store.List(ctx, sf)
}

// UpdateStatus sets a new status and, when note is non-empty, appends one
// observation. Any status is reachable from any other; the 3-state flow has
// no transition rules.
func (s *TicketService) UpdateStatus(ctx context.Context, code string, status model.TicketStatus, note string) (*model.Ticket, error) {
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("%w: status %q", ErrValidation, status)
	}
	return s.store.UpdateStatus(ctx, normalizeCode(code), status, strings.TrimSpace(note))
}

// QueuePosition returns the 1-based rank of a pending ticket among all
// pending tickets in creation order, or 0 when the ticket does not exist or
// is not pending. Recomputed from the store on every call.
func (s *TicketService) QueuePosition(ctx context.Context, code string) (int, error) {
	code = normalizeCode(code)
	pending, err := s.store.List(ctx, store.Filter{Status: model.StatusPending, Ascending: true})
	if err != nil {
		return 0, err
	}
	for i := range pending {
		if pending[i].Code == code {
			return i + 1, nil
		}
	}
	return 0, nil
}

// Statistics recomputes the dashboard aggregate from the full ticket list.
func (s *TicketService) Statistics(ctx context.Context) (*Statistics, error) {
	tickets, err := s.store.List(ctx, store.Filter{})
	if err != nil {
		return nil, err
	}
	stats := &Statistics{Total: int64(len(tickets)), Devices: []DeviceCount{}}
	counts := make(map[string]int64)
	for i := range tickets {
		switch tickets[i].Status {
		case model.StatusPending:
			stats.Pending++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusDone:
			stats.Done++
		}
		for _, d := range tickets[i].DeviceList() {
			counts[d]++
		}
	}
	for d, n := range counts {
		stats.Devices = append(stats.Devices, DeviceCount{Device: d, Count: n})
	}
	sort.Slice(stats.Devices, func(i, j int) bool {
		if stats.Devices[i].Count == stats.Devices[j].Count {
			return stats.Devices[i].Device < stats.Devices[j].Device
		}
		return stats.Devices[i].Count > stats.Devices[j].Count
	})
	return stats, nil
}

// ErrValidation marks intake errors the HTTP layer maps to 400.
var ErrValidation = errors.New("validation")

func validateInput(in CreateTicketInput) error {
	if strings.TrimSpace(in.RequesterName) == "" {
		return fmt.Errorf("%w: nome is required", ErrValidation)
	}
	if strings.TrimSpace(in.RequesterEmail) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if strings.TrimSpace(in.SquadLeader) == "" {
		return fmt.Errorf("%w: squad_leader is required", ErrValidation)
	}
	if strings.TrimSpace(in.Description) == "" {
		return fmt.Errorf("%w: necessidade is required", ErrValidation)
	}
	if len(in.Devices) == 0 {
		return fmt.Errorf("%w: at least one device is required", ErrValidation)
	}
	for _, d := range in.Devices {
		if !model.InCatalog(d) {
			return fmt.Errorf("%w: dispositivo %q is not in the catalog", ErrValidation, d)
		}
	}
	return nil
}

func (s *TicketService) newCode() string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = codeAlphabet[s.randFn(len(codeAlphabet))]
	}
	return string(b)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
