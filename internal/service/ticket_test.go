package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService() (*TicketService, *store.MemoryStore) {
	st := store.NewMemoryStore()
	svc := NewTicketService(st, zap.NewNop())
	return svc, st
}

func validInput() CreateTicketInput {
	return CreateTicketInput{
		RequesterName:  "Ana Souza",
		RequesterEmail: "ana@example.com",
		SquadLeader:    "Bruno Lima",
		Devices:        []string{"Mouse", "Teclado"},
		Description:    "teclado com teclas falhando",
	}
}

func TestCreate_GeneratesUniqueCodes(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		tk, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		require.Len(t, tk.Code, 8)
		assert.False(t, seen[tk.Code], "code %s repeated", tk.Code)
		seen[tk.Code] = true
		assert.Equal(t, model.StatusPending, tk.Status)
		assert.Empty(t, tk.Notes)
	}
}

func TestCreate_RetriesOnCodeCollision(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	// Force the generator to emit the same code twice, then a fresh one.
	codes := []string{"AAAAAAAA", "AAAAAAAA", "BBBBBBBB"}
	idx := 0
	svc.randFn = func(n int) int {
		code := codes[idx/codeLength]
		c := code[idx%codeLength]
		idx++
		for i := 0; i < n; i++ {
			if codeAlphabet[i] == c {
				return i
			}
		}
		return 0
	}

	first, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "AAAAAAAA", first.Code)

	second, err := svc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "BBBBBBBB", second.Code)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*CreateTicketInput)
	}{
		{"missing name", func(in *CreateTicketInput) { in.RequesterName = "  " }},
		{"missing email", func(in *CreateTicketInput) { in.RequesterEmail = "" }},
		{"missing squad leader", func(in *CreateTicketInput) { in.SquadLeader = "" }},
		{"missing description", func(in *CreateTicketInput) { in.Description = "" }},
		{"no devices", func(in *CreateTicketInput) { in.Devices = nil }},
		{"device outside catalog", func(in *CreateTicketInput) { in.Devices = []string{"Geladeira"} }},
		{"bad priority", func(in *CreateTicketInput) { in.Priority = "Baixa" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreate_PriorityDerivedWhenAbsent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Devices = []string{"Notebook"}
	tk, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityUrgent, tk.Priority)

	in = validInput()
	in.Priority = model.PriorityNormal
	in.Devices = []string{"Notebook"}
	tk, err = svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityNormal, tk.Priority, "explicit priority wins over derivation")
}

func TestGet_NormalizesCode(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tk, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.Get(ctx, "  "+strings.ToLower(tk.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, tk.Code, got.Code)

	_, err = svc.Get(ctx, "NONEXIST")
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestQueuePosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	// Three pending tickets created at t1 < t2 < t3.
	ticks := make([]*model.Ticket, 0, 3)
	for i := 0; i < 3; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return created }
		tk, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		ticks = append(ticks, tk)
	}

	for i, tk := range ticks {
		pos, err := svc.QueuePosition(ctx, tk.Code)
		require.NoError(t, err)
		assert.Equal(t, i+1, pos)
	}

	// The middle ticket leaves the queue; positions recompute around it.
	_, err := svc.UpdateStatus(ctx, ticks[1].Code, model.StatusInProgress, "")
	require.NoError(t, err)

	pos, err := svc.QueuePosition(ctx, ticks[0].Code)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	pos, err = svc.QueuePosition(ctx, ticks[1].Code)
	require.NoError(t, err)
	assert.Equal(t, 0, pos, "non-pending tickets have no queue position")

	pos, err = svc.QueuePosition(ctx, ticks[2].Code)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	pos, err = svc.QueuePosition(ctx, "NONEXIST")
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
}

func TestList_FiltersAndOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	var codes []string
	for i := 0; i < 3; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return created }
		tk, err := svc.Create(ctx, validInput())
		require.NoError(t, err)
		codes = append(codes, tk.Code)
	}
	_, err := svc.UpdateStatus(ctx, codes[0], model.StatusDone, "")
	require.NoError(t, err)

	all, err := svc.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, codes[2], all[0].Code, "most recent first")

	pending, err := svc.List(ctx, ListFilter{Status: string(model.StatusPending)})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, tk := range pending {
		assert.Equal(t, model.StatusPending, tk.Status)
	}

	// Sentinels disable the filter.
	todos, err := svc.List(ctx, ListFilter{Status: model.FilterAll, Priority: model.FilterAllFem})
	require.NoError(t, err)
	assert.Len(t, todos, 3)
}

func TestUpdateStatus_NoteHandling(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tk, err := svc.Create(ctx, validInput())
	require.NoError(t, err)

	got, err := svc.UpdateStatus(ctx, tk.Code, model.StatusInProgress, "")
	require.NoError(t, err)
	assert.Empty(t, got.Notes, "empty note must not append")

	got, err = svc.UpdateStatus(ctx, tk.Code, model.StatusDone, "peça trocada")
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)
	assert.Equal(t, "peça trocada", got.Notes[0].Text)
	assert.Equal(t, model.StatusDone, got.Notes[0].Status)

	_, err = svc.UpdateStatus(ctx, tk.Code, "Cancelado", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateStatus(ctx, "NONEXIST", model.StatusDone, "")
	assert.ErrorIs(t, err, errs.ErrTicketNotFound)
}

func TestStatistics(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	in := validInput()
	in.Devices = []string{"Mouse", "Teclado"}
	first, err := svc.Create(ctx, in)
	require.NoError(t, err)

	in = validInput()
	in.Devices = []string{"Mouse"}
	_, err = svc.Create(ctx, in)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.Code, model.StatusInProgress, "")
	require.NoError(t, err)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(0), stats.Done)

	require.Len(t, stats.Devices, 2)
	assert.Equal(t, DeviceCount{Device: "Mouse", Count: 2}, stats.Devices[0])
	assert.Equal(t, DeviceCount{Device: "Teclado", Count: 1}, stats.Devices[1])
}

func TestStatistics_Empty(t *testing.T) {
	svc, _ := newTestService()
	stats, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.Empty(t, stats.Devices)
}
