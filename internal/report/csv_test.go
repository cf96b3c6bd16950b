package report

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTicketsCSV(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{
			Code:           "ABCD1234",
			RequesterName:  "Ana",
			RequesterEmail: "ana@example.com",
			SquadLeader:    "Bruno",
			Devices:        "Mouse, Teclado",
			Description:    "teclado falhando",
			Priority:       model.PriorityNormal,
			Status:         model.StatusPending,
			CreatedAt:      created,
			UpdatedAt:      created,
			Notes:          []model.TicketNote{{Text: "verificando", Status: model.StatusInProgress}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTicketsCSV(&buf, tickets))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ticket_id", rows[0][0])
	assert.Equal(t, "ABCD1234", rows[1][0])
	assert.Equal(t, "Mouse, Teclado", rows[1][4])
	assert.Equal(t, "Pendente", rows[1][7])
	assert.Equal(t, "1", rows[1][10], "observation count")
}

func TestWriteStatisticsCSV(t *testing.T) {
	stats := &service.Statistics{
		Total:      3,
		Pending:    2,
		InProgress: 1,
		Devices: []service.DeviceCount{
			{Device: "Mouse", Count: 2},
			{Device: "Teclado", Count: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteStatisticsCSV(&buf, stats))

	out := buf.String()
	assert.Contains(t, out, "total_tickets,3")
	assert.Contains(t, out, "pendentes,2")
	assert.Contains(t, out, "Mouse,2")
	assert.Contains(t, out, "Teclado,1")
}
