// Package report renders tabular ticket exports for the admin area.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
)

var ticketHeader = []string{
	"ticket_id", "nome", "email", "squad_leader", "dispositivos",
	"necessidade", "prioridade", "status", "data_criacao", "data_atualizacao", "observacoes",
}

// WriteTicketsCSV writes one row per ticket, most recent first (the order
// the caller listed them in). The observation count stands in for the full
// note log, which does not fit a flat row.
func WriteTicketsCSV(w io.Writer, tickets []model.Ticket) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ticketHeader); err != nil {
		return err
	}
	for i := range tickets {
		t := &tickets[i]
		row := []string{
			t.Code,
			t.RequesterName,
			t.RequesterEmail,
			t.SquadLeader,
			t.Devices,
			t.Description,
			string(t.Priority),
			string(t.Status),
			t.CreatedAt.Format(time.RFC3339),
			t.UpdatedAt.Format(time.RFC3339),
			strconv.Itoa(len(t.Notes)),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatisticsCSV writes the aggregate summary followed by the device
// frequency table.
func WriteStatisticsCSV(w io.Writer, stats *service.Statistics) error {
	cw := csv.NewWriter(w)
	rows := [][]string{
		{"metrica", "valor"},
		{"total_tickets", strconv.FormatInt(stats.Total, 10)},
		{"pendentes", strconv.FormatInt(stats.Pending, 10)},
		{"em_andamento", strconv.FormatInt(stats.InProgress, 10)},
		{"concluidos", strconv.FormatInt(stats.Done, 10)},
		{},
		{"dispositivo", "total"},
	}
	for _, r := range rows {
		if err := cw.Write(r); err != nil {
			return err
		}
	}
	for _, d := range stats.Devices {
		if err := cw.Write([]string{d.Device, strconv.FormatInt(d.Count, 10)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
