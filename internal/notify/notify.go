// Package notify delivers ticket notifications over email, SMS and WhatsApp.
// Delivery is best-effort: a failed channel is logged and never affects the
// ticket mutation that triggered it.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"go.uber.org/zap"
)

// Channel is one delivery mechanism (email, SMS, WhatsApp gateway).
type Channel interface {
	Name() string
	SendCreated(ctx context.Context, t *model.Ticket, queuePos int) error
	SendStatusChanged(ctx context.Context, t *model.Ticket, note string) error
}

// Dispatcher fans a ticket event out to every configured channel.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
}

func NewDispatcher(logger *zap.Logger, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

const sendTimeout = 10 * time.Second

// NotifyCreated reports whether every channel delivered. Failures are logged
// per channel and swallowed.
func (d *Dispatcher) NotifyCreated(ctx context.Context, t *model.Ticket, queuePos int) bool {
	ok := true
	for _, ch := range d.channels {
		cctx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := ch.SendCreated(cctx, t, queuePos)
		cancel()
		if err != nil {
			ok = false
			d.logger.Warn("notify: created delivery failed",
				zap.String("channel", ch.Name()),
				zap.String("ticket", t.Code),
				zap.Error(err))
		}
	}
	return ok
}

func (d *Dispatcher) NotifyStatusChanged(ctx context.Context, t *model.Ticket, note string) bool {
	ok := true
	for _, ch := range d.channels {
		cctx, cancel := context.WithTimeout(ctx, sendTimeout)
		err := ch.SendStatusChanged(cctx, t, note)
		cancel()
		if err != nil {
			ok = false
			d.logger.Warn("notify: status delivery failed",
				zap.String("channel", ch.Name()),
				zap.String("ticket", t.Code),
				zap.Error(err))
		}
	}
	return ok
}

// NotifyCreatedAsync runs NotifyCreated in a goroutine with a detached
// context so the event survives request cancellation.
func (d *Dispatcher) NotifyCreatedAsync(t *model.Ticket, queuePos int) {
	if len(d.channels) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		d.NotifyCreated(ctx, t, queuePos)
	}()
}

func (d *Dispatcher) NotifyStatusChangedAsync(t *model.Ticket, note string) {
	if len(d.channels) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		d.NotifyStatusChanged(ctx, t, note)
	}()
}

func createdSubject(t *model.Ticket) string {
	return fmt.Sprintf("Mavi Suporte — chamado %s registrado", t.Code)
}

func createdBody(t *model.Ticket, queuePos int) string {
	return fmt.Sprintf(
		"Olá %s,\n\nSeu chamado %s foi registrado com prioridade %s.\n"+
			"Dispositivos: %s\nPosição na fila: %d\n\n"+
			"Acompanhe pelo código do chamado.\n",
		t.RequesterName, t.Code, t.Priority, t.Devices, queuePos)
}

func statusSubject(t *model.Ticket) string {
	return fmt.Sprintf("Mavi Suporte — chamado %s: %s", t.Code, t.Status)
}

func statusBody(t *model.Ticket, note string) string {
	body := fmt.Sprintf("Olá %s,\n\nSeu chamado %s agora está: %s.\n",
		t.RequesterName, t.Code, t.Status)
	if note != "" {
		body += "\nObservação da equipe: " + note + "\n"
	}
	return body
}
