package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
)

// EmailChannel sends plain-text mail over SMTP with STARTTLS auth.
type EmailChannel struct {
	host     string
	port     string
	from     string
	password string

	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmailChannel(host, port, from, password string) *EmailChannel {
	return &EmailChannel{
		host:     host,
		port:     port,
		from:     from,
		password: password,
		sendMail: smtp.SendMail,
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) SendCreated(ctx context.Context, t *model.Ticket, queuePos int) error {
	return c.send(ctx, t.RequesterEmail, createdSubject(t), createdBody(t, queuePos))
}

func (c *EmailChannel) SendStatusChanged(ctx context.Context, t *model.Ticket, note string) error {
	return c.send(ctx, t.RequesterEmail, statusSubject(t), statusBody(t, note))
}

func (c *EmailChannel) send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		c.from, to, subject, body))
	auth := smtp.PlainAuth("", c.from, c.password, c.host)
	return c.sendMail(c.host+":"+c.port, auth, c.from, []string{to}, msg)
}
