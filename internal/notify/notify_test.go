package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeChannel struct {
	name    string
	fail    bool
	created int
	status  int
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) SendCreated(context.Context, *model.Ticket, int) error {
	f.created++
	if f.fail {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeChannel) SendStatusChanged(context.Context, *model.Ticket, string) error {
	f.status++
	if f.fail {
		return errors.New("boom")
	}
	return nil
}

func sampleTicket() *model.Ticket {
	return &model.Ticket{
		Code:           "ABCD1234",
		RequesterName:  "Ana",
		RequesterEmail: "ana@example.com",
		Devices:        "Mouse",
		Priority:       model.PriorityNormal,
		Status:         model.StatusPending,
	}
}

func TestDispatcher_AllChannelsCalled(t *testing.T) {
	a := &fakeChannel{name: "a"}
	b := &fakeChannel{name: "b"}
	d := NewDispatcher(zap.NewNop(), a, b)

	ok := d.NotifyCreated(context.Background(), sampleTicket(), 1)
	assert.True(t, ok)
	assert.Equal(t, 1, a.created)
	assert.Equal(t, 1, b.created)
}

func TestDispatcher_FailureIsNonFatal(t *testing.T) {
	bad := &fakeChannel{name: "bad", fail: true}
	good := &fakeChannel{name: "good"}
	d := NewDispatcher(zap.NewNop(), bad, good)

	ok := d.NotifyStatusChanged(context.Background(), sampleTicket(), "nota")
	assert.False(t, ok, "a failed channel reports overall failure")
	assert.Equal(t, 1, bad.status)
	assert.Equal(t, 1, good.status, "remaining channels still deliver")
}

func TestDispatcher_NoChannels(t *testing.T) {
	d := NewDispatcher(zap.NewNop())
	assert.True(t, d.NotifyCreated(context.Background(), sampleTicket(), 1))
}

func TestEmailChannel_MessageShape(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	c := NewEmailChannel("smtp.example.com", "587", "suporte@example.com", "secret")
	c.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := c.SendCreated(context.Background(), sampleTicket(), 3)
	require.NoError(t, err)
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Equal(t, "suporte@example.com", gotFrom)
	assert.Equal(t, []string{"ana@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Mavi Suporte — chamado ABCD1234 registrado")
	assert.Contains(t, string(gotMsg), "Posição na fila: 3")
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"(11) 98765-4321", "+5511987654321"},
		{"+55 21 99876-5432", "+5521998765432"},
		{"21998765432", "+5521998765432"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in), "input %q", tt.in)
	}
}
