package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
)

// SMSChannel delivers short status messages through the Twilio REST API.
// Tickets carry no phone number of their own; messages go to the on-call
// triage number so the team sees new intakes.
type SMSChannel struct {
	accountSID string
	authToken  string
	from       string
	to         string
	httpClient *http.Client
	baseURL    string
}

func NewSMSChannel(accountSID, authToken, from, to string) *SMSChannel {
	return &SMSChannel{
		accountSID: accountSID,
		authToken:  authToken,
		from:       from,
		to:         to,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    "https://api.twilio.com",
	}
}

func (c *SMSChannel) Name() string { return "sms" }

func (c *SMSChannel) SendCreated(ctx context.Context, t *model.Ticket, queuePos int) error {
	return c.send(ctx, fmt.Sprintf("Novo chamado %s (%s) — fila #%d", t.Code, t.Priority, queuePos))
}

func (c *SMSChannel) SendStatusChanged(ctx context.Context, t *model.Ticket, _ string) error {
	return c.send(ctx, fmt.Sprintf("Chamado %s: %s", t.Code, t.Status))
}

func (c *SMSChannel) send(ctx context.Context, body string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", c.to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio: status %d", resp.StatusCode)
	}
	return nil
}
