package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/mavi-suporte/helpdesk-service/internal/model"
)

// WhatsAppChannel POSTs messages to a self-hosted WhatsApp gateway
// (POST {base}/send with {"to": ..., "message": ...}).
type WhatsAppChannel struct {
	baseURL    string
	to         string
	httpClient *http.Client
}

func NewWhatsAppChannel(baseURL, to string) *WhatsAppChannel {
	return &WhatsAppChannel{
		baseURL:    baseURL,
		to:         FormatNumber(to),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *WhatsAppChannel) Name() string { return "whatsapp" }

func (c *WhatsAppChannel) SendCreated(ctx context.Context, t *model.Ticket, queuePos int) error {
	return c.send(ctx, createdBody(t, queuePos))
}

func (c *WhatsAppChannel) SendStatusChanged(ctx context.Context, t *model.Ticket, note string) error {
	return c.send(ctx, statusBody(t, note))
}

func (c *WhatsAppChannel) send(ctx context.Context, message string) error {
	body, err := json.Marshal(map[string]string{"to": c.to, "message": message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("whatsapp gateway: status %d", resp.StatusCode)
	}
	return nil
}

var nonDigits = regexp.MustCompile(`[^\d]`)

// FormatNumber normalizes a Brazilian phone number to +55 E.164 form,
// assuming the São Paulo area code when none is given.
func FormatNumber(number string) string {
	clean := nonDigits.ReplaceAllString(number, "")
	switch {
	case len(clean) == 11 && clean[:2] == "11":
		clean = "55" + clean
	case len(clean) == 10:
		clean = "5511" + clean
	case len(clean) >= 2 && clean[:2] != "55":
		clean = "55" + clean
	}
	return "+" + clean
}
