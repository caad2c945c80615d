package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"yantrashilpa.com/web/internal/config"
)

// Mailtrap sends through the Mailtrap HTTP send API.
type Mailtrap struct {
	apiURL string
	token  string
	client *http.Client
}

type mailtrapAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailtrapPayload struct {
	From     mailtrapAddress   `json:"from"`
	To       []mailtrapAddress `json:"to"`
	Cc       []mailtrapAddress `json:"cc,omitempty"`
	Bcc      []mailtrapAddress `json:"bcc,omitempty"`
	ReplyTo  *mailtrapAddress  `json:"reply_to,omitempty"`
	Subject  string            `json:"subject"`
	Text     string            `json:"text,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Category string            `json:"category,omitempty"`
	Headers  map[string]string `json:"headers,omitempty"`
}

func NewMailtrap(cfg config.MailtrapConfig) *Mailtrap {
	return &Mailtrap{
		apiURL: cfg.APIURL,
		token:  cfg.APIToken,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *Mailtrap) Send(ctx context.Context, e Email) error {
	if m.apiURL == "" || m.token == "" {
		return fmt.Errorf("mailtrap: credentials not configured")
	}
	// Same header and recipient checks as the SMTP path.
	if _, err := buildMIMEMessage(e, "mailtrap"); err != nil {
		return err
	}

	p := mailtrapPayload{
		From:     mailtrapAddress{Email: e.From, Name: e.FromName},
		To:       addresses(e.To),
		Cc:       addresses(e.Cc),
		Bcc:      addresses(e.Bcc),
		Subject:  e.Subject,
		Text:     e.TextBody,
		HTML:     e.HTMLBody,
		Category: "Contact",
		Headers:  e.Headers,
	}
	if e.ReplyTo != "" {
		p.ReplyTo = &mailtrapAddress{Email: e.ReplyTo}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.apiURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+m.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailtrap: %w", err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))

	if res.StatusCode >= 400 {
		return fmt.Errorf("mailtrap: API status %d", res.StatusCode)
	}
	return nil
}

func addresses(in []string) []mailtrapAddress {
	if len(in) == 0 {
		return nil
	}
	out := make([]mailtrapAddress, 0, len(in))
	for _, a := range in {
		out = append(out, mailtrapAddress{Email: a})
	}
	return out
}
