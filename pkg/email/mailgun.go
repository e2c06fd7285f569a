package email

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// MailgunConfig holds the Mailgun HTTP API settings.
type MailgunConfig struct {
	Domain  string
	APIKey  string
	APIBase string // e.g. mailgun.APIBaseEU; empty keeps the library default
	Timeout time.Duration
}

// MailgunTransport sends email through the Mailgun messages API.
type MailgunTransport struct {
	mg         *mailgun.MailgunImpl
	configured bool
}

func NewMailgunTransport(cfg MailgunConfig) *MailgunTransport {
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}
	mg.SetClient(&http.Client{Timeout: cfg.Timeout})

	return &MailgunTransport{
		mg:         mg,
		configured: cfg.Domain != "" && cfg.APIKey != "",
	}
}

func (t *MailgunTransport) Name() string { return "mailgun" }

func (t *MailgunTransport) IsConfigured() bool { return t.configured }

func (t *MailgunTransport) Send(ctx context.Context, msg Message) error {
	if !t.configured {
		return ErrNotConfigured
	}

	from := mail.Address{Name: msg.FromName, Address: msg.From}
	m := t.mg.NewMessage(from.String(), msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		m.SetHtml(msg.HTML)
	}
	if msg.ReplyTo != "" {
		m.AddHeader("Reply-To", msg.ReplyTo)
	}

	if _, _, err := t.mg.Send(ctx, m); err != nil {
		return fmt.Errorf("mailgun: send: %w", err)
	}
	return nil
}
