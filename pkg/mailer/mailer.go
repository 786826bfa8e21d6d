package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/quadworks/storefront/pkg/config"
)

// Message is one outbound email.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers messages. The SMTP client satisfies it in production
// and tests swap in a recorder.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client sends mail over plain SMTP with optional auth.
type Client struct {
	addr string
	host string
	from string
	auth smtp.Auth
}

func New(cfg config.SMTPConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &Client{
		addr: cfg.Addr(),
		host: cfg.Host,
		from: cfg.From,
		auth: auth,
	}, nil
}

func (c *Client) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	return smtp.SendMail(c.addr, c.auth, c.from, msg.To, buildRFC822(c.from, msg))
}

func buildRFC822(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}
