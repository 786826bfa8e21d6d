package mailer

import (
	"strings"
	"testing"

	"github.com/quadworks/storefront/pkg/config"
)

func TestNewRequiresHostAndFrom(t *testing.T) {
	if _, err := New(config.SMTPConfig{From: "shop@example.com"}); err == nil {
		t.Fatal("expected error for missing host")
	}
	if _, err := New(config.SMTPConfig{Host: "smtp.example.com"}); err == nil {
		t.Fatal("expected error for missing from address")
	}
	if _, err := New(config.SMTPConfig{Host: "smtp.example.com", Port: 587, From: "shop@example.com"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRFC822(t *testing.T) {
	raw := string(buildRFC822("shop@example.com", Message{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Order Confirmation - ORD-ABC123",
		Body:    "Thank you for your order.",
	}))

	for _, want := range []string{
		"From: shop@example.com\r\n",
		"To: a@example.com, b@example.com\r\n",
		"Subject: Order Confirmation - ORD-ABC123\r\n",
		"\r\n\r\nThank you for your order.",
	} {
		if !strings.Contains(raw, want) {
			t.Fatalf("message missing %q:\n%s", want, raw)
		}
	}

	headerEnd := strings.Index(raw, "\r\n\r\n")
	if headerEnd < 0 {
		t.Fatal("missing blank line between headers and body")
	}
}
