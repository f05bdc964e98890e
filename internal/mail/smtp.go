// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strings"

	"github.com/pdiddy/litwatch/pkg/types"
)

// SMTPSender delivers digests over SMTP with implicit TLS (port 465). There
// is no partial-success state: either the server accepts the message or the
// delivery failed as a whole.
type SMTPSender struct {
	Config types.MailConfig
}

// Deliver sends the message to the configured recipient.
func (s *SMTPSender) Deliver(ctx context.Context, msg Message) error {
	cfg := s.Config
	port := cfg.Port
	if port == 0 {
		port = 465
	}
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", port))

	dialer := &tls.Dialer{Config: &tls.Config{ServerName: cfg.Host}}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dialing SMTP server %s: %w", addr, err)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("SMTP handshake with %s: %w", cfg.Host, err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication: %w", err)
	}

	if err := client.Mail(cfg.Username); err != nil {
		return fmt.Errorf("SMTP MAIL FROM: %w", err)
	}
	if err := client.Rcpt(cfg.Recipient); err != nil {
		return fmt.Errorf("SMTP RCPT TO: %w", err)
	}

	wc, err := client.Data()
	if err != nil {
		return fmt.Errorf("SMTP DATA: %w", err)
	}
	if _, err := wc.Write([]byte(formatMessage(cfg, msg))); err != nil {
		wc.Close()
		return fmt.Errorf("writing message body: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("finishing message body: %w", err)
	}

	return client.Quit()
}

// formatMessage assembles the MIME envelope around the rendered HTML.
func formatMessage(cfg types.MailConfig, msg Message) string {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = "litwatch"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", fromName), cfg.Username)
	fmt.Fprintf(&b, "To: %s\r\n", cfg.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.String()
}
