package email

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
)

// Sender is the outbound mail collaborator. The core calls it exactly once
// per successful signup or re-signup.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type smtpSender struct {
	host string
	port string
	from string
}

func NewSMTPSender(host, port, from string) Sender {
	return &smtpSender{host: host, port: port, from: from}
}

// Send delivers a single plaintext message. The dial and the whole SMTP
// conversation are bounded by the caller's context deadline.
func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(s.host, s.port)

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial smtp server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	defer client.Close()

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp MAIL failed: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp RCPT failed: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA failed: %w", err)
	}

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.from, to, subject, body)

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finish message: %w", err)
	}

	return client.Quit()
}
