// Package notify contains the delivery adapters for reminder notifications.
package notify

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/mikey/presence-analyzer/internal/core"
	"go.uber.org/zap"
)

// SMTPNotifier delivers notifications over SMTP using go-smtp.
type SMTPNotifier struct {
	addr     string
	from     string
	username string
	password string
	logger   *zap.Logger
}

// NewSMTPNotifier creates a notifier for the given SMTP server address.
// Username and password may be empty when the server accepts unauthenticated
// submission.
func NewSMTPNotifier(addr, from, username, password string, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		addr:     addr,
		from:     from,
		username: username,
		password: password,
		logger:   logger,
	}
}

// Send delivers one notification. Each call opens its own connection; the
// reminder volume is a handful of mails per pass, so pooling buys nothing.
func (n *SMTPNotifier) Send(ctx context.Context, notification *core.Notification) error {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", n.addr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return fmt.Errorf("failed to set connection deadline: %w", err)
		}
	} else if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if n.username != "" {
		if err := c.Auth(sasl.NewPlainClient("", n.username, n.password)); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}
	if err := c.Rcpt(notification.Recipient, nil); err != nil {
		return fmt.Errorf("RCPT TO failed: %w", err)
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(renderMessage(n.from, notification)); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		n.logger.Warn("QUIT command failed", zap.Error(err))
		// The message is already accepted at this point.
	}

	n.logger.Debug("Delivered notification",
		zap.String("recipient", notification.Recipient))
	return nil
}

// renderMessage builds the RFC 5322 message bytes for a notification.
func renderMessage(from string, notification *core.Notification) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", notification.Recipient)
	fmt.Fprintf(&b, "Subject: %s\r\n", notification.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(notification.Body, "\n", "\r\n"))
	b.WriteString("\r\n")
	return []byte(b.String())
}
