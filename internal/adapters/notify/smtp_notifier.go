package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/mikey/contract-sentinel/internal/core"
	"github.com/mikey/contract-sentinel/internal/utils"
	"go.uber.org/zap"
)

// SMTPNotifier mails the report digest through an SMTP relay
type SMTPNotifier struct {
	address       string
	port          int
	username      string
	password      string
	from          string
	to            []string
	subjectPrefix string
	onlyAlerts    bool
	dialTimeout   time.Duration
	logger        *zap.Logger
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(
	address string,
	port int,
	username string,
	password string,
	from string,
	to []string,
	subjectPrefix string,
	onlyAlerts bool,
	logger *zap.Logger,
) (*SMTPNotifier, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("smtp notifier needs at least one recipient")
	}
	return &SMTPNotifier{
		address:       address,
		port:          port,
		username:      username,
		password:      password,
		from:          from,
		to:            to,
		subjectPrefix: subjectPrefix,
		onlyAlerts:    onlyAlerts,
		dialTimeout:   10 * time.Second,
		logger:        logger,
	}, nil
}

// Notify sends the report unless it has no alerts and only alerts are wanted
func (n *SMTPNotifier) Notify(ctx context.Context, report *core.AnalysisReport) error {
	if n.onlyAlerts && !report.HasAlerts() {
		n.logger.Debug("No alerts, skipping digest", zap.String("report_id", report.ID))
		return nil
	}

	msg := n.composeMessage(report)
	if err := n.send(ctx, msg); err != nil {
		return err
	}

	n.logger.Info("Report digest sent",
		zap.String("report_id", report.ID),
		zap.Strings("recipients", n.to))
	return nil
}

// Subject returns the digest subject line for a report
func (n *SMTPNotifier) Subject(report *core.AnalysisReport) string {
	subject := fmt.Sprintf("%d pending contracts, %d critical, %d overdue",
		report.TotalPending, len(report.CriticalPending), len(report.OverduePending))
	if n.subjectPrefix != "" {
		subject = n.subjectPrefix + " " + subject
	}
	return subject
}

func (n *SMTPNotifier) composeMessage(report *core.AnalysisReport) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", n.from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(n.to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", n.Subject(report))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@contract-sentinel>\r\n", uuid.NewString())
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	buf.WriteString("\r\n")

	var body bytes.Buffer
	utils.WriteReport(&body, report, true)
	buf.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))
	return buf.Bytes()
}

func (n *SMTPNotifier) send(ctx context.Context, msg []byte) error {
	addr := fmt.Sprintf("%s:%d", n.address, n.port)

	// Get hostname for EHLO
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	dialer := net.Dialer{Timeout: n.dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP relay: %w", err)
	}

	// Set a deadline for the whole exchange
	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
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
			return fmt.Errorf("AUTH failed: %w", err)
		}
	}

	if err := c.Mail(n.from, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range n.to {
		if err := c.Rcpt(recipient, nil); err != nil {
			n.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err := wc.Write(msg); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send message data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// The message is already accepted
		n.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}
