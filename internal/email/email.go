// Package email formats booking confirmations and sends them over SMTP.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/evcraddock/rental-booker/internal/property"
)

const dialTimeout = 10 * time.Second

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// IsConfigured returns true if SMTP settings are present.
func (c SMTPConfig) IsConfigured() bool {
	return c.Host != "" && c.From != ""
}

// Sender delivers a plain-text message.
type Sender interface {
	Send(to []string, subject, body string) error
}

// Confirmation is everything a booking receipt shows.
type Confirmation struct {
	FirstName    string
	BookingID    int64
	BookingDate  string
	Property     *property.Property
	Price        decimal.Decimal
	Points       int64
	DashboardURL string
}

// FormatConfirmation builds the subject and plain-text body of a booking receipt.
func FormatConfirmation(c Confirmation) (subject, body string) {
	var buf bytes.Buffer
	p := c.Property

	subject = fmt.Sprintf("Booking #%d confirmed: %s", c.BookingID, p.Location)

	name := c.FirstName
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(&buf, "Hi %s,\n\nYour booking is confirmed.\n\n", name)
	fmt.Fprintf(&buf, "  Booking:   #%d on %s\n", c.BookingID, c.BookingDate)
	fmt.Fprintf(&buf, "  Property:  #%d %s (%s)\n", p.ID, p.Location, p.Kind)
	fmt.Fprintf(&buf, "             %s, %s\n", p.City, p.State)
	fmt.Fprintf(&buf, "  Price:     $%s\n", formatWithCommas(c.Price))
	fmt.Fprintf(&buf, "  Points:    %d\n", c.Points)

	if p.AgentEmail != nil {
		agent := *p.AgentEmail
		if p.AgentName != nil {
			agent = fmt.Sprintf("%s <%s>", *p.AgentName, *p.AgentEmail)
		}
		fmt.Fprintf(&buf, "\nYour agent is %s.\n", agent)
	}
	if c.DashboardURL != "" {
		fmt.Fprintf(&buf, "\nSee all your bookings and points at %s\n", c.DashboardURL)
	}

	fmt.Fprintf(&buf, "\nThanks!\n")

	return subject, buf.String()
}

// SMTPSender sends mail with a fixed SMTPConfig.
type SMTPSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a Sender for cfg.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send implements Sender.
func (s *SMTPSender) Send(to []string, subject, body string) error {
	return Send(s.cfg, to, subject, body)
}

// Send sends an email via SMTP.
// Port 465 uses implicit TLS; any other port upgrades with STARTTLS when offered.
func Send(cfg SMTPConfig, to []string, subject, body string) error {
	if !cfg.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}

	return deliver(cfg, to, buildMessage(cfg.From, to, subject, body, time.Now()))
}

// buildMessage renders headers and body with CRLF line endings.
func buildMessage(from string, to []string, subject, body string, now time.Time) []byte {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 {
		domain = from[at+1:]
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "Message-ID: <%s@%s>\r\n", uuid.NewString(), domain)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(strings.ReplaceAll(strings.ReplaceAll(body, "\r\n", "\n"), "\n", "\r\n"))
	return buf.Bytes()
}

// deliver opens one SMTP session and sends msg to every recipient.
func deliver(cfg SMTPConfig, to []string, msg []byte) (err error) {
	port := cfg.Port
	if port == "" {
		port = "587"
	}
	addr := net.JoinHostPort(cfg.Host, port)
	tlsCfg := &tls.Config{ServerName: cfg.Host}
	dialer := &net.Dialer{Timeout: dialTimeout}

	var conn net.Conn
	if port == "465" {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("creating SMTP client: %w", err)
	}
	defer func() {
		if quitErr := c.Quit(); quitErr != nil && err == nil {
			err = fmt.Errorf("quit: %w", quitErr)
		}
	}()

	if port != "465" {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsCfg); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if cfg.User != "" {
		if err := c.Auth(smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)); err != nil {
			return fmt.Errorf("auth: %w", err)
		}
	}

	if err := c.Mail(cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("rcpt to %s: %w", rcpt, err)
		}
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close data: %w", err)
	}

	return nil
}

// formatWithCommas renders an amount with two decimals and thousands separators.
func formatWithCommas(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac := s[:len(s)-3], s[len(s)-3:]

	var parts []string
	for len(whole) > 3 {
		parts = append([]string{whole[len(whole)-3:]}, parts...)
		whole = whole[:len(whole)-3]
	}
	parts = append([]string{whole}, parts...)

	out := strings.Join(parts, ",") + frac
	if neg {
		out = "-" + out
	}
	return out
}
