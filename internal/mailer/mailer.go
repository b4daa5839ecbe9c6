// Package mailer delivers rendered reports by email.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"eatprofile/internal/report"

	"github.com/wneessen/go-mail"
)

var (
	// ErrDeliveryFailed wraps every transport or address failure
	ErrDeliveryFailed = errors.New("report delivery failed")
	// ErrNotSent is returned by LogMailer: the report was accepted but only logged
	ErrNotSent = errors.New("smtp not configured, report not sent")
)

// Mailer sends a rendered report to one recipient
type Mailer interface {
	Send(ctx context.Context, to string, r *report.Rendered) error
}

// SMTPConfig holds SMTP transport settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool // implicit TLS; defaults on for port 465
}

// Enabled reports whether SMTP delivery is configured
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// UseSSL reports whether the connection starts with TLS instead of STARTTLS
func (c SMTPConfig) UseSSL() bool {
	return c.SSL || c.Port == 465
}

// SMTPMailer sends reports through an SMTP relay
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(ctx context.Context, to string, r *report.Rendered) error {
	msg, err := NewMessage(m.cfg.From, to, r)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host, m.options()...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (m *SMTPMailer) options() []mail.Option {
	opts := []mail.Option{mail.WithPort(m.cfg.Port)}
	if m.cfg.UseSSL() {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}

// NewMessage builds a multipart (Markdown text + HTML) message
func NewMessage(from, to string, r *report.Rendered) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("%w: sender: %v", ErrDeliveryFailed, err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("%w: recipient: %v", ErrDeliveryFailed, err)
	}
	msg.Subject(r.Subject)
	msg.SetBodyString(mail.TypeTextPlain, r.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, r.HTML)
	return msg, nil
}

// LogMailer only logs deliveries; used when SMTP is not configured.
// Send returns ErrNotSent for valid recipients.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to string, r *report.Rendered) error {
	if !strings.Contains(to, "@") {
		return fmt.Errorf("%w: invalid recipient", ErrDeliveryFailed)
	}
	log.Printf("mailer: SMTP not configured, report %q for %s not sent", r.Subject, Mask(to))
	return ErrNotSent
}

// Mask hides the local part of an address for logs
func Mask(addr string) string {
	at := strings.LastIndex(addr, "@")
	if at <= 0 {
		return "***"
	}
	first, _ := utf8.DecodeRuneInString(addr)
	return string(first) + "***" + addr[at:]
}
