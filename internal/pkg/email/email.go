package email

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	texttemplate "text/template"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*
var templateFS embed.FS

var (
	ErrSMTPNotConfigured = errors.New("smtp is not configured")
	ErrNoRecipient       = errors.New("recipient has no email address")
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// PayslipMail describes one payslip email. Open is called once per delivery
// attempt to stream the PDF attachment.
type PayslipMail struct {
	To           string
	EmployeeName string
	CompanyName  string
	Period       string
	NetPay       string
	NetPayWords  string
	Filename     string
	Open         func() (io.ReadCloser, error)
}

// Mailer sends payslip emails with the PDF attached.
type Mailer interface {
	SendPayslip(ctx context.Context, mail PayslipMail) error
}

type mailerImpl struct {
	cfg     config.SMTPConfig
	sender  Sender
	html    *template.Template
	text    *texttemplate.Template
	backoff func(attempt int) time.Duration
}

// NewMailer creates a mailer backed by an SMTP dialer.
func NewMailer(cfg config.SMTPConfig) (Mailer, error) {
	m, err := newMailer(cfg, gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), exponentialBackoff)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newMailer(cfg config.SMTPConfig, sender Sender, backoff func(int) time.Duration) (*mailerImpl, error) {
	html, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 1
	}

	return &mailerImpl{
		cfg:     cfg,
		sender:  sender,
		html:    html,
		text:    text,
		backoff: backoff,
	}, nil
}

// exponentialBackoff waits 1s, 2s, 4s ... between attempts.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * time.Second
}

func (s *mailerImpl) SendPayslip(ctx context.Context, mail PayslipMail) error {
	if s.cfg.Host == "" {
		return ErrSMTPNotConfigured
	}
	if mail.To == "" {
		return ErrNoRecipient
	}

	msg, err := s.compose(mail)
	if err != nil {
		return err
	}

	subject := "Payslip for " + mail.Period
	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		err := s.sender.DialAndSend(msg)
		if err == nil {
			slog.InfoContext(ctx, "Email sent successfully", "to", mail.To, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.ErrorContext(ctx, "Failed to send email",
			"to", mail.To,
			"subject", subject,
			"attempt", attempt,
			"max_retries", s.cfg.MaxRetries,
			"error", err,
		)

		if attempt < s.cfg.MaxRetries {
			select {
			case <-ctx.Done():
				return fmt.Errorf("email send cancelled: %w", ctx.Err())
			case <-time.After(s.backoff(attempt)):
			}
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", s.cfg.MaxRetries, lastErr)
}

func (s *mailerImpl) compose(mail PayslipMail) (*gomail.Message, error) {
	var html, text bytes.Buffer
	if err := s.html.ExecuteTemplate(&html, "payslip.html", mail); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	if err := s.text.ExecuteTemplate(&text, "payslip.txt", mail); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", "Payslip for "+mail.Period)
	m.SetBody("text/plain", text.String())
	m.AddAlternative("text/html", html.String())

	if mail.Open != nil {
		m.Attach(mail.Filename,
			gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				rc, err := mail.Open()
				if err != nil {
					return err
				}
				defer rc.Close()
				_, err = io.Copy(w, rc)
				return err
			}),
		)
	}

	return m, nil
}
