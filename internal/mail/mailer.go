package mail

import (
	"context"
	"fmt"
	"html"

	gomail "github.com/wneessen/go-mail"

	"github.com/AlibekovAA/gql-user-auth/internal/common/logger"
)

const (
	ResetSubject   = "your password reset link"
	ResetPlainBody = "welcome"
	ResetLinkText  = "click here to reset password"
)

type Mailer interface {
	SendResetLink(ctx context.Context, to, link string) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	SSL      bool
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
	log *logger.Logger
}

func NewSMTPMailer(cfg SMTPConfig, log *logger.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

// SendResetLink dials the SMTP server once per message. Failures are returned
// as-is; there is no retry.
func (m *SMTPMailer) SendResetLink(ctx context.Context, to, link string) error {
	msg, err := BuildResetMessage(m.cfg.From, to, link)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"to":     to,
			"action": "reset_email_send_failed",
		}).Errorf("smtp send failed: %v", err)
		return fmt.Errorf("send reset email: %w", err)
	}

	m.log.WithFields(ctx, logger.Fields{
		"to":     to,
		"action": "reset_email_sent",
	}).Info("reset email sent")
	return nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{gomail.WithPort(m.cfg.Port)}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.SSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	return opts
}

// BuildResetMessage renders the reset email with a plain-text body and an HTML
// alternative holding the link.
func BuildResetMessage(from, to, link string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(ResetSubject)
	msg.SetBodyString(gomail.TypeTextPlain, ResetPlainBody)
	msg.AddAlternativeString(gomail.TypeTextHTML, resetHTML(link))
	return msg, nil
}

func resetHTML(link string) string {
	return fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(link), ResetLinkText)
}
