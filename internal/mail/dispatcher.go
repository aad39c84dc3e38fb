package mail

import (
	"context"
	"fmt"

	errx "github.com/deskbot-poc/server/internal/core/error"
	logx "github.com/deskbot-poc/server/pkg/logger"
	gomail "github.com/wneessen/go-mail"
)

// Dispatcher transmits a message through an outbound mail channel and
// reports the delivery outcome as a human-readable string.
type Dispatcher interface {
	Send(ctx context.Context, to, subject, body string) (string, error)
}

// SMTPConfig holds the authenticated SMTP transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Address  string
	Password string
}

// SMTPDispatcher sends mail over implicit-TLS SMTP with PLAIN auth, the
// Gmail app-password setup.
type SMTPDispatcher struct {
	cfg SMTPConfig
}

func NewSMTPDispatcher(cfg SMTPConfig) *SMTPDispatcher {
	return &SMTPDispatcher{cfg: cfg}
}

func (d *SMTPDispatcher) Send(ctx context.Context, to, subject, body string) (string, error) {
	msg := gomail.NewMsg()
	if err := msg.From(d.cfg.Address); err != nil {
		return "", errx.WrapMail(err)
	}
	if err := msg.To(to); err != nil {
		return "", errx.WrapMail(err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(d.cfg.Host,
		gomail.WithPort(d.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(d.cfg.Address),
		gomail.WithPassword(d.cfg.Password),
	)
	if err != nil {
		return "", errx.WrapMail(err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		logx.Error().Err(err).Str("to", to).Msg("smtp send failed")
		return "", errx.WrapMail(err)
	}

	logx.Info().Str("to", to).Msg("email dispatched")
	return fmt.Sprintf("Email sent to %s", to), nil
}

var _ Dispatcher = (*SMTPDispatcher)(nil)
