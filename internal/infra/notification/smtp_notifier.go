// Package notification provides outbound delivery implementations for the
// domain Notifier interface.
package notification

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"

	"identity/config"
	"identity/internal/domain/service"
)

// smtpNotifier delivers messages over SMTP using go-mail.
type smtpNotifier struct {
	client *mail.Client
	from   string
}

// NewSMTPNotifier builds the SMTP-backed Notifier from configuration.
func NewSMTPNotifier(cfg *config.MailConfig) (service.Notifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create smtp client")
	}

	return &smtpNotifier{client: client, from: cfg.From}, nil
}

// Send dispatches a single message. The context bounds the whole dial+send.
func (n *smtpNotifier) Send(ctx context.Context, msg service.Message) error {
	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return errors.Wrap(err, "invalid sender address")
	}
	if err := m.To(msg.To); err != nil {
		return errors.Wrap(err, "invalid recipient address")
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.Body)

	if err := n.client.DialAndSendWithContext(ctx, m); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	return nil
}

// logNotifier writes messages to the logger instead of SMTP. Used in
// development and in tests.
type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier is the constructor for logNotifier.
func NewLogNotifier(logger *slog.Logger) service.Notifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Send(ctx context.Context, msg service.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.Info("mail delivery (log only)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("bodyBytes", len(msg.Body)),
	)

	return nil
}
