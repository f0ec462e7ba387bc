package data

import (
	"context"
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/google/uuid"
	gomail "github.com/wneessen/go-mail"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// mailRepo sends outbound mail over authenticated SMTP.
type mailRepo struct {
	host     string
	port     int
	username string
	password string
}

// NewMailRepo creates an SMTP mail repository.
func NewMailRepo(host string, port int, username, password string) repo.MailRepo {
	return &mailRepo{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

func (m *mailRepo) Send(ctx context.Context, out *repo.OutboundMessage) (string, error) {
	messageID := out.MessageID
	if messageID == "" {
		messageID = fmt.Sprintf("msg_%s@beastputty.com", uuid.NewString())
	}

	msg := gomail.NewMsg()
	if err := msg.From(out.From); err != nil {
		return "", &domain.DeliveryError{Op: "send", Err: fmt.Errorf("invalid sender: %w", err)}
	}
	if err := msg.To(out.To); err != nil {
		return "", &domain.DeliveryError{Op: "send", Err: fmt.Errorf("invalid recipient: %w", err)}
	}
	msg.Subject(out.Subject)
	msg.SetMessageIDWithValue(messageID)
	msg.SetBodyString(gomail.TypeTextPlain, out.Text)
	if out.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, out.HTML)
	}

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
	)
	if err != nil {
		return "", &domain.DeliveryError{Op: "send", Err: err}
	}

	err = retry.Do(
		func() error {
			return client.DialAndSendWithContext(ctx, msg)
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(time.Minute),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", &domain.DeliveryError{Op: "send", Err: err}
	}

	return messageID, nil
}
