package repo

import (
	"context"
	"time"
)

// OutboundMessage is a message to send.
type OutboundMessage struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string // optional alternative body

	// MessageID, when set, is used as the outbound Message-ID header so
	// replies can be correlated through In-Reply-To.
	MessageID string
}

// InboundMessage is a normalized message fetched from the inbox.
type InboundMessage struct {
	Subject    string
	Text       string
	HTML       string
	From       string
	To         string
	ReceivedAt time.Time
	MessageID  string
	InReplyTo  string
}

// MailRepo sends outbound mail.
// Send returns the message id of the delivered message.
type MailRepo interface {
	Send(ctx context.Context, msg *OutboundMessage) (string, error)
}

// InboxRepo polls a mailbox for unseen messages.
//
// PollOnce invokes handle once per unseen message. A message is marked
// seen only after handle returns nil, so a crash before processing
// leaves it re-deliverable on the next poll (at-least-once delivery).
type InboxRepo interface {
	Connect(ctx context.Context) error
	PollOnce(ctx context.Context, handle func(*InboundMessage) error) error
	Close() error
}
