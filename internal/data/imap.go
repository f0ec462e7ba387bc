package data

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-imap"
	imapclient "github.com/emersion/go-imap/client"
	msgmail "github.com/emersion/go-message/mail"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// inboxRepo polls an IMAP inbox for unseen messages.
type inboxRepo struct {
	host     string
	port     int
	username string
	password string

	client *imapclient.Client
}

// NewInboxRepo creates an IMAP inbox repository.
func NewInboxRepo(host string, port int, username, password string) repo.InboxRepo {
	return &inboxRepo{
		host:     host,
		port:     port,
		username: username,
		password: password,
	}
}

// Connect dials the server, authenticates and selects INBOX.
func (r *inboxRepo) Connect(_ context.Context) error {
	c, err := imapclient.DialTLS(fmt.Sprintf("%s:%d", r.host, r.port), nil)
	if err != nil {
		return &domain.DeliveryError{Op: "poll", Err: fmt.Errorf("failed to dial: %w", err)}
	}
	if err := c.Login(r.username, r.password); err != nil {
		_ = c.Logout()
		return &domain.DeliveryError{Op: "poll", Err: fmt.Errorf("failed to login: %w", err)}
	}
	if _, err := c.Select("INBOX", false); err != nil {
		_ = c.Logout()
		return &domain.DeliveryError{Op: "poll", Err: fmt.Errorf("failed to select inbox: %w", err)}
	}

	r.client = c
	fmt.Printf("[Inbox] Connected to %s as %s\n", r.host, r.username)
	return nil
}

// PollOnce fetches every unseen message and hands it to handle. A
// message is flagged seen only after handle returns nil; a failed
// hand-off leaves it unseen for the next poll.
func (r *inboxRepo) PollOnce(ctx context.Context, handle func(*repo.InboundMessage) error) error {
	if r.client == nil {
		return &domain.DeliveryError{Op: "poll", Err: fmt.Errorf("not connected")}
	}

	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	ids, err := r.client.Search(criteria)
	if err != nil {
		return &domain.DeliveryError{Op: "poll", Err: fmt.Errorf("failed to search: %w", err)}
	}

	for _, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msg, err := r.fetchMessage(id)
		if err != nil {
			fmt.Printf("[Inbox] Failed to fetch message %d: %v\n", id, err)
			continue
		}

		if err := handle(msg); err != nil {
			// Left unseen so the next poll redelivers it.
			fmt.Printf("[Inbox] Hand-off failed for message %d: %v\n", id, err)
			continue
		}

		if err := r.markSeen(id); err != nil {
			fmt.Printf("[Inbox] Failed to mark message %d seen: %v\n", id, err)
		}
	}
	return nil
}

func (r *inboxRepo) fetchMessage(id uint32) (*repo.InboundMessage, error) {
	seqset := new(imap.SeqSet)
	seqset.AddNum(id)

	// Peek so fetching alone does not flag the message seen.
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{section.FetchItem()}

	ch := make(chan *imap.Message, 1)
	if err := r.client.Fetch(seqset, items, ch); err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}

	raw := <-ch
	if raw == nil {
		return nil, fmt.Errorf("no message returned")
	}
	body := raw.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("no body section")
	}

	mr, err := msgmail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}

	msg := &repo.InboundMessage{ReceivedAt: time.Now()}
	header := mr.Header

	if subject, err := header.Subject(); err == nil {
		msg.Subject = subject
	}
	if date, err := header.Date(); err == nil && !date.IsZero() {
		msg.ReceivedAt = date
	}
	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}
	if to, err := header.AddressList("To"); err == nil && len(to) > 0 {
		msg.To = to[0].Address
	}
	if messageID, err := header.MessageID(); err == nil {
		msg.MessageID = messageID
	}
	if refs, err := header.MsgIDList("In-Reply-To"); err == nil && len(refs) > 0 {
		msg.InReplyTo = refs[0]
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		inline, ok := part.Header.(*msgmail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := inline.ContentType()
		if err != nil {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			continue
		}
		switch contentType {
		case "text/plain":
			msg.Text = string(data)
		case "text/html":
			msg.HTML = string(data)
		}
	}

	return msg, nil
}

func (r *inboxRepo) markSeen(id uint32) error {
	seqset := new(imap.SeqSet)
	seqset.AddNum(id)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	flags := []interface{}{imap.SeenFlag}
	return r.client.Store(seqset, item, flags, nil)
}

// Close logs out of the IMAP session.
func (r *inboxRepo) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Logout()
	r.client = nil
	return err
}
