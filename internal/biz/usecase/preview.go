package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// PreviewSubjectPrefix starts every review request subject; replies are
// correlated by extracting the content id that follows it.
const PreviewSubjectPrefix = "Content Preview: "

// Preview sends review request emails and registers the content item
// they present under a freshly allocated content id.
type Preview struct {
	mail     repo.MailRepo
	registry *Registry
	threads  *Threads
	from     string
	footer   string // reviewer guidance appended to the HTML body

	newContentID func() string
	newMessageID func() string
}

// NewPreview creates a preview sender. footer is the reviewer guidance
// block from the prompts config; empty selects the built-in default.
func NewPreview(mail repo.MailRepo, registry *Registry, threads *Threads, from, footer string) *Preview {
	if footer == "" {
		footer = DefaultPreviewFooter
	}
	return &Preview{
		mail:     mail,
		registry: registry,
		threads:  threads,
		from:     from,
		footer:   footer,
		newContentID: func() string {
			return "content_" + uuid.NewString()
		},
		newMessageID: func() string {
			return fmt.Sprintf("msg_%s@beastputty.com", uuid.NewString())
		},
	}
}

// DefaultPreviewFooter is the reviewer guidance included in every
// preview email.
const DefaultPreviewFooter = `<p>Please review the content above and reply with your feedback. You can:</p>
<ul>
<li>Approve and publish the content</li>
<li>Request changes to the images</li>
<li>Request content revisions</li>
<li>Reject the content with feedback</li>
</ul>
<p>Feel free to provide your feedback in natural language - our system will understand your intent.</p>`

// SendPreview allocates a content id, registers item under it, and
// emails the preview to toEmail. Returns the new content id.
func (p *Preview) SendPreview(ctx context.Context, item *domain.ContentItem, toEmail string) (string, error) {
	contentID := p.newContentID()
	p.registry.Put(contentID, item)

	messageID := p.newMessageID()

	msg := &repo.OutboundMessage{
		From:      p.from,
		To:        toEmail,
		Subject:   PreviewSubjectPrefix + contentID,
		Text:      p.renderText(item),
		HTML:      p.renderHTML(item),
		MessageID: messageID,
	}

	if _, err := p.mail.Send(ctx, msg); err != nil {
		return "", fmt.Errorf("failed to send preview for %s: %w", contentID, err)
	}

	p.threads.Record(messageID, contentID)
	fmt.Printf("[Preview] Sent %s to %s\n", contentID, toEmail)
	return contentID, nil
}

func (p *Preview) renderText(item *domain.ContentItem) string {
	var b strings.Builder
	b.WriteString(item.Title)
	b.WriteString("\n\n")
	b.WriteString(item.Excerpt)
	b.WriteString("\n\n")
	b.WriteString(item.BodyHTML)
	b.WriteString("\n\nPlease review and reply with your feedback.")
	return b.String()
}

func (p *Preview) renderHTML(item *domain.ContentItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(item.Title))
	fmt.Fprintf(&b, "<p><strong>Excerpt:</strong> %s</p>\n<hr>\n", html.EscapeString(item.Excerpt))
	// BodyHTML is generator output already restricted to the allowed
	// tag set, embedded as-is.
	b.WriteString(item.BodyHTML)
	b.WriteString("\n<hr>\n")
	b.WriteString(p.footer)
	return b.String()
}
