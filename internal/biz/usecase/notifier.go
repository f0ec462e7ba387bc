package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"html"

	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// Notifier emails diagnostics to the operator when dispatch fails. It
// never returns an error and never panics: a notifier failure must not
// mask the error propagation of the workflow that called it.
type Notifier struct {
	mail     repo.MailRepo
	from     string
	operator string
}

// NewNotifier creates a notifier addressed to the operator address.
func NewNotifier(mail repo.MailRepo, from, operator string) *Notifier {
	return &Notifier{mail: mail, from: from, operator: operator}
}

// Notify sends a diagnostic email describing err, synchronously. The
// context blob is rendered as JSON in the message body.
func (n *Notifier) Notify(ctx context.Context, title string, err error, contextBlob map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[Notifier] Recovered from panic while notifying: %v\n", r)
		}
	}()

	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}

	var blob string
	if contextBlob != nil {
		if b, jerr := json.MarshalIndent(contextBlob, "", "  "); jerr == nil {
			blob = string(b)
		} else {
			blob = fmt.Sprintf("context not serializable: %v", jerr)
		}
	}

	text := fmt.Sprintf("An error occurred: %s", errMsg)
	if blob != "" {
		text += "\n\nContext:\n" + blob
	}

	htmlBody := fmt.Sprintf("<h2>Error: %s</h2>\n<p><strong>Message:</strong> %s</p>",
		html.EscapeString(title), html.EscapeString(errMsg))
	if blob != "" {
		htmlBody += fmt.Sprintf("\n<pre>%s</pre>", html.EscapeString(blob))
	}

	msg := &repo.OutboundMessage{
		From:    n.from,
		To:      n.operator,
		Subject: "Error: " + title,
		Text:    text,
		HTML:    htmlBody,
	}

	if _, sendErr := n.mail.Send(ctx, msg); sendErr != nil {
		fmt.Printf("[Notifier] Failed to send error notification %q: %v\n", title, sendErr)
	}
}
