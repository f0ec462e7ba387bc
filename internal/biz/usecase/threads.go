package usecase

import "sync"

// Threads maps outbound preview Message-IDs to content ids. It is the
// secondary correlation channel for replies whose subject line was
// mangled by the reviewer's mail client.
type Threads struct {
	mu      sync.RWMutex
	byMsgID map[string]string
}

// NewThreads creates an empty thread map.
func NewThreads() *Threads {
	return &Threads{byMsgID: make(map[string]string)}
}

// Record associates an outbound message id with a content id.
func (t *Threads) Record(messageID, contentID string) {
	if messageID == "" || contentID == "" {
		return
	}
	t.mu.Lock()
	t.byMsgID[messageID] = contentID
	t.mu.Unlock()
}

// Resolve returns the content id a reply's In-Reply-To header points
// at, if the originating preview is known.
func (t *Threads) Resolve(inReplyTo string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byMsgID[inReplyTo]
	return id, ok
}
