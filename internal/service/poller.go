package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// InboxPoller drives the inbox on a fixed interval, handing each
// unseen message to the workflow service.
type InboxPoller struct {
	inbox    repo.InboxRepo
	workflow *WorkflowService

	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewInboxPoller creates a new inbox poller.
func NewInboxPoller(inbox repo.InboxRepo, workflow *WorkflowService, interval time.Duration) *InboxPoller {
	return &InboxPoller{
		inbox:    inbox,
		workflow: workflow,
		interval: interval,
	}
}

// Start starts the polling loop.
func (p *InboxPoller) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.pollLoop()

	fmt.Printf("[Poller] Started with interval %v\n", p.interval)
}

// Stop stops the polling loop.
func (p *InboxPoller) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	fmt.Println("[Poller] Stopped")
}

func (p *InboxPoller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// First pass immediately so restarts pick up waiting replies.
	p.poll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *InboxPoller) poll() {
	err := p.inbox.PollOnce(p.ctx, func(msg *repo.InboundMessage) error {
		return p.workflow.HandleInbound(p.ctx, msg)
	})
	if err != nil {
		fmt.Printf("[Poller] Poll failed: %v\n", err)
		// Reconnect on the next tick after a transport failure.
		_ = p.inbox.Close()
		if err := p.inbox.Connect(p.ctx); err != nil {
			fmt.Printf("[Poller] Reconnect failed: %v\n", err)
		}
	}
}
