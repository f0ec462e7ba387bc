package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
	"github.com/beastputty/beastblogger/internal/biz/usecase"
)

// previewSubjectRegex extracts the content identifier from a reply
// subject. Tolerates "Re:"/"Fwd:" prefixes since it matches anywhere.
var previewSubjectRegex = regexp.MustCompile(`Content Preview: ([a-zA-Z0-9_-]+)`)

// adminQueueKey serializes administrative commands, which touch shared
// storage rather than a single content item.
const adminQueueKey = "__admin__"

// WorkflowService turns inbound reviewer replies into dispatched
// commands. Commands for the same content item run in receipt order;
// different content items proceed in parallel.
type WorkflowService struct {
	parser     repo.ParserRepo
	dispatcher *usecase.Dispatcher
	threads    *usecase.Threads

	queuesMu sync.Mutex
	queues   map[string]chan func()

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkflowService creates a new workflow service.
func NewWorkflowService(parser repo.ParserRepo, dispatcher *usecase.Dispatcher, threads *usecase.Threads) *WorkflowService {
	return &WorkflowService{
		parser:     parser,
		dispatcher: dispatcher,
		threads:    threads,
		queues:     make(map[string]chan func()),
	}
}

// Start prepares the dispatch queues.
func (s *WorkflowService) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
}

// Stop halts the queue workers and waits for in-flight commands.
func (s *WorkflowService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	fmt.Println("[Workflow] Stopped")
}

// HandleInbound processes a single reviewer reply. A reply the
// interpreter cannot make sense of yields zero commands and is
// swallowed here; only transport-level problems propagate so the
// message stays unseen for the next poll.
func (s *WorkflowService) HandleInbound(ctx context.Context, msg *repo.InboundMessage) error {
	contentID := s.correlate(msg)

	body := msg.Text
	if strings.TrimSpace(body) == "" {
		body = msg.HTML
	}
	if strings.TrimSpace(body) == "" {
		fmt.Printf("[Workflow] Empty reply from %s, skipping\n", msg.From)
		return nil
	}

	parsed, err := s.parser.Parse(ctx, body)
	if err != nil {
		var interpErr *domain.InterpretationError
		if errors.As(err, &interpErr) {
			fmt.Printf("[Workflow] Uninterpretable reply from %s: %v\n", msg.From, err)
			return nil
		}
		return err
	}
	if len(parsed) == 0 {
		fmt.Printf("[Workflow] No commands in reply from %s\n", msg.From)
		return nil
	}

	fmt.Printf("[Workflow] %d command(s) from %s (content=%q)\n", len(parsed), msg.From, contentID)

	for _, pc := range parsed {
		cmd := domain.Command{
			Type:          pc.Type,
			SenderAddress: msg.From,
			Feedback:      pc.Feedback,
			Context:       pc.Context,
		}
		key := adminQueueKey
		if !pc.Type.Administrative() {
			// An empty content identifier still dispatches: the
			// dispatcher escalates it as content-not-found.
			cmd.ContentID = contentID
			key = contentID
		}
		s.enqueue(key, cmd)
	}
	return nil
}

// correlate resolves the content identifier for a reply, first from
// the subject line, then from the In-Reply-To thread.
func (s *WorkflowService) correlate(msg *repo.InboundMessage) string {
	if match := previewSubjectRegex.FindStringSubmatch(msg.Subject); match != nil {
		return match[1]
	}
	if ref := strings.Trim(strings.TrimSpace(msg.InReplyTo), "<>"); ref != "" {
		if contentID, ok := s.threads.Resolve(ref); ok {
			return contentID
		}
	}
	return ""
}

// enqueue places the command on the serial queue for its key.
func (s *WorkflowService) enqueue(key string, cmd domain.Command) {
	queue := s.queueFor(key)
	job := func() {
		if err := s.dispatcher.Dispatch(s.ctx, cmd); err != nil {
			fmt.Printf("[Workflow] Dispatch %s for %q failed: %v\n", cmd.Type, cmd.ContentID, err)
		}
	}
	select {
	case queue <- job:
	case <-s.ctx.Done():
	}
}

func (s *WorkflowService) queueFor(key string) chan func() {
	s.queuesMu.Lock()
	defer s.queuesMu.Unlock()

	queue, ok := s.queues[key]
	if !ok {
		queue = make(chan func(), 16)
		s.queues[key] = queue
		s.wg.Add(1)
		go s.worker(queue)
	}
	return queue
}

func (s *WorkflowService) worker(queue chan func()) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case job := <-queue:
			job()
		}
	}
}
