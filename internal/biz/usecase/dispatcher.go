package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/biz/repo"
)

// Dispatcher routes a parsed command to its side effect, coordinating
// the revision ledger around each call.
//
// Per command: resolve content -> open revision (pending) -> processing
// -> side effect -> close (completed|failed). Failures are reported on
// both channels: the operator inbox via the notifier and the caller via
// the returned error.
type Dispatcher struct {
	registry  *Registry
	ledger    *Ledger
	store     *Store
	notifier  *Notifier
	preview   *Preview
	mail      repo.MailRepo
	generator repo.GeneratorRepo
	images    repo.ImageRepo
	publisher repo.PublisherRepo
	from      string
}

// NewDispatcher wires the dispatcher to its collaborators.
func NewDispatcher(
	registry *Registry,
	ledger *Ledger,
	store *Store,
	notifier *Notifier,
	preview *Preview,
	mail repo.MailRepo,
	generator repo.GeneratorRepo,
	images repo.ImageRepo,
	publisher repo.PublisherRepo,
	from string,
) *Dispatcher {
	return &Dispatcher{
		registry:  registry,
		ledger:    ledger,
		store:     store,
		notifier:  notifier,
		preview:   preview,
		mail:      mail,
		generator: generator,
		images:    images,
		publisher: publisher,
		from:      from,
	}
}

// Dispatch executes one command as an independent unit of work.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd domain.Command) error {
	if cmd.Type.Administrative() {
		if err := d.dispatchAdmin(ctx, cmd); err != nil {
			d.notifier.Notify(ctx, fmt.Sprintf("%s Processing Error", cmd.Type), err, map[string]any{
				"command": cmd,
			})
			return err
		}
		return nil
	}
	return d.dispatchContent(ctx, cmd)
}

func (d *Dispatcher) dispatchContent(ctx context.Context, cmd domain.Command) error {
	item, ok := d.registry.Get(cmd.ContentID)
	if !ok {
		// No revision entry for a target that does not exist.
		nfErr := &domain.ContentNotFoundError{ContentID: cmd.ContentID}
		d.notifier.Notify(ctx, "Content Not Found", nfErr, map[string]any{
			"command": cmd,
		})
		return nfErr
	}

	entry := d.ledger.Open(ctx, cmd.ContentID, item, cmd)
	d.ledger.MarkProcessing(ctx, cmd.ContentID, entry.ID)

	if err := d.execute(ctx, cmd, item); err != nil {
		d.ledger.Close(ctx, cmd.ContentID, entry.ID, domain.RevisionFailed, &domain.RevisionMetadata{
			ErrorDetail: err.Error(),
		})
		d.notifier.Notify(ctx, fmt.Sprintf("%s Processing Error", cmd.Type), err, map[string]any{
			"command": cmd,
			"content": map[string]any{
				"id":      cmd.ContentID,
				"title":   item.Title,
				"excerpt": item.Excerpt,
			},
			"revision": map[string]any{
				"id":        entry.ID,
				"createdAt": entry.CreatedAt,
			},
		})
		return err
	}

	d.ledger.Close(ctx, cmd.ContentID, entry.ID, domain.RevisionCompleted, nil)
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, cmd domain.Command, item *domain.ContentItem) error {
	switch cmd.Type {
	case domain.CommandUploadToPublish:
		return d.handlePublish(ctx, cmd, item)
	case domain.CommandChangeImage:
		return d.handleImageChange(ctx, cmd, item)
	case domain.CommandUpdateContent:
		return d.handleContentUpdate(ctx, cmd, item)
	case domain.CommandReject:
		return d.handleRejection(ctx, cmd)
	}
	return fmt.Errorf("unsupported command type: %s", cmd.Type)
}

func (d *Dispatcher) handlePublish(ctx context.Context, cmd domain.Command, item *domain.ContentItem) error {
	req := &repo.PublishRequest{
		Title:    item.Title,
		BodyHTML: item.BodyHTML,
		Excerpt:  item.Excerpt,
	}
	if len(item.Images) > 0 {
		img := item.Images[0]
		req.Image = &img
	}

	resp, err := d.publisher.Publish(ctx, req)
	if err != nil {
		return err
	}

	publishedAt := time.Now()
	updated, _, err := d.registry.Apply(cmd.ContentID, func(c *domain.ContentItem) error {
		c.PublishRecord = &domain.PublishRecord{
			ExternalID:  resp.ExternalID,
			Handle:      resp.Handle,
			PublishedAt: publishedAt,
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := d.store.RecordUpload(ctx, domain.UploadRecord{
		ContentID:  cmd.ContentID,
		ExternalID: resp.ExternalID,
		Handle:     resp.Handle,
		UploadedAt: publishedAt,
	}); err != nil {
		return err
	}
	if updated != nil {
		if err := d.store.SavePost(ctx, cmd.ContentID, updated); err != nil {
			return err
		}
	}

	fmt.Printf("[Dispatcher] Published %s as %s\n", cmd.ContentID, resp.Handle)
	return nil
}

func (d *Dispatcher) handleImageChange(ctx context.Context, cmd domain.Command, item *domain.ContentItem) error {
	summary := "Update image for article: " + item.Title
	if cmd.Context != nil && len(cmd.Context.SpecificRequests) > 0 {
		summary += "\nRequirements:\n" + strings.Join(cmd.Context.SpecificRequests, "\n")
	}

	scenario, err := d.images.GenerateScenario(ctx, summary, item.Keywords)
	if err != nil {
		return err
	}
	img, err := d.images.GenerateImage(ctx, scenario)
	if err != nil {
		return err
	}

	// Most recent image first.
	if _, _, err := d.registry.Apply(cmd.ContentID, func(c *domain.ContentItem) error {
		c.Images = append([]domain.Image{*img}, c.Images...)
		return nil
	}); err != nil {
		return err
	}

	return d.store.RecordImage(ctx, cmd.ContentID, img, scenario)
}

func (d *Dispatcher) handleContentUpdate(ctx context.Context, cmd domain.Command, item *domain.ContentItem) error {
	tone := "default"
	if cmd.Context != nil && cmd.Context.Tone != "" {
		tone = cmd.Context.Tone
	}

	instruction := fmt.Sprintf("Update article: %s with tone: %s", item.Title, tone)
	if cmd.Context != nil && len(cmd.Context.SpecificRequests) > 0 {
		instruction += "\nRequests:\n" + strings.Join(cmd.Context.SpecificRequests, "\n")
	}

	draft, err := d.generator.Generate(ctx, instruction, item.Keywords)
	if err != nil {
		return err
	}

	// Overwrite the copy, preserve links, images and keywords.
	_, _, err = d.registry.Apply(cmd.ContentID, func(c *domain.ContentItem) error {
		c.Title = draft.Title
		c.Excerpt = draft.Excerpt
		c.BodyHTML = draft.BodyHTML
		return nil
	})
	return err
}

func (d *Dispatcher) handleRejection(ctx context.Context, cmd domain.Command) error {
	rejection := domain.Rejection{
		Timestamp: time.Now(),
		Feedback:  cmd.Feedback,
	}
	if cmd.Context != nil {
		rejection.Tone = cmd.Context.Tone
		rejection.Issues = cmd.Context.SpecificRequests
		rejection.Urgency = cmd.Context.Urgency
	}

	_, _, err := d.registry.Apply(cmd.ContentID, func(c *domain.ContentItem) error {
		c.RejectionHistory = append(c.RejectionHistory, rejection)
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("[Dispatcher] Content %s rejected: %s\n", cmd.ContentID, cmd.Feedback)
	return nil
}

// dispatchAdmin handles the registry-wide commands. They bypass the
// content item and revision machinery and reply directly to the sender.
func (d *Dispatcher) dispatchAdmin(ctx context.Context, cmd domain.Command) error {
	switch cmd.Type {
	case domain.CommandListKeywords:
		keywords := d.store.Keywords()
		_, err := d.mail.Send(ctx, &repo.OutboundMessage{
			From:    d.from,
			To:      cmd.SenderAddress,
			Subject: "Current Keywords List",
			Text:    "Current keywords:\n\n" + strings.Join(keywords, "\n"),
		})
		return err

	case domain.CommandUpdateKeywords:
		if cmd.Context == nil || len(cmd.Context.Keywords) == 0 {
			return fmt.Errorf("update keywords: no keywords supplied")
		}
		return d.store.UpdateKeywords(ctx, cmd.Context.Keywords)

	case domain.CommandListPosts:
		var b strings.Builder
		b.WriteString("Published posts:\n\n")
		for _, p := range d.store.Posts() {
			fmt.Fprintf(&b, "%s\t%s\t%s\n", p.ID, p.Title, p.LastModified.Format(time.RFC3339))
		}
		b.WriteString("\nIn review:\n\n")
		for _, item := range d.registry.List() {
			fmt.Fprintf(&b, "%s\t%s\n", item.ID, item.Title)
		}
		_, err := d.mail.Send(ctx, &repo.OutboundMessage{
			From:    d.from,
			To:      cmd.SenderAddress,
			Subject: "Current Posts",
			Text:    b.String(),
		})
		return err

	case domain.CommandDeletePost:
		if cmd.Context == nil || cmd.Context.PostID == "" {
			return fmt.Errorf("delete post: no post id supplied")
		}
		d.registry.Delete(cmd.Context.PostID)
		return d.store.DeletePost(ctx, cmd.Context.PostID)

	case domain.CommandGeneratePosts:
		return d.handleGeneratePosts(ctx, cmd)
	}
	return fmt.Errorf("unsupported administrative command: %s", cmd.Type)
}

func (d *Dispatcher) handleGeneratePosts(ctx context.Context, cmd domain.Command) error {
	count := 1
	keywords := d.store.Keywords()
	if cmd.Context != nil {
		if cmd.Context.Count > 0 {
			count = cmd.Context.Count
		}
		if len(cmd.Context.Keywords) > 0 {
			keywords = cmd.Context.Keywords
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for i := 0; i < count; i++ {
		g.Go(func() error {
			draft, err := d.generator.Generate(gctx, "Write a new blog article", keywords)
			if err != nil {
				return err
			}
			item := &domain.ContentItem{
				Title:    draft.Title,
				Excerpt:  draft.Excerpt,
				BodyHTML: draft.BodyHTML,
				Keywords: draft.Keywords,
				Links:    draft.Links,
			}
			_, err = d.preview.SendPreview(gctx, item, cmd.SenderAddress)
			return err
		})
	}
	return g.Wait()
}
