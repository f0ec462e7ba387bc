package data

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/beastputty/beastblogger/internal/biz/repo"
	"github.com/beastputty/beastblogger/internal/conf"
)

var errNoChoices = errors.New("model returned no choices")

// Repositories bundles every data-layer implementation.
type Repositories struct {
	Mail      repo.MailRepo
	Inbox     repo.InboxRepo
	Parser    repo.ParserRepo
	Generator repo.GeneratorRepo
	Images    repo.ImageRepo
	Publisher repo.PublisherRepo
	Snapshot  repo.SnapshotRepo
	Archive   repo.ArchiveRepo
}

// NewRepositories wires the data layer from configuration.
func NewRepositories(cfg *conf.Config) (*Repositories, error) {
	clientConfig := openai.DefaultConfig(cfg.OpenAI.APIKey)
	if cfg.OpenAI.BaseURL != "" {
		clientConfig.BaseURL = cfg.OpenAI.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	archive, err := NewArchiveRepo(cfg.Storage.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open revision archive: %w", err)
	}

	return &Repositories{
		Mail:      NewMailRepo(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.Username, cfg.Mail.Password),
		Inbox:     NewInboxRepo(cfg.Mail.IMAPHost, cfg.Mail.IMAPPort, cfg.Mail.Username, cfg.Mail.Password),
		Parser:    NewParserRepo(client, cfg.OpenAI.Model, cfg.Prompts.Parser.SystemPrompt),
		Generator: NewGeneratorRepo(client, cfg.OpenAI.Model, cfg.Prompts.Generator.SystemPrompt),
		Images:    NewImageRepo(client, cfg.OpenAI.Model, cfg.OpenAI.ImageModel, cfg.Prompts.Image.ScenarioPrompt),
		Publisher: NewPublisherRepo(cfg.Shopify.ShopDomain, cfg.Shopify.AccessToken, cfg.Shopify.BlogID, cfg.Shopify.APIVersion),
		Snapshot:  NewSnapshotRepo(cfg.Storage.SnapshotPath),
		Archive:   archive,
	}, nil
}

// Close releases data-layer resources.
func (r *Repositories) Close() error {
	var errs []error
	if r.Inbox != nil {
		if err := r.Inbox.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.Archive != nil {
		if err := r.Archive.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
