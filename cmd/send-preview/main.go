package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/beastputty/beastblogger/internal/biz"
	"github.com/beastputty/beastblogger/internal/biz/domain"
	"github.com/beastputty/beastblogger/internal/conf"
	"github.com/beastputty/beastblogger/internal/data"
)

// One-shot utility: generate a draft article and email it for review.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	reviewer := cfg.Mail.Reviewer
	if len(os.Args) > 1 {
		reviewer = os.Args[1]
	}
	if reviewer == "" {
		fmt.Println("Usage: send-preview <reviewer-email> [keyword ...]")
		os.Exit(1)
	}

	keywords := os.Args[2:]

	repos, err := data.NewRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()

	uc := biz.NewUsecases(biz.Deps{
		Mail:      repos.Mail,
		Generator: repos.Generator,
		Images:    repos.Images,
		Publisher: repos.Publisher,
		Snapshot:  repos.Snapshot,
		Archive:   repos.Archive,
		From:      cfg.Mail.From,
		Operator:  cfg.Mail.Operator,
		Footer:    cfg.Prompts.Preview.FooterHTML,
	})

	if err := uc.Store.Load(ctx); err != nil {
		fmt.Printf("Snapshot load failed, continuing: %v\n", err)
	}
	uc.Registry.Restore(uc.Store.Drafts())
	if len(keywords) == 0 {
		keywords = uc.Store.Keywords()
	}

	fmt.Printf("Generating article (keywords: %s)...\n", strings.Join(keywords, ", "))
	draft, err := repos.Generator.Generate(ctx, "Write a new blog article", keywords)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	item := &domain.ContentItem{
		Title:    draft.Title,
		Excerpt:  draft.Excerpt,
		BodyHTML: draft.BodyHTML,
		Keywords: draft.Keywords,
		Links:    draft.Links,
	}

	contentID, err := uc.Preview.SendPreview(ctx, item, reviewer)
	if err != nil {
		log.Fatalf("Preview send failed: %v", err)
	}

	if err := uc.Store.Flush(ctx, uc.Registry.Export()); err != nil {
		log.Fatalf("Snapshot flush failed: %v", err)
	}

	fmt.Printf("Preview %s sent to %s\n", contentID, reviewer)
}
