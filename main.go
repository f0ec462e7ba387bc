package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/beastputty/beastblogger/internal/biz"
	"github.com/beastputty/beastblogger/internal/conf"
	"github.com/beastputty/beastblogger/internal/data"
	"github.com/beastputty/beastblogger/internal/service"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize repository layer
	repos, err := data.NewRepositories(cfg)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}

	fmt.Printf("[Blogger] Snapshot: %s, archive: %s\n", cfg.Storage.SnapshotPath, cfg.Storage.ArchivePath)

	// Initialize usecase layer
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

	ctx := context.Background()

	// Restore persisted state. A missing or corrupt snapshot starts
	// the service empty rather than refusing to run.
	if err := uc.Store.Load(ctx); err != nil {
		fmt.Printf("[Blogger] Snapshot load failed, starting empty: %v\n", err)
	}
	uc.Registry.Restore(uc.Store.Drafts())
	fmt.Printf("[Blogger] Restored %d draft(s) in review\n", len(uc.Registry.List()))

	// Initialize service layer
	workflow := service.NewWorkflowService(repos.Parser, uc.Dispatcher, uc.Threads)
	poller := service.NewInboxPoller(repos.Inbox, workflow, cfg.PollInterval)

	if err := repos.Inbox.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect inbox: %v", err)
	}

	workflow.Start(ctx)
	poller.Start(ctx)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Starting BeastBlogger email workflow...")
	<-sigCh
	fmt.Println("\nShutting down...")

	poller.Stop()
	workflow.Stop()

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := uc.Store.Flush(flushCtx, uc.Registry.Export()); err != nil {
		fmt.Printf("[Blogger] Final snapshot flush failed: %v\n", err)
	}
	if err := repos.Close(); err != nil {
		fmt.Printf("[Blogger] Close error: %v\n", err)
	}
}
