package biz

import (
	"github.com/beastputty/beastblogger/internal/biz/repo"
	"github.com/beastputty/beastblogger/internal/biz/usecase"
)

// Usecases contains all usecases
type Usecases struct {
	Registry   *usecase.Registry
	Ledger     *usecase.Ledger
	Store      *usecase.Store
	Threads    *usecase.Threads
	Notifier   *usecase.Notifier
	Preview    *usecase.Preview
	Dispatcher *usecase.Dispatcher
}

// Deps is the data-layer surface the usecases are wired against.
type Deps struct {
	Mail      repo.MailRepo
	Generator repo.GeneratorRepo
	Images    repo.ImageRepo
	Publisher repo.PublisherRepo
	Snapshot  repo.SnapshotRepo
	Archive   repo.ArchiveRepo

	From     string // sender address for outbound mail
	Operator string // failure notification recipient
	Footer   string // preview reviewer guidance, empty for default
}

// NewUsecases wires the usecase layer. The registry and ledger share
// one per-content lock set so revision snapshots stay consistent with
// the mutations they audit.
func NewUsecases(d Deps) *Usecases {
	locks := usecase.NewKeyLocks()
	registry := usecase.NewRegistry(locks)
	ledger := usecase.NewLedger(locks, d.Archive)
	store := usecase.NewStore(d.Snapshot)
	threads := usecase.NewThreads()
	notifier := usecase.NewNotifier(d.Mail, d.From, d.Operator)
	preview := usecase.NewPreview(d.Mail, registry, threads, d.From, d.Footer)
	dispatcher := usecase.NewDispatcher(
		registry, ledger, store, notifier, preview,
		d.Mail, d.Generator, d.Images, d.Publisher,
		d.From,
	)

	return &Usecases{
		Registry:   registry,
		Ledger:     ledger,
		Store:      store,
		Threads:    threads,
		Notifier:   notifier,
		Preview:    preview,
		Dispatcher: dispatcher,
	}
}
