// Package di assembles the catalog components. Everything with lifecycle
// or shared state (store, caches, metrics recorder) is constructed exactly
// once here and handed to its consumers.
package di

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/cache"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/config"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/services"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/model"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/logger"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/metrics"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/repository"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/search"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/store"
)

// Container holds the assembled application components.
type Container struct {
	Store    store.DocumentStore
	Recorder *metrics.Recorder

	Books     *repository.Repository[model.Book]
	Magazines *repository.Repository[model.Magazine]
	Media     *repository.Repository[model.Media]
	LoanRepo  *repository.Repository[model.Loan]
	UserRepo  *repository.Repository[model.User]

	Engine  *search.Engine
	Catalog *services.CatalogService
	Loans   *services.LoanService
	Users   *services.UserService
}

// New wires repositories, caches, the search engine and the services over
// the given document store. The prometheus registry may be nil to disable
// metrics registration (tests).
func New(cfg *config.Config, docs store.DocumentStore, log *zap.Logger, registry prometheus.Registerer) (*Container, error) {
	recorder := metrics.NewRecorder(registry)

	books, err := newRepository[model.Book](cfg, "books", docs, log, recorder)
	if err != nil {
		return nil, err
	}
	magazines, err := newRepository[model.Magazine](cfg, "magazines", docs, log, recorder)
	if err != nil {
		return nil, err
	}
	media, err := newRepository[model.Media](cfg, "media", docs, log, recorder)
	if err != nil {
		return nil, err
	}
	loanRepo, err := newRepository[model.Loan](cfg, "loans", docs, log, recorder)
	if err != nil {
		return nil, err
	}
	userRepo, err := newRepository[model.User](cfg, "users", docs, log, recorder)
	if err != nil {
		return nil, err
	}

	engine := search.New(docs, nil,
		search.WithLogger(logger.WithComponent(log, "search")),
		search.WithObserver(recorder),
		search.WithRetry(cfg.Search.MaxAttempts, cfg.Search.RetryDelay),
	)

	catalog := services.NewCatalogService(books, magazines, media, engine)
	users := services.NewUserService(userRepo)
	loans := services.NewLoanService(loanRepo, catalog, users, logger.WithComponent(log, "loans"))

	return &Container{
		Store:     docs,
		Recorder:  recorder,
		Books:     books,
		Magazines: magazines,
		Media:     media,
		LoanRepo:  loanRepo,
		UserRepo:  userRepo,
		Engine:    engine,
		Catalog:   catalog,
		Loans:     loans,
		Users:     users,
	}, nil
}

// newRepository builds one repository plus its dedicated TTL cache. The
// collection name doubles as the cache name in metrics.
func newRepository[T any](cfg *config.Config, collection string, docs store.DocumentStore, log *zap.Logger, recorder *metrics.Recorder) (*repository.Repository[T], error) {
	entityCache := cache.New[T](collection,
		cache.WithTTL[T](cfg.Cache.TTL),
		cache.WithRecorder[T](recorder),
	)

	return repository.New[T](collection, docs, entityCache,
		repository.WithLogger[T](logger.WithComponent(log, collection)),
		repository.WithObserver[T](recorder),
		repository.WithSearchField[T](cfg.Search.DefaultField),
	)
}
