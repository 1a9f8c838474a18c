package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/app"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/config"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/internal/docstore"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/di"
	"github.com/mahsel79/FulkopingLibraryWeb-sub000/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("LIBRARY_CONFIG_DIR"))
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Server.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	docs, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer docs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := docs.Init(ctx); err != nil {
		return fmt.Errorf("initialize document store: %w", err)
	}

	registry := prometheus.NewRegistry()
	container, err := di.New(cfg, docs, log, registry)
	if err != nil {
		return err
	}

	router := app.NewRouter(container, registry)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (*docstore.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		return docstore.NewPostgres(cfg.Store.DSN)
	default:
		return docstore.NewSQLite(cfg.Store.Path)
	}
}
