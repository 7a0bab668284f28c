package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/wikidoc/internal/api"
	"github.com/dgallion1/wikidoc/internal/config"
	"github.com/dgallion1/wikidoc/internal/extdata"
	"github.com/dgallion1/wikidoc/internal/parser"
	"github.com/dgallion1/wikidoc/internal/pipeline"
	"github.com/dgallion1/wikidoc/internal/source"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ext, err := loadExtData(ctx, cfg, log)
	if err != nil {
		log.Error("extended data", "error", err)
		os.Exit(1)
	}
	p := parser.New(ext)

	// Initialize article source.
	var (
		fetcher source.Fetcher
		store   *source.Store
		closers []func()
	)
	if cfg.SourceBackend == config.BackendSQLite || cfg.CacheArticles {
		store, err = source.OpenStore(ctx, cfg.SourceDBPath)
		if err != nil {
			log.Error("open article store", "path", cfg.SourceDBPath, "error", err)
			os.Exit(1)
		}
		closers = append(closers, func() { store.Close() })
	}
	switch {
	case cfg.SourceBackend == config.BackendSQLite:
		fetcher = store
	case cfg.CacheArticles:
		client := source.NewAPIClient(cfg.WikiAPIURL, cfg.UserAgent)
		closers = append(closers, client.Close)
		fetcher = &source.Cached{Upstream: client, Store: store}
	default:
		client := source.NewAPIClient(cfg.WikiAPIURL, cfg.UserAgent)
		closers = append(closers, client.Close)
		fetcher = client
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, fetcher, p, pipeline.NewStats(time.Hour), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, p, fetcher, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		for _, c := range closers {
			c()
		}
	}()

	log.Info("starting wikidoc", "port", cfg.Port, "source", cfg.SourceBackend, "cache", cfg.CacheArticles)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadExtData merges the optional extended template tables from a local file
// and a remote URL. Both unset yields nil, the built-in tables only.
func loadExtData(ctx context.Context, cfg config.Config, log *slog.Logger) (*extdata.Tables, error) {
	var ext *extdata.Tables
	if cfg.ExtDataPath != "" {
		t, err := extdata.LoadFile(cfg.ExtDataPath)
		if err != nil {
			return nil, err
		}
		log.Info("loaded extended data", "path", cfg.ExtDataPath)
		ext = t
	}
	if cfg.ExtDataURL != "" {
		f := extdata.NewFetcher(cfg.UserAgent)
		defer f.Close()
		fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		t, err := f.Fetch(fetchCtx, cfg.ExtDataURL)
		if err != nil {
			return nil, err
		}
		log.Info("fetched extended data", "url", cfg.ExtDataURL)
		ext = ext.Merge(t)
	}
	return ext, nil
}
