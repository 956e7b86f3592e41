package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/atlaspath/siteserve/internal/api"
	"github.com/atlaspath/siteserve/internal/articles"
	"github.com/atlaspath/siteserve/internal/compiler"
	"github.com/atlaspath/siteserve/internal/config"
	"github.com/atlaspath/siteserve/internal/content"
	"github.com/atlaspath/siteserve/internal/related"
	"github.com/atlaspath/siteserve/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	comp := compiler.New(compiler.DefaultOptions())
	catalog := content.NewCatalog(store.New(cfg.ContentRoot), comp)
	ranker := related.NewRanker(catalog, cfg.RelatedLimit, cfg.RelatedConcurrency, log)
	blog := articles.New(cfg.ArticlesRoot, comp)

	srv := api.NewServer(catalog, ranker, blog, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting siteserve", "port", cfg.Port, "content_root", cfg.ContentRoot)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
