// backend/cmd_serve.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gewnthar/sitetrack/config"
	"github.com/gewnthar/sitetrack/database"
	"github.com/gewnthar/sitetrack/handlers"
	"github.com/gewnthar/sitetrack/scraper"
	"github.com/gewnthar/sitetrack/services"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server with periodic refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			return serve()
		},
	}
}

func serve() error {
	log.Println("Starting sitetrack server...")

	store, err := openRunStore()
	if err != nil {
		return err
	}
	defer database.CloseDB()

	ingestor := services.NewIngestor(config.AppConfig.Sources, scraper.NewFetcher(config.AppConfig))
	opts := services.CacheOptions{Interval: config.AppConfig.Refresh.Interval}
	var runs handlers.RunLister
	if store != nil {
		opts.Recorder = store
		runs = store
	}
	cache := services.NewSnapshotCache(ingestor.Ingest, opts)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The server starts even if the first refresh fails; endpoints report
	// "data unavailable" until a refresh succeeds.
	if _, err := cache.Refresh(ctx); err != nil {
		log.Printf("ERROR Service: Initial refresh failed: %v\n", err)
	}
	go cache.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.Server.Port,
		Handler:           handlers.NewAPI(cache, runs).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on http://localhost%s\n", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("Server stopped.")
	return nil
}
