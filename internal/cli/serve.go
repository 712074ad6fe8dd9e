package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riftrewind/internal/backend"
	"github.com/riftrewind/internal/config"
	"github.com/riftrewind/internal/server"
	"github.com/riftrewind/internal/services/ai"
	"github.com/riftrewind/internal/services/riot"
	"github.com/riftrewind/internal/storage"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the lookup, process and ask backend over HTTP",
		Long: `Starts the HTTP backend. Matches are persisted in the store selected by
STORAGE_BACKEND and questions are answered by the chat model at AI_API_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
}

func runServe(ctx context.Context) error {
	// Minimal logging - write directly to stdout for Docker
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stdout)
	log.Println("Starting RiftRewind...")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("storage error: %w", err)
	}
	defer store.Close()
	log.Printf("Storage backend: %s", cfg.StorageBackend)

	// Account lookups are cached in Redis when it is configured, whatever the match store.
	cache, owned := storage.AccountCache(ctx, store, cfg.RedisURL)
	if owned {
		defer cache.Close()
	}

	riotClient := riot.NewClient(cfg, cache)
	aiClient := ai.NewClient(cfg)
	logger := log.New(os.Stdout, "", log.Ltime)
	service := backend.NewService(cfg, riotClient, aiClient, store, logger)
	srv := server.New(cfg, service, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	log.Println("RiftRewind running")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Println("Shutting down...")

	// Graceful shutdown with short timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	log.Println("Stopped")
	return nil
}
