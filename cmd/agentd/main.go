// agentd serves the storefront's catalog and cart as MCP tools over HTTP.
// Designed for Cloud Run deployment with stateless operation; cart state
// lives in Redis when configured.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-core/internal/agent"
	"storefront-core/internal/cart"
	"storefront-core/internal/catalog"
	"storefront-core/internal/config"
	"storefront-core/internal/middleware"
	"storefront-core/internal/storage"
	"storefront-core/internal/storefront"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := initLogger()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("configuration loaded",
		slog.String("shop_id", cfg.ShopID),
		slog.String("environment", cfg.Environment),
		slog.String("store_domain", cfg.Storefront.StoreDomain),
	)

	client, err := storefront.New(storefront.Config{
		StoreDomain: cfg.Storefront.StoreDomain,
		AccessToken: cfg.Storefront.AccessToken,
		APIVersion:  cfg.Storefront.APIVersion,
		MaxRetries:  cfg.Storefront.MaxRetries,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating storefront client: %w", err)
	}

	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening cart storage: %w", err)
	}

	cartStore := cart.New(cart.Options{
		Storage:  store,
		Checkout: client,
		Logger:   logger,
	})

	// Remote catalog first; built-in fallback keeps the tools answering
	// (read-only) when the backend is unreachable.
	source := catalog.NewChain(client, catalog.DefaultFallback())

	h := agent.New(source, cartStore, logger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	// Recovery must be outermost to catch panics from logging middleware
	httpHandler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logging(logger),
	)(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr))
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		// Give outstanding requests time to complete
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			server.Close()
			return fmt.Errorf("shutdown error: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

// openStorage selects the cart persistence backend: Redis when an address is
// configured, a file when a path is, in-memory otherwise. Whatever is chosen
// is capability-probed; a backend that fails the probe degrades to memory.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch {
	case cfg.Storage.RedisAddr != "":
		redis, err := storage.NewRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return storage.Open(ctx, redis, logger), nil

	case cfg.Storage.FilePath != "":
		file, err := storage.NewFile(cfg.Storage.FilePath)
		if err != nil {
			return nil, fmt.Errorf("opening cart file: %w", err)
		}
		return storage.Open(ctx, file, logger), nil

	default:
		return storage.NewMemory(), nil
	}
}

// initLogger creates a structured logger configured for the environment.
// Production uses JSON format for GCP Cloud Logging compatibility.
func initLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if os.Getenv("ENVIRONMENT") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
