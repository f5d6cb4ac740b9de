package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/openrwa/fracshare/internal/config"
	"github.com/openrwa/fracshare/internal/domain"
	"github.com/openrwa/fracshare/internal/engine"
	"github.com/openrwa/fracshare/internal/eventlog"
	"github.com/openrwa/fracshare/internal/handler"
	"github.com/openrwa/fracshare/internal/service"
	"github.com/openrwa/fracshare/internal/settlement"
	"github.com/openrwa/fracshare/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Instantiate stores.
	assetStore := store.NewAssetStore()
	listingStore := store.NewListingStore()
	holdingStore := store.NewHoldingStore()

	// Event sinks: the in-memory log always, a durable Postgres projection
	// when DATABASE_URL is set.
	memLog := eventlog.NewMemoryLog()
	sink := domain.EventSink(memLog)
	if cfg.DatabaseURL != "" {
		pgLog, err := eventlog.NewPostgresLog(cfg.DatabaseURL, logger)
		if err != nil {
			logger.Error("failed to open postgres event log", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pgLog.Close()
		sink = eventlog.Fanout(memLog, pgLog)
	}

	// Engine.
	market := engine.NewMarket(
		assetStore,
		listingStore,
		engine.NewLedger(holdingStore),
		engine.NewRingSet(cfg.PriceHistoryDepth),
		engine.NewBookSet(),
		settlement.NewLogChannel(logger),
		sink,
	)

	// Services.
	assetSvc := service.NewAssetService(assetStore, market, sink)
	marketSvc := service.NewMarketService(market)
	valuationSvc := service.NewValuationService(market)

	// Router.
	router := handler.NewRouter(assetSvc, marketSvc, valuationSvc, memLog, cfg.ListingPageLimit, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
