package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/restaurant-ledger/internal/config"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/handlers"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/metrics"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/observability"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/repository"
	"github.com/Lixing-Zhang/restaurant-ledger/internal/service"
	"github.com/Lixing-Zhang/restaurant-ledger/pkg/logger"
)

const version = "1.0.0"

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting restaurant ledger server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"faucet_enabled", cfg.Faucet.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
		"trace_exporter", cfg.Tracing.Exporter,
	)

	// Initialize tracing; services pick up the global provider
	shutdownTracing, err := observability.SetupTracing(context.Background(), cfg.Tracing, version)
	if err != nil {
		log.Error("failed to set up tracing", "error", err)
		os.Exit(1)
	}

	var (
		m        *metrics.Metrics
		recorder metrics.Recorder = metrics.Nop{}
	)
	if cfg.Metrics.Enabled {
		m = metrics.New()
		recorder = m
	}

	// Initialize repositories
	restaurantRepo := repository.NewInMemoryRestaurantRepository()
	capabilityRepo := repository.NewInMemoryCapabilityRepository(cfg.Ledger.CapabilityFilterSize)
	walletRepo := repository.NewInMemoryWalletRepository()

	// Initialize services
	restaurantService := service.NewRestaurantService(restaurantRepo, capabilityRepo, walletRepo, recorder, log)
	walletService := service.NewWalletService(walletRepo, cfg.Faucet.MaxAmount, recorder, log)

	router := handlers.NewRouter(handlers.RouterDeps{
		Config:      cfg,
		Log:         log,
		Restaurants: restaurantService,
		Wallets:     walletService,
		Metrics:     m,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := shutdownTracing(ctx); err != nil {
		log.Error("failed to flush traces", "error", err)
	}

	log.Info("server stopped gracefully")
}
