package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"teamfit-tracker/internal/config"
	"teamfit-tracker/internal/database"
	"teamfit-tracker/internal/handlers"
	"teamfit-tracker/internal/metrics"
	"teamfit-tracker/internal/middleware"
	"teamfit-tracker/internal/recompute"
)

func main() {
	seed := flag.Bool("seed", false, "Populate the database with demo data, recompute leaderboards and exit")
	rebuild := flag.Bool("rebuild", false, "Run a full leaderboard recomputation and exit")

	flag.Parse()

	if *seed || *rebuild {
		runCLI(*seed, *rebuild)
		return
	}

	runServer()
}

func runCLI(seed, rebuild bool) {
	// Quiet structured logging for CLI use
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if seed {
		fmt.Println("Seeding demo data...")
		if err := db.Seed(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to seed database: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Recomputing leaderboards...")
	driver := recompute.NewDriver(db)
	driver.RebuildAndWait()
	driver.Close()

	fmt.Println("✓ Done")
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting teamfit-tracker server",
		"addr", cfg.Addr(),
		"database", cfg.DatabasePath,
		"log_level", cfg.LogLevel)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	logger.Info("Database opened successfully")

	driver := recompute.NewDriver(db)
	defer driver.Close()

	// Bring the materialized leaderboards in line with whatever the ledger
	// holds now, without blocking startup
	driver.TriggerFull()

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer limiter.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handlers.NewRouter(db, driver, limiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	var metricsServer *http.Server
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    cfg.MetricsAddr(),
			Handler: metricsMux,
		}

		g.Go(func() error {
			logger.Info("Metrics server listening", "addr", cfg.MetricsAddr())
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			logger.Info("Starting stats collector")
			metrics.StartStatsCollector(gctx, db, 15*time.Second)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", "error", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Error("Metrics server shutdown failed", "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
