package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lhzhang/itemmarket-data/internal/config"
	"github.com/lhzhang/itemmarket-data/internal/database"
	"github.com/lhzhang/itemmarket-data/internal/job"
	"github.com/lhzhang/itemmarket-data/internal/scheduler"
	"github.com/lhzhang/itemmarket-data/internal/stats"
	"github.com/lhzhang/itemmarket-data/internal/store"
	"github.com/lhzhang/itemmarket-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/trendjob.local.yaml", "path to config file")
	once := flag.Bool("once", false, "recompute once and exit")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting trendjob",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"cron", cfg.Job.Cron,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	trends := store.NewTrendStore(pool, logger)
	if err := trends.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure trend schema", "error", err)
		os.Exit(1)
	}

	prices := store.NewPriceStore(pool, logger)
	movers := stats.New(prices, cfg.Stats.HistoryDays, logger)

	recompute := job.New(job.Config{Timeout: cfg.Job.Timeout}, prices, trends, logger)

	if *once {
		if err := recompute.Run(ctx); err != nil {
			logger.Error("recompute failed", "error", err)
			os.Exit(1)
		}
		logger.Info("recompute finished, exiting")
		return
	}

	sched, err := scheduler.New(cfg.Job.Cron, recompute, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}

	// Start health server before the first recompute so progress is observable
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(pool, trends, movers, logger),
	}

	go func() {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	sched.Start(ctx)
	defer sched.Stop()

	if cfg.Job.RunOnStart {
		logger.Info("running initial recompute")
		if err := sched.RunNow(ctx); err != nil {
			logger.Error("initial recompute failed", "error", err)
		}
	}

	logger.Info("trendjob running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	// Graceful shutdown of health server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	healthServer.Shutdown(shutdownCtx)

	logger.Info("trendjob stopped")
}

// createHealthHandler creates the HTTP handler for health checks and
// read-only debug views over the computed data.
func createHealthHandler(pool *pgxpool.Pool, trends *store.TrendStore, movers *stats.Service, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	mux.HandleFunc("/debug/trends", func(w http.ResponseWriter, r *http.Request) {
		rows, err := trends.Read(r.Context(), nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": len(rows),
			"rows":  rows,
		})
	})

	mux.HandleFunc("/debug/movers", func(w http.ResponseWriter, r *http.Request) {
		var items any
		var err error
		switch r.URL.Query().Get("window") {
		case "", "24h":
			items, err = movers.Movers24h(r.Context())
		case "7d":
			items, err = movers.Movers7d(r.Context())
		default:
			http.Error(w, "window must be 24h or 7d", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(items)
	})

	mux.HandleFunc("/debug/items", func(w http.ResponseWriter, r *http.Request) {
		if id := r.URL.Query().Get("id"); id != "" {
			itemID, err := strconv.ParseInt(id, 10, 64)
			if err != nil {
				http.Error(w, "id must be an integer", http.StatusBadRequest)
				return
			}
			history, err := movers.ItemHistory(r.Context(), itemID)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(history)
			return
		}

		items, err := movers.Items(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"count": len(items),
			"items": items,
		})
	})

	return mux
}
