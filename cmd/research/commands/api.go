package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/openresearch/backend/internal/api"
	"github.com/wonny/openresearch/backend/internal/api/handlers"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/report"
	"github.com/wonny/openresearch/backend/internal/scheduler"
	"github.com/wonny/openresearch/backend/internal/scheduler/jobs"
	"github.com/wonny/openresearch/backend/pkg/config"
	"github.com/wonny/openresearch/backend/pkg/database"
	"github.com/wonny/openresearch/backend/pkg/logger"
	"github.com/wonny/openresearch/backend/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the research API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                - Health check
  GET /metrics               - Prometheus metrics
  GET /api/research          - Assemble a research report (?ticker=AAPL)
  GET /api/research/history  - Stored reports for a ticker

Example:
  go run ./cmd/research api
  go run ./cmd/research api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	mets := metrics.NewRegistry()

	// 3. Optional database for report history
	var repo *report.Repository
	if cfg.Database.Enabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo = report.NewRepository(db, log)

		schemaCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repo.EnsureSchema(schemaCtx); err != nil {
			return fmt.Errorf("ensure report schema: %w", err)
		}
		log.Info("Connected to database")
	} else {
		log.Info("No database configured, report history disabled")
	}

	// 4. Optional Redis report cache
	var cache *redis.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()

		cache = redis.NewCache(redisClient, "openresearch")
		log.Info("Connected to Redis")
	}

	// 5. Build the report pipeline
	assembler, err := buildAssembler(cfg, log, mets)
	if err != nil {
		return err
	}

	// 6. Handlers and router
	researchHandler := handlers.NewResearchHandler(assembler, cache, cfg.Pipeline.CacheTTL, repo, mets, log)
	historyHandler := handlers.NewHistoryHandler(repo, log)
	router := api.NewRouter(researchHandler, historyHandler, mets, log)

	// 7. Scheduler for watchlist refresh
	var sched *scheduler.Scheduler
	if len(cfg.Pipeline.Watchlist) > 0 {
		sched = scheduler.New(log)
		job := jobs.NewWatchlistRefreshJob(
			assembler, cache, cfg.Pipeline.CacheTTL, repo,
			cfg.Pipeline.Watchlist, cfg.Pipeline.RefreshCron, log,
		)
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("schedule watchlist refresh: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	// 8. Start server with graceful shutdown
	server := api.New(cfg, log, router)
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
