package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/report"
	"github.com/wonny/openresearch/backend/internal/scheduler/jobs"
	"github.com/wonny/openresearch/backend/pkg/config"
	"github.com/wonny/openresearch/backend/pkg/database"
	"github.com/wonny/openresearch/backend/pkg/logger"
	"github.com/wonny/openresearch/backend/pkg/redis"
)

// refreshCmd represents the refresh command
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the watchlist once and exit",
	Long: `Runs the watchlist refresh job a single time: assembles a report
for every WATCHLIST ticker, warms the cache and appends history.

Example:
  WATCHLIST=AAPL,MSFT go run ./cmd/research refresh`,
	RunE: runRefresh,
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}

func runRefresh(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	mets := metrics.NewRegistry()

	if len(cfg.Pipeline.Watchlist) == 0 {
		return fmt.Errorf("WATCHLIST is empty, nothing to refresh")
	}

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
	}

	var cache *redis.Cache
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()

		cache = redis.NewCache(redisClient, "openresearch")
	}

	assembler, err := buildAssembler(cfg, log, mets)
	if err != nil {
		return err
	}

	job := jobs.NewWatchlistRefreshJob(
		assembler, cache, cfg.Pipeline.CacheTTL, repo,
		cfg.Pipeline.Watchlist, cfg.Pipeline.RefreshCron, log,
	)

	return job.Run(context.Background())
}
