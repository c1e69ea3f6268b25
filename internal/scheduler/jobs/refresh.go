package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/openresearch/backend/internal/report"
	"github.com/wonny/openresearch/backend/internal/research"
	"github.com/wonny/openresearch/backend/pkg/logger"
	"github.com/wonny/openresearch/backend/pkg/redis"
)

// WatchlistRefreshJob rebuilds reports for the configured watchlist so the
// cache serves warm results and history accumulates without request traffic.
type WatchlistRefreshJob struct {
	assembler *research.Assembler
	cache     *redis.Cache
	cacheTTL  time.Duration
	repo      *report.Repository
	watchlist []string
	schedule  string
	logger    *logger.Logger
}

// NewWatchlistRefreshJob creates a watchlist refresh job. cache and repo may
// be nil; the job then only exercises the pipeline.
func NewWatchlistRefreshJob(
	assembler *research.Assembler,
	cache *redis.Cache,
	cacheTTL time.Duration,
	repo *report.Repository,
	watchlist []string,
	schedule string,
	log *logger.Logger,
) *WatchlistRefreshJob {
	return &WatchlistRefreshJob{
		assembler: assembler,
		cache:     cache,
		cacheTTL:  cacheTTL,
		repo:      repo,
		watchlist: watchlist,
		schedule:  schedule,
		logger:    log.WithField("job", "watchlist_refresh"),
	}
}

// Name returns the job name
func (j *WatchlistRefreshJob) Name() string {
	return "watchlist_refresh"
}

// Schedule returns the cron schedule expression
func (j *WatchlistRefreshJob) Schedule() string {
	return j.schedule
}

// Run refreshes every watchlist ticker sequentially. One ticker failing does
// not stop the rest; the job fails only when every ticker failed.
func (j *WatchlistRefreshJob) Run(ctx context.Context) error {
	if len(j.watchlist) == 0 {
		j.logger.Debug("Watchlist empty, nothing to refresh")
		return nil
	}

	failed := 0
	for _, ticker := range j.watchlist {
		if err := j.refreshOne(ctx, ticker); err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Watchlist refresh failed for ticker")
			failed++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"total":  len(j.watchlist),
		"failed": failed,
	}).Info("Watchlist refresh finished")

	if failed == len(j.watchlist) {
		return fmt.Errorf("all %d watchlist tickers failed to refresh", failed)
	}
	return nil
}

func (j *WatchlistRefreshJob) refreshOne(ctx context.Context, ticker string) error {
	rep, err := j.assembler.Assemble(ctx, ticker)
	if err != nil {
		return err
	}

	if j.cache != nil {
		if err := j.cache.Set(ctx, redis.ReportKey(rep.Ticker), rep, j.cacheTTL); err != nil {
			j.logger.WithError(err).WithField("ticker", rep.Ticker).Warn("Cache write failed")
		}
	}

	if j.repo != nil {
		if err := j.repo.Save(ctx, rep); err != nil {
			j.logger.WithError(err).WithField("ticker", rep.Ticker).Warn("History write failed")
		}
	}
	return nil
}
