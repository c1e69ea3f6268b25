package commands

import (
	"fmt"
	"time"

	"github.com/wonny/openresearch/backend/internal/external/gnews"
	"github.com/wonny/openresearch/backend/internal/external/sec"
	"github.com/wonny/openresearch/backend/internal/external/stooq"
	"github.com/wonny/openresearch/backend/internal/external/yahoo"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/modules"
	"github.com/wonny/openresearch/backend/internal/research"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
	"github.com/wonny/openresearch/backend/internal/sentiment"
	"github.com/wonny/openresearch/backend/pkg/config"
	"github.com/wonny/openresearch/backend/pkg/httputil"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// buildAssembler wires the source clients, module builders and scoring
// config into a report assembler. Shared by the api, report and refresh
// commands so every entry point runs the identical pipeline.
func buildAssembler(cfg *config.Config, log *logger.Logger, mets *metrics.Registry) (*research.Assembler, error) {
	scoring, err := scoringconfig.LoadOrDefault(cfg.Pipeline.ScoringPath)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}

	yahooHTTP := httputil.New(log).
		WithRetry(3, 500*time.Millisecond).
		WithBreaker("yahoo_finance", 30*time.Second)
	// EDGAR fair-use policy: max 10 req/s and a contact User-Agent.
	secHTTP := httputil.New(log).
		WithRateLimit(10, 1).
		WithHeader("User-Agent", cfg.Sources.SECUserAgent)
	newsHTTP := httputil.New(log).
		WithRetry(3, 500*time.Millisecond)
	stooqHTTP := httputil.New(log).
		WithRetry(2, 500*time.Millisecond)

	yahooClient := yahoo.NewClient(yahooHTTP, log, cfg.Sources.YahooBaseURL)
	secClient := sec.NewClient(secHTTP, log, cfg.Sources.SECBaseURL)
	newsClient := gnews.NewClient(newsHTTP, log, cfg.Sources.GoogleNewsBaseURL)
	stooqClient := stooq.NewClient(stooqHTTP, log, cfg.Sources.StooqBaseURL)

	factsBuilder := modules.NewFactsBuilder(yahooClient, secClient, newsClient, cfg.Pipeline.HeadlineLimit, mets, log)
	financialBuilder := modules.NewFinancialBuilder(yahooClient, scoring.Financial, mets, log)
	exogenousBuilder := modules.NewExogenousBuilder(newsClient, stooqClient, cfg.Sources.BenchmarkSymbol, scoring.Exogenous, mets, log)
	behavioralBuilder := modules.NewBehavioralBuilder(newsClient, sentiment.NewAnalyzer(), scoring.Behavioral, mets, log)

	return research.NewAssembler(
		factsBuilder,
		financialBuilder,
		exogenousBuilder,
		behavioralBuilder,
		scoring,
		cfg.Pipeline.ModuleTimeout,
		cfg.Pipeline.WindowDays,
		mets,
		log,
	), nil
}
