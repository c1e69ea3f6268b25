package research

import (
	"context"
	"time"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/score"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// FactsBuilder produces the factual module of a report.
type FactsBuilder interface {
	Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.FactsModule
}

// ScoredBuilder produces a 0-100 scored module, null when its sources fail.
type ScoredBuilder interface {
	Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.ScoredModule
}

// RescaledBuilder produces a module whose native score is rescaled to 0-100.
type RescaledBuilder interface {
	Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.RescaledModule
}

// Assembler runs the four report modules concurrently and folds their
// results into one report. A module that errors, times out, or hangs
// degrades to its empty or null form; the assembler itself only fails on
// invalid input or invalid scoring configuration.
type Assembler struct {
	facts      FactsBuilder
	financial  ScoredBuilder
	exogenous  RescaledBuilder
	behavioral ScoredBuilder
	scoring    *scoringconfig.Config
	timeout    time.Duration
	windowDays int
	mets       *metrics.Registry
	logger     *logger.Logger
}

// NewAssembler creates a report assembler. timeout bounds each module
// independently; windowDays sets the lookback window ending today.
func NewAssembler(
	facts FactsBuilder,
	financial ScoredBuilder,
	exogenous RescaledBuilder,
	behavioral ScoredBuilder,
	scoring *scoringconfig.Config,
	timeout time.Duration,
	windowDays int,
	mets *metrics.Registry,
	log *logger.Logger,
) *Assembler {
	return &Assembler{
		facts:      facts,
		financial:  financial,
		exogenous:  exogenous,
		behavioral: behavioral,
		scoring:    scoring,
		timeout:    timeout,
		windowDays: windowDays,
		mets:       mets,
		logger:     log.WithField("component", "assembler"),
	}
}

// Assemble builds a full report for ticker. The ticker is normalized first;
// an invalid ticker is the caller's error, everything after that degrades.
func (a *Assembler) Assemble(ctx context.Context, ticker string) (*contracts.Report, error) {
	normalized, err := contracts.NormalizeTicker(ticker)
	if err != nil {
		return nil, err
	}

	window := contracts.LastNDays(a.windowDays)
	log := a.logger.WithField("ticker", normalized)
	log.Info("Assembling report")

	factsCh := make(chan contracts.FactsModule, 1)
	financialCh := make(chan contracts.ScoredModule, 1)
	exogenousCh := make(chan contracts.RescaledModule, 1)
	behavioralCh := make(chan contracts.ScoredModule, 1)

	fctx, fcancel := context.WithTimeout(ctx, a.timeout)
	defer fcancel()
	nctx, ncancel := context.WithTimeout(ctx, a.timeout)
	defer ncancel()
	ectx, ecancel := context.WithTimeout(ctx, a.timeout)
	defer ecancel()
	bctx, bcancel := context.WithTimeout(ctx, a.timeout)
	defer bcancel()

	go func() { factsCh <- a.timed("facts", func() contracts.FactsModule { return a.facts.Build(fctx, normalized, window) }) }()
	go func() {
		financialCh <- a.timedScored("financial", func() contracts.ScoredModule { return a.financial.Build(nctx, normalized, window) })
	}()
	go func() {
		exogenousCh <- a.timedRescaled("exogenous", func() contracts.RescaledModule { return a.exogenous.Build(ectx, normalized, window) })
	}()
	go func() {
		behavioralCh <- a.timedScored("behavioral", func() contracts.ScoredModule { return a.behavioral.Build(bctx, normalized, window) })
	}()

	// A builder that ignores its context still cannot stall the report:
	// the deadline branch substitutes the module's no-data form and the
	// goroutine drains into its buffered channel whenever it returns.
	var facts contracts.FactsModule
	select {
	case facts = <-factsCh:
	case <-fctx.Done():
		log.Warn("Facts module timed out")
		facts = emptyFacts(window)
	}

	var financial contracts.ScoredModule
	select {
	case financial = <-financialCh:
	case <-nctx.Done():
		log.Warn("Financial module timed out")
		financial = timedOutScored()
	}

	var exogenous contracts.RescaledModule
	select {
	case exogenous = <-exogenousCh:
	case <-ectx.Done():
		log.Warn("Exogenous module timed out")
		exogenous = contracts.RescaledModule{Score: nil, Detail: timeoutDetail()}
	}

	var behavioral contracts.ScoredModule
	select {
	case behavioral = <-behavioralCh:
	case <-bctx.Done():
		log.Warn("Behavioral module timed out")
		behavioral = timedOutScored()
	}

	overall, err := score.Aggregate(financial.Score, exogenous.Score, behavioral.Score, a.scoring)
	if err != nil {
		return nil, err
	}

	a.mets.ObserveReport()
	log.WithFields(map[string]interface{}{
		"overall_score": overall.Score,
		"rating":        overall.Rating,
	}).Info("Report assembled")

	return &contracts.Report{
		Ticker:     normalized,
		AsOf:       time.Now().UTC().Truncate(time.Second),
		Facts:      facts,
		Financial:  financial,
		Exogenous:  exogenous,
		Behavioral: behavioral,
		Overall:    overall,
	}, nil
}

func (a *Assembler) timed(module string, build func() contracts.FactsModule) contracts.FactsModule {
	start := time.Now()
	out := build()
	a.mets.ObserveModule(module, time.Since(start))
	return out
}

func (a *Assembler) timedScored(module string, build func() contracts.ScoredModule) contracts.ScoredModule {
	start := time.Now()
	out := build()
	a.mets.ObserveModule(module, time.Since(start))
	return out
}

func (a *Assembler) timedRescaled(module string, build func() contracts.RescaledModule) contracts.RescaledModule {
	start := time.Now()
	out := build()
	a.mets.ObserveModule(module, time.Since(start))
	return out
}

func emptyFacts(window contracts.DateWindow) contracts.FactsModule {
	return contracts.FactsModule{
		Window:           window,
		CorporateActions: []contracts.FactItem{},
		NewsHeadlines:    []contracts.Headline{},
		SourcesUsed:      []string{},
	}
}

func timedOutScored() contracts.ScoredModule {
	return contracts.ScoredModule{Score: nil, Detail: timeoutDetail()}
}

func timeoutDetail() contracts.Detail {
	return contracts.Detail{"reason": "module timed out"}
}
