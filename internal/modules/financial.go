package modules

import (
	"context"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/external/yahoo"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/score"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// FinancialBuilder scores fundamentals on 0-100 from the ratio snapshot and
// quarterly revenue trend.
type FinancialBuilder struct {
	yahooClient *yahoo.Client
	cfg         scoringconfig.FinancialConfig
	mets        *metrics.Registry
	logger      *logger.Logger
}

// NewFinancialBuilder creates a financial builder.
func NewFinancialBuilder(
	yahooClient *yahoo.Client,
	cfg scoringconfig.FinancialConfig,
	mets *metrics.Registry,
	log *logger.Logger,
) *FinancialBuilder {
	return &FinancialBuilder{
		yahooClient: yahooClient,
		cfg:         cfg,
		mets:        mets,
		logger:      log.WithField("module", "financial"),
	}
}

// Build fetches fundamentals and scores them. When the only source is
// unavailable the module reports a null score with the reason in detail.
func (b *FinancialBuilder) Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.ScoredModule {
	fundamentals, err := b.yahooClient.FetchFundamentals(ctx, ticker)
	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
	}
	b.mets.ObserveSourceFetch(yahoo.SourceID, outcome)

	if err != nil {
		b.logger.WithError(err).Warn("Fundamentals unavailable")
		return contracts.ScoredModule{
			Score: nil,
			Detail: contracts.Detail{
				"reason": "all fundamentals sources unavailable",
				"error":  err.Error(),
			},
		}
	}

	return b.Score(fundamentals)
}

// Score is the pure scoring step over a fetched payload.
func (b *FinancialBuilder) Score(f *yahoo.Fundamentals) contracts.ScoredModule {
	sources := []string{f.SourceURL}

	subScores := map[string]float64{
		"profitability":      profitabilityScore(f),
		"growth":             growthScore(f.Quarters),
		"balance_sheet":      balanceSheetScore(f.DebtToEquity),
		"cashflow_quality":   50, // no free cash-flow statement source; neutral
		"valuation":          valuationScore(f),
		"industry_position":  50,
		"regulatory_signals": 50,
	}

	components := make([]contracts.SubScore, 0, len(subScores))
	total := 0.0
	for name, weight := range b.cfg.Weights {
		s, ok := subScores[name]
		if !ok {
			continue
		}
		total += s * weight
		components = append(components, contracts.SubScore{
			Name:    name,
			Score:   s,
			Weight:  weight,
			Sources: sources,
		})
	}
	sortComponents(components)

	total = score.Clamp(total, 0, 100)

	b.logger.WithFields(map[string]interface{}{
		"score":    total,
		"quarters": len(f.Quarters),
	}).Debug("Financial module built")

	return contracts.ScoredModule{
		Score: contracts.Float(total),
		Detail: contracts.Detail{
			"components": components,
			"inputs": contracts.Detail{
				"trailing_pe":       f.TrailingPE,
				"forward_pe":        f.ForwardPE,
				"price_to_book":     f.PriceToBook,
				"return_on_equity":  f.ReturnOnEquity,
				"profit_margins":    f.ProfitMargins,
				"operating_margins": f.OperatingMargins,
				"debt_to_equity":    f.DebtToEquity,
			},
			"sources": sources,
		},
	}
}

// profitabilityScore rewards both coverage and level of margin ratios.
func profitabilityScore(f *yahoo.Fundamentals) float64 {
	var present []float64
	for _, v := range []*float64{f.ProfitMargins, f.OperatingMargins, f.ReturnOnEquity} {
		if v != nil {
			present = append(present, *v)
		}
	}

	mean := -0.2 // pessimistic default when nothing is known
	if len(present) > 0 {
		sum := 0.0
		for _, v := range present {
			sum += v
		}
		mean = sum / float64(len(present))
	}

	return score.Clamp(50+20*float64(len(present))+100*mean, 0, 100)
}

// growthScore maps the window's revenue trend onto 0-100.
func growthScore(quarters []yahoo.Quarter) float64 {
	var revs []float64
	for _, q := range quarters {
		if q.Revenue != nil {
			revs = append(revs, *q.Revenue)
		}
	}

	growth := -0.05
	if len(revs) >= 2 && revs[0] != 0 {
		growth = (revs[len(revs)-1] - revs[0]) / abs(revs[0])
	}

	return score.Clamp(50+200*growth, 0, 100)
}

// balanceSheetScore scores leverage; lower debt/equity is better. Yahoo
// reports the ratio in percent.
func balanceSheetScore(d2e *float64) float64 {
	if d2e == nil {
		return 50
	}
	capped := *d2e
	if capped > 200 {
		capped = 200
	}
	return score.Clamp(80-capped/2, 0, 100)
}

// valuationScore applies rough P/B and P/E bands around a neutral 50.
func valuationScore(f *yahoo.Fundamentals) float64 {
	val := 50.0

	if f.PriceToBook != nil {
		pb := *f.PriceToBook
		if pb > 5 {
			pb = 5
		}
		val += score.Clamp(10*(1.5-pb), -20, 20)
	}

	pe := f.TrailingPE
	if pe == nil {
		pe = f.ForwardPE
	}
	if pe != nil && *pe > 0 {
		capped := *pe
		if capped > 40 {
			capped = 40
		}
		val += score.Clamp(5*(12-capped)/12, -20, 20)
	}

	return score.Clamp(val, 0, 100)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
