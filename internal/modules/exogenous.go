package modules

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/external/gnews"
	"github.com/wonny/openresearch/backend/internal/external/stooq"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/score"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// ExogenousBuilder scores macro/event pressure around a ticker. The native
// score combines keyword hits in headlines with a benchmark-index tilt, then
// is rescaled onto 0-100 with the mapping spelled out in detail.
type ExogenousBuilder struct {
	newsClient  *gnews.Client
	stooqClient *stooq.Client
	benchmark   string
	cfg         scoringconfig.ExogenousConfig
	mets        *metrics.Registry
	logger      *logger.Logger
}

// NewExogenousBuilder creates an exogenous builder.
func NewExogenousBuilder(
	newsClient *gnews.Client,
	stooqClient *stooq.Client,
	benchmark string,
	cfg scoringconfig.ExogenousConfig,
	mets *metrics.Registry,
	log *logger.Logger,
) *ExogenousBuilder {
	return &ExogenousBuilder{
		newsClient:  newsClient,
		stooqClient: stooqClient,
		benchmark:   benchmark,
		cfg:         cfg,
		mets:        mets,
		logger:      log.WithField("module", "exogenous"),
	}
}

// Build fetches both exogenous sources concurrently. One source missing
// degrades that sub-metric; both missing yields a null score.
func (b *ExogenousBuilder) Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.RescaledModule {
	var (
		wg        sync.WaitGroup
		headlines []contracts.Headline
		newsErr   error
		delta     *stooq.IndexDelta
		deltaErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		headlines, newsErr = b.newsClient.FetchHeadlines(ctx, ticker, window)
		b.observe(gnews.SourceID, newsErr)
	}()
	go func() {
		defer wg.Done()
		delta, deltaErr = b.stooqClient.FetchIndexDelta(ctx, b.benchmark, window)
		b.observe(stooq.SourceID, deltaErr)
	}()
	wg.Wait()

	if newsErr != nil && deltaErr != nil {
		b.logger.Warn("All exogenous sources unavailable")
		return contracts.RescaledModule{
			Score: nil,
			Detail: contracts.Detail{
				"reason":      "all exogenous sources unavailable",
				"news_error":  newsErr.Error(),
				"index_error": deltaErr.Error(),
			},
		}
	}

	return b.ScoreSignals(headlines, newsErr == nil, delta)
}

// ScoreSignals is the pure scoring step over already-fetched payloads.
func (b *ExogenousBuilder) ScoreSignals(headlines []contracts.Headline, newsAvailable bool, delta *stooq.IndexDelta) contracts.RescaledModule {
	detail := contracts.Detail{}
	var components []contracts.SubScore

	raw := 0.0

	if newsAvailable {
		pos, neg := b.keywordHits(headlines)
		eventPressure := float64(pos) - 2*float64(neg)
		raw += eventPressure

		detail["pos_hits"] = pos
		detail["neg_hits"] = neg
		components = append(components, contracts.SubScore{
			Name:    "event_pressure",
			Score:   eventPressure,
			Weight:  1,
			Sources: []string{gnews.FeedURL},
		})
	} else {
		detail["event_pressure"] = "unavailable"
	}

	if delta != nil {
		tilt := score.Clamp(delta.ChangePct, -b.cfg.IndexTiltCap, b.cfg.IndexTiltCap)
		raw += tilt

		detail["index_symbol"] = delta.Symbol
		detail["index_change_pct"] = delta.ChangePct
		detail["index_tilt"] = tilt
		components = append(components, contracts.SubScore{
			Name:    "market_tilt",
			Score:   tilt,
			Weight:  1,
			Sources: []string{delta.SourceURL},
		})
	} else {
		detail["market_tilt"] = "unavailable"
	}

	raw = score.Clamp(raw, b.cfg.NativeMin, b.cfg.NativeMax)
	rescaled := (raw - b.cfg.NativeMin) * 100 / (b.cfg.NativeMax - b.cfg.NativeMin)

	// The rescale step is part of the contract, not an implementation detail.
	detail["raw"] = raw
	detail["native_range"] = fmt.Sprintf("[%g, %g]", b.cfg.NativeMin, b.cfg.NativeMax)
	detail["rescale"] = fmt.Sprintf("(raw - %g) * 100 / %g", b.cfg.NativeMin, b.cfg.NativeMax-b.cfg.NativeMin)
	sortComponents(components)
	detail["components"] = components

	b.logger.WithFields(map[string]interface{}{
		"raw":      raw,
		"rescaled": rescaled,
	}).Debug("Exogenous module built")

	return contracts.RescaledModule{
		Score:  contracts.Float(rescaled),
		Detail: detail,
	}
}

// keywordHits counts headlines containing any positive / any negative
// keyword. A headline can count on both sides.
func (b *ExogenousBuilder) keywordHits(headlines []contracts.Headline) (pos, neg int) {
	for _, h := range headlines {
		lower := strings.ToLower(h.Title)
		if containsAnyKeyword(lower, b.cfg.PositiveKeywords) {
			pos++
		}
		if containsAnyKeyword(lower, b.cfg.NegativeKeywords) {
			neg++
		}
	}
	return pos, neg
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func (b *ExogenousBuilder) observe(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
	}
	b.mets.ObserveSourceFetch(source, outcome)
}
