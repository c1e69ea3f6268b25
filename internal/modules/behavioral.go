package modules

import (
	"context"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/external/gnews"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/score"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
	"github.com/wonny/openresearch/backend/internal/sentiment"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// BehavioralBuilder scores coarse market mood from headline polarity and
// news volume. It is a proxy, not a sentiment model: the lexicon average is
// blended with a discipline baseline so a handful of headlines cannot swing
// the module to an extreme.
type BehavioralBuilder struct {
	newsClient *gnews.Client
	analyzer   *sentiment.Analyzer
	cfg        scoringconfig.BehavioralConfig
	mets       *metrics.Registry
	logger     *logger.Logger
}

// NewBehavioralBuilder creates a behavioral builder.
func NewBehavioralBuilder(
	newsClient *gnews.Client,
	analyzer *sentiment.Analyzer,
	cfg scoringconfig.BehavioralConfig,
	mets *metrics.Registry,
	log *logger.Logger,
) *BehavioralBuilder {
	return &BehavioralBuilder{
		newsClient: newsClient,
		analyzer:   analyzer,
		cfg:        cfg,
		mets:       mets,
		logger:     log.WithField("module", "behavioral"),
	}
}

// Build fetches headlines and scores them. News unavailable means the module
// has no sub-metric at all and reports a null score.
func (b *BehavioralBuilder) Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.ScoredModule {
	headlines, err := b.newsClient.FetchHeadlines(ctx, ticker, window)
	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
	}
	b.mets.ObserveSourceFetch(gnews.SourceID, outcome)

	if err != nil {
		b.logger.WithError(err).Warn("News headlines unavailable")
		return contracts.ScoredModule{
			Score: nil,
			Detail: contracts.Detail{
				"reason": "all behavioral sources unavailable",
				"error":  err.Error(),
			},
		}
	}

	return b.ScoreHeadlines(headlines)
}

// ScoreHeadlines is the pure scoring step over fetched headlines. An empty
// feed is a valid (neutral) observation, not an absence.
func (b *BehavioralBuilder) ScoreHeadlines(headlines []contracts.Headline) contracts.ScoredModule {
	titles := make([]string, 0, len(headlines))
	for _, h := range headlines {
		titles = append(titles, h.Title)
	}

	avgPolarity, counted := b.analyzer.Average(titles)

	// [-1, 1] polarity onto 0-100
	sentimentScore := (avgPolarity + 1) * 50
	total := score.Clamp(
		b.cfg.SentimentWeight*sentimentScore+b.cfg.BaselineWeight*b.cfg.BaselineScore,
		0, 100,
	)

	components := []contracts.SubScore{
		{
			Name:    "discipline_baseline",
			Score:   b.cfg.BaselineScore,
			Weight:  b.cfg.BaselineWeight,
			Sources: []string{gnews.FeedURL},
		},
		{
			Name:    "headline_sentiment",
			Score:   sentimentScore,
			Weight:  b.cfg.SentimentWeight,
			Sources: []string{gnews.FeedURL},
		},
	}
	sortComponents(components)

	b.logger.WithFields(map[string]interface{}{
		"avg_polarity": avgPolarity,
		"headlines":    counted,
		"score":        total,
	}).Debug("Behavioral module built")

	return contracts.ScoredModule{
		Score: contracts.Float(total),
		Detail: contracts.Detail{
			"avg_polarity":   avgPolarity,
			"headline_count": counted,
			"components":     components,
			"sources":        []string{gnews.FeedURL},
		},
	}
}
