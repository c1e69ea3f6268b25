// Package modules contains the four module builders composing a research
// report. Builders absorb source failures into degraded module content and
// never return errors to the assembler.
package modules

import (
	"context"
	"sort"
	"sync"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/external/gnews"
	"github.com/wonny/openresearch/backend/internal/external/sec"
	"github.com/wonny/openresearch/backend/internal/external/yahoo"
	"github.com/wonny/openresearch/backend/internal/metrics"
	"github.com/wonny/openresearch/backend/internal/normalize"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// FactsBuilder assembles the structured facts module from the company
// profile, the filings index and the news feed.
type FactsBuilder struct {
	yahooClient   *yahoo.Client
	secClient     *sec.Client
	newsClient    *gnews.Client
	headlineLimit int
	mets          *metrics.Registry
	logger        *logger.Logger
}

// NewFactsBuilder creates a facts builder.
func NewFactsBuilder(
	yahooClient *yahoo.Client,
	secClient *sec.Client,
	newsClient *gnews.Client,
	headlineLimit int,
	mets *metrics.Registry,
	log *logger.Logger,
) *FactsBuilder {
	return &FactsBuilder{
		yahooClient:   yahooClient,
		secClient:     secClient,
		newsClient:    newsClient,
		headlineLimit: headlineLimit,
		mets:          mets,
		logger:        log.WithField("module", "facts"),
	}
}

// Build fetches the facts sources concurrently and normalizes the results.
// Each source is an isolated failure domain: whatever fetched still ends up
// in the module, and every category is present even when empty.
func (b *FactsBuilder) Build(ctx context.Context, ticker string, window contracts.DateWindow) contracts.FactsModule {
	var (
		wg        sync.WaitGroup
		profile   *yahoo.Profile
		filings   *sec.FilingsIndex
		headlines []contracts.Headline
	)

	// Results are written to disjoint variables; no locking needed.
	wg.Add(3)
	go func() {
		defer wg.Done()
		p, err := b.yahooClient.FetchProfile(ctx, ticker)
		b.observe(yahoo.SourceID, err)
		if err != nil {
			b.logger.WithError(err).Warn("Company profile unavailable")
			return
		}
		profile = p
	}()
	go func() {
		defer wg.Done()
		f, err := b.secClient.FetchFilingsIndex(ctx, ticker)
		b.observe(sec.SourceID, err)
		if err != nil {
			b.logger.WithError(err).Warn("Filings index unavailable")
			return
		}
		filings = f
	}()
	go func() {
		defer wg.Done()
		h, err := b.newsClient.FetchHeadlines(ctx, ticker, window)
		b.observe(gnews.SourceID, err)
		if err != nil {
			b.logger.WithError(err).Warn("News headlines unavailable")
			return
		}
		headlines = h
	}()
	wg.Wait()

	return b.compose(ticker, window, profile, filings, headlines)
}

// compose is the pure assembly step over already-fetched payloads.
func (b *FactsBuilder) compose(
	ticker string,
	window contracts.DateWindow,
	profile *yahoo.Profile,
	filings *sec.FilingsIndex,
	headlines []contracts.Headline,
) contracts.FactsModule {
	module := contracts.FactsModule{
		Window:           window,
		CorporateActions: []contracts.FactItem{},
		NewsHeadlines:    []contracts.Headline{},
	}

	var claims []normalize.Claim

	if profile != nil {
		module.CompanyInfo = profile.Info
		module.SourcesUsed = append(module.SourcesUsed, profile.SourceURL)
	}

	if filings != nil {
		ref := filings.Ref
		module.Filings = &ref
		module.SourcesUsed = append(module.SourcesUsed, filings.Ref.URL)
		claims = append(claims, normalize.FromFilings(filings.Filings, filings.Ref.URL, window)...)
	}

	if len(headlines) > 0 {
		module.NewsHeadlines = topHeadlines(headlines, b.headlineLimit)
		module.SourcesUsed = append(module.SourcesUsed, gnews.FeedURL)
		claims = append(claims, normalize.FromHeadlines(headlines)...)
	}

	claims = normalize.Dedup(claims)

	for _, c := range normalize.ByCategory(claims, normalize.CategoryCorporateAction) {
		module.CorporateActions = append(module.CorporateActions, contracts.FactItem{
			Item:     c.Text,
			Citation: c.Citation,
		})
	}

	if leads := normalize.ByCategory(claims, normalize.CategoryLeadership); len(leads) > 0 {
		module.Leadership = &contracts.LeadershipRecord{
			Change:  leads[0].Text,
			Sources: leads[0].Citation.URLs(),
		}
	}

	if divs := normalize.ByCategory(claims, normalize.CategoryDividend); len(divs) > 0 {
		module.Dividends = &contracts.DividendRecord{
			Status:  divs[0].Text,
			Sources: divs[0].Citation.URLs(),
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"ticker":    ticker,
		"actions":   len(module.CorporateActions),
		"headlines": len(module.NewsHeadlines),
	}).Debug("Facts module built")

	return module
}

// topHeadlines returns the most recent limit headlines, newest first. The
// sort is stable so undated items keep the feed's own ordering as tiebreak.
func topHeadlines(headlines []contracts.Headline, limit int) []contracts.Headline {
	sorted := make([]contracts.Headline, len(headlines))
	copy(sorted, headlines)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Published, sorted[j].Published
		if a == nil || b == nil {
			return false
		}
		return a.After(*b)
	})

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func (b *FactsBuilder) observe(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "unavailable"
	}
	b.mets.ObserveSourceFetch(source, outcome)
}
