package gnews

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/pkg/httputil"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// SourceID identifies this provider in unavailability tags and metrics.
const SourceID = "google_news"

// FeedURL is the citation URL recorded for headline-derived claims.
const FeedURL = "https://news.google.com/rss/"

// Client reads ticker headlines from the Google News RSS search feed.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	parser     *gofeed.Parser
}

// NewClient creates a new Google News client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://news.google.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
		parser:     gofeed.NewParser(),
	}
}

// FetchHeadlines fetches headlines for a ticker bounded by the window. The
// feed query mirrors the window length; items outside it are filtered out
// again locally since the feed boundary is advisory.
func (c *Client) FetchHeadlines(ctx context.Context, ticker string, window contracts.DateWindow) ([]contracts.Headline, error) {
	days := int(window.To.Sub(window.From).Hours() / 24)
	if days < 1 {
		days = 1
	}
	query := fmt.Sprintf("%s when:%dd", ticker, days)
	feedURL := fmt.Sprintf("%s/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		c.baseURL, url.QueryEscape(query))

	resp, err := c.httpClient.Get(ctx, feedURL)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "network_error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, contracts.NewUnavailable(SourceID, "rate_limited", fmt.Errorf("status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, contracts.NewUnavailable(SourceID, "network_error", fmt.Errorf("status %d", resp.StatusCode))
	}

	feed, err := c.parser.Parse(resp.Body)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "malformed_response", err)
	}

	headlines := MapItems(feed.Items, window)

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"items":  len(feed.Items),
		"kept":   len(headlines),
	}).Debug("Fetched news headlines")
	return headlines, nil
}

// MapItems converts feed items to headlines, keeping feed order (the feed is
// newest-first and provides the tiebreak ordering). Items without title or
// link cannot be cited and are dropped.
func MapItems(items []*gofeed.Item, window contracts.DateWindow) []contracts.Headline {
	headlines := make([]contracts.Headline, 0, len(items))
	for _, item := range items {
		if item == nil || item.Title == "" || item.Link == "" {
			continue
		}

		var published *time.Time
		if item.PublishedParsed != nil {
			published = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = item.UpdatedParsed
		}

		if published != nil && !window.Contains(*published) {
			continue
		}

		headlines = append(headlines, contracts.Headline{
			Title:     item.Title,
			Link:      item.Link,
			Published: published,
		})
	}
	return headlines
}
