package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/pkg/httputil"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// SourceID identifies this provider in unavailability tags and metrics.
const SourceID = "stooq"

// Client reads daily index quotes from the free Stooq CSV export. It is used
// for the exogenous module's market-tilt sub-metric.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Stooq client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://stooq.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// IndexDelta is the percentage move of a benchmark symbol over a window.
type IndexDelta struct {
	Symbol    string
	ChangePct float64
	SourceURL string
}

// FetchIndexDelta fetches the benchmark's close-to-close percentage change
// over the window.
func (c *Client) FetchIndexDelta(ctx context.Context, symbol string, window contracts.DateWindow) (*IndexDelta, error) {
	fullURL := fmt.Sprintf("%s/q/d/l/?s=%s&d1=%s&d2=%s&i=d",
		c.baseURL,
		url.QueryEscape(symbol),
		window.From.Format("20060102"),
		window.To.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "network_error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, contracts.NewUnavailable(SourceID, "network_error", fmt.Errorf("status %d", resp.StatusCode))
	}

	changePct, err := parseDailyCSV(resp.Body)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "malformed_response", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol":     symbol,
		"change_pct": changePct,
	}).Debug("Fetched benchmark delta")

	return &IndexDelta{
		Symbol:    symbol,
		ChangePct: changePct,
		SourceURL: fullURL,
	}, nil
}

// parseDailyCSV computes first-to-last close change from Stooq's
// Date,Open,High,Low,Close,Volume export. Rows with an unparsable close are
// skipped; the series still needs at least two good closes.
func parseDailyCSV(r io.Reader) (float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var first, last float64
	var count int

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 5 || record[0] == "Date" {
			continue
		}

		closePx, err := strconv.ParseFloat(record[4], 64)
		if err != nil || closePx <= 0 {
			continue
		}

		if count == 0 {
			first = closePx
		}
		last = closePx
		count++
	}

	if count < 2 {
		return 0, fmt.Errorf("need at least 2 closes, got %d", count)
	}

	return (last - first) / first * 100, nil
}
