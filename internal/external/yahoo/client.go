package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/pkg/httputil"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// SourceID identifies this provider in unavailability tags and metrics.
const SourceID = "yahoo_finance"

// Client reads company profiles and fundamentals from the free Yahoo Finance
// quoteSummary API (the same endpoint yfinance consumes).
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Yahoo Finance client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// QuoteURL is the human-facing page cited for profile-derived claims.
func QuoteURL(ticker string) string {
	return fmt.Sprintf("https://finance.yahoo.com/quote/%s", ticker)
}

// fetchSummary calls quoteSummary for a module list and returns the first
// result object.
func (c *Client) fetchSummary(ctx context.Context, ticker string, modules string) (*summaryResult, error) {
	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.baseURL, url.PathEscape(ticker), url.QueryEscape(modules))

	resp, err := c.httpClient.Get(ctx, fullURL)
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

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "network_error", err)
	}

	result, err := parseSummary(body)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "malformed_response", err)
	}

	return result, nil
}

// summaryEnvelope mirrors {"quoteSummary":{"result":[...],"error":...}}.
type summaryEnvelope struct {
	QuoteSummary struct {
		Result []summaryResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type summaryResult struct {
	Price               *priceBlock         `json:"price"`
	AssetProfile        *assetProfileBlock  `json:"assetProfile"`
	SummaryDetail       *summaryDetailBlock `json:"summaryDetail"`
	FinancialData       *financialDataBlock `json:"financialData"`
	DefaultKeyStats     *keyStatsBlock      `json:"defaultKeyStatistics"`
	IncomeStmtQuarterly *incomeStmtQBlock   `json:"incomeStatementHistoryQuarterly"`
}

type priceBlock struct {
	ShortName    *string `json:"shortName"`
	LongName     *string `json:"longName"`
	ExchangeName *string `json:"exchangeName"`
}

type assetProfileBlock struct {
	Sector   *string `json:"sector"`
	Industry *string `json:"industry"`
	Country  *string `json:"country"`
}

type summaryDetailBlock struct {
	TrailingPE  rawValue `json:"trailingPE"`
	ForwardPE   rawValue `json:"forwardPE"`
	PriceToBook rawValue `json:"priceToBook"`
}

type financialDataBlock struct {
	ReturnOnEquity   rawValue `json:"returnOnEquity"`
	ProfitMargins    rawValue `json:"profitMargins"`
	OperatingMargins rawValue `json:"operatingMargins"`
	DebtToEquity     rawValue `json:"debtToEquity"`
}

type keyStatsBlock struct {
	PriceToBook   rawValue `json:"priceToBook"`
	ProfitMargins rawValue `json:"profitMargins"`
	ForwardPE     rawValue `json:"forwardPE"`
}

type incomeStmtQBlock struct {
	History []struct {
		EndDate      rawDate  `json:"endDate"`
		TotalRevenue rawValue `json:"totalRevenue"`
		NetIncome    rawValue `json:"netIncome"`
	} `json:"incomeStatementHistory"`
}

// rawValue decodes Yahoo's {"raw": 1.23, "fmt": "1.23"} wrapper. Missing or
// malformed entries decode to a nil Raw instead of failing the payload.
type rawValue struct {
	Raw *float64
}

func (v *rawValue) UnmarshalJSON(data []byte) error {
	var aux struct {
		Raw *float64 `json:"raw"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		// Field-level tolerance: an empty {} or odd shape is treated as absent.
		return nil
	}
	v.Raw = aux.Raw
	return nil
}

// rawDate decodes {"raw": 1696032000, "fmt": "2023-09-30"}.
type rawDate struct {
	Fmt string
}

func (d *rawDate) UnmarshalJSON(data []byte) error {
	var aux struct {
		Fmt string `json:"fmt"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return nil
	}
	d.Fmt = aux.Fmt
	return nil
}

// parseSummary extracts the first quoteSummary result.
func parseSummary(body []byte) (*summaryResult, error) {
	var env summaryEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode quoteSummary: %w", err)
	}

	if env.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error: %s", env.QuoteSummary.Error.Description)
	}
	if len(env.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quoteSummary returned no result")
	}

	return &env.QuoteSummary.Result[0], nil
}
