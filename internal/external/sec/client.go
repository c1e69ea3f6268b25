package sec

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/pkg/httputil"
	"github.com/wonny/openresearch/backend/pkg/logger"
)

// SourceID identifies this provider in unavailability tags and metrics.
const SourceID = "sec_edgar"

// Client reads the EDGAR filings index. EDGAR is documented as blocking
// anonymous or aggressive clients; when the index itself answers with a
// non-200 the client degrades to the restricted-marker citation, which is a
// success outcome for the report.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new EDGAR client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://www.sec.gov"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// Filing is one parsed row of the filings index.
type Filing struct {
	Form        string
	Description string
	Date        time.Time
	URL         string
}

// FilingsIndex is the raw filings payload: the reference link that always
// goes into the report, plus whatever rows parsed.
type FilingsIndex struct {
	Ref     contracts.FilingsRef
	Filings []Filing
}

// indexURL is the browse-edgar page listing recent filings for a ticker.
func (c *Client) indexURL(ticker string) string {
	return fmt.Sprintf(
		"%s/cgi-bin/browse-edgar?action=getcompany&CIK=%s&type=&dateb=&owner=include&count=40",
		c.baseURL, url.QueryEscape(ticker))
}

// FetchFilingsIndex fetches and parses the filings index for a ticker.
// Network-level failure is Unavailable; an access-restricted answer is a
// successful FilingsIndex with the restricted marker and no rows.
func (c *Client) FetchFilingsIndex(ctx context.Context, ticker string) (*FilingsIndex, error) {
	pageURL := c.indexURL(ticker)

	resp, err := c.httpClient.Get(ctx, pageURL)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "network_error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"status": resp.StatusCode,
		}).Warn("EDGAR index restricted")
		return &FilingsIndex{
			Ref: contracts.FilingsRef{URL: pageURL, Restricted: true},
		}, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, contracts.NewUnavailable(SourceID, "malformed_response", err)
	}

	index := &FilingsIndex{
		Ref:     contracts.FilingsRef{URL: pageURL},
		Filings: c.parseFilingsTable(doc),
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":  ticker,
		"filings": len(index.Filings),
	}).Debug("Fetched EDGAR filings index")
	return index, nil
}

// parseFilingsTable walks the tableFile2 rows. Rows with a bad date or empty
// form are skipped; the rest of the table still parses.
func (c *Client) parseFilingsTable(doc *goquery.Document) []Filing {
	var filings []Filing

	doc.Find("table.tableFile2 tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return // header or spacer row
		}

		form := strings.TrimSpace(cells.Eq(0).Text())
		if form == "" {
			return
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(cells.Eq(3).Text()))
		if err != nil {
			return
		}

		docURL := ""
		if href, ok := cells.Eq(1).Find("a").First().Attr("href"); ok {
			docURL = c.absoluteURL(href)
		}

		filings = append(filings, Filing{
			Form:        form,
			Description: strings.TrimSpace(cells.Eq(2).Text()),
			Date:        date,
			URL:         docURL,
		})
	})

	return filings
}

func (c *Client) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return c.baseURL + href
}
