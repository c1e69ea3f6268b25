package sec

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/openresearch/backend/pkg/logger"
)

const indexFixture = `
<html><body>
<table class="tableFile2">
  <tr>
    <th>Filings</th><th>Format</th><th>Description</th><th>Filing Date</th>
  </tr>
  <tr>
    <td>8-K</td>
    <td><a href="/Archives/edgar/data/0000320193/000032019326000012-index.htm">Documents</a></td>
    <td>Current report</td>
    <td>2026-03-02</td>
  </tr>
  <tr>
    <td>10-Q</td>
    <td><a href="https://www.sec.gov/Archives/edgar/data/0000320193/000032019326000044-index.htm">Documents</a></td>
    <td>Quarterly report</td>
    <td>2026-02-10</td>
  </tr>
  <tr>
    <td>4</td>
    <td><a href="/Archives/edgar/data/0000320193/000032019326000050-index.htm">Documents</a></td>
    <td>Statement of changes in beneficial ownership</td>
    <td>not-a-date</td>
  </tr>
  <tr><td colspan="4">spacer</td></tr>
</table>
</body></html>`

func newClientForTest() *Client {
	return NewClient(nil, logger.NewNop(), "https://www.sec.gov")
}

func TestParseFilingsTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(indexFixture))
	require.NoError(t, err)

	filings := newClientForTest().parseFilingsTable(doc)
	require.Len(t, filings, 2, "bad-date and spacer rows are skipped")

	assert.Equal(t, "8-K", filings[0].Form)
	assert.Equal(t, "Current report", filings[0].Description)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), filings[0].Date)
	assert.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/0000320193/000032019326000012-index.htm",
		filings[0].URL, "relative hrefs are made absolute")

	assert.Equal(t, "10-Q", filings[1].Form)
	assert.Equal(t,
		"https://www.sec.gov/Archives/edgar/data/0000320193/000032019326000044-index.htm",
		filings[1].URL, "absolute hrefs pass through")
}

func TestParseFilingsTable_NoTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body><p>No matching companies.</p></body></html>"))
	require.NoError(t, err)

	filings := newClientForTest().parseFilingsTable(doc)
	assert.Empty(t, filings)
}

func TestIndexURL(t *testing.T) {
	got := newClientForTest().indexURL("AAPL")
	assert.Equal(t,
		"https://www.sec.gov/cgi-bin/browse-edgar?action=getcompany&CIK=AAPL&type=&dateb=&owner=include&count=40",
		got)
}
