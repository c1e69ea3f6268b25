package yahoo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const summaryFixture = `{
  "quoteSummary": {
    "result": [
      {
        "price": {
          "shortName": "Acme Inc",
          "longName": "Acme Incorporated",
          "exchangeName": "NasdaqGS"
        },
        "assetProfile": {
          "sector": "Technology",
          "industry": "Semiconductors",
          "country": "United States"
        },
        "summaryDetail": {
          "trailingPE": {"raw": 24.5, "fmt": "24.50"},
          "forwardPE": {},
          "priceToBook": {"raw": 8.1, "fmt": "8.10"}
        },
        "financialData": {
          "returnOnEquity": {"raw": 0.31, "fmt": "31.00%"},
          "profitMargins": {"raw": 0.22, "fmt": "22.00%"},
          "operatingMargins": "oops",
          "debtToEquity": {"raw": 41.2, "fmt": "41.20"}
        },
        "incomeStatementHistoryQuarterly": {
          "incomeStatementHistory": [
            {
              "endDate": {"raw": 1774742400, "fmt": "2026-03-31"},
              "totalRevenue": {"raw": 120, "fmt": "120"},
              "netIncome": {"raw": 30, "fmt": "30"}
            },
            {
              "endDate": {"raw": 1766966400, "fmt": "2025-12-31"},
              "totalRevenue": {"raw": 100, "fmt": "100"},
              "netIncome": {"raw": 25, "fmt": "25"}
            }
          ]
        }
      }
    ],
    "error": null
  }
}`

func TestParseSummary(t *testing.T) {
	result, err := parseSummary([]byte(summaryFixture))
	require.NoError(t, err)

	require.NotNil(t, result.Price)
	assert.Equal(t, "Acme Inc", *result.Price.ShortName)
	require.NotNil(t, result.AssetProfile)
	assert.Equal(t, "Technology", *result.AssetProfile.Sector)

	require.NotNil(t, result.SummaryDetail)
	require.NotNil(t, result.SummaryDetail.TrailingPE.Raw)
	assert.Equal(t, 24.5, *result.SummaryDetail.TrailingPE.Raw)

	// Field-level tolerance: an empty wrapper or a wrong-typed field decodes
	// to nil without failing the payload.
	assert.Nil(t, result.SummaryDetail.ForwardPE.Raw)
	require.NotNil(t, result.FinancialData)
	assert.Nil(t, result.FinancialData.OperatingMargins.Raw)
	assert.Equal(t, 41.2, *result.FinancialData.DebtToEquity.Raw)
}

func TestParseSummary_Errors(t *testing.T) {
	_, err := parseSummary([]byte(`{"quoteSummary":{"result":[],"error":null}}`))
	assert.Error(t, err, "empty result set")

	_, err = parseSummary([]byte(`{"quoteSummary":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	assert.Error(t, err, "provider error object")

	_, err = parseSummary([]byte(`<html>blocked</html>`))
	assert.Error(t, err, "non-JSON body")
}

func TestQuarterOrdering(t *testing.T) {
	result, err := parseSummary([]byte(summaryFixture))
	require.NoError(t, err)

	require.NotNil(t, result.IncomeStmtQuarterly)
	history := result.IncomeStmtQuarterly.History
	require.Len(t, history, 2)

	// The envelope keeps Yahoo's newest-first order; FetchFundamentals
	// reverses when building Quarters.
	assert.Equal(t, "2026-03-31", history[0].EndDate.Fmt)
	assert.Equal(t, "2025-12-31", history[1].EndDate.Fmt)
}

func TestQuoteURL(t *testing.T) {
	assert.Equal(t, "https://finance.yahoo.com/quote/AAPL", QuoteURL("AAPL"))
}
