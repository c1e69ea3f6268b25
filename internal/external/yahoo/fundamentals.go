package yahoo

import (
	"context"
)

// Fundamentals is the raw financial payload: a ratio snapshot plus the last
// quarters of revenue/net income. Any individual field may be nil when the
// provider lacks data.
type Fundamentals struct {
	TrailingPE       *float64
	ForwardPE        *float64
	PriceToBook      *float64
	ReturnOnEquity   *float64
	ProfitMargins    *float64
	OperatingMargins *float64
	DebtToEquity     *float64

	Quarters []Quarter

	SourceURL string
}

// Quarter is one quarterly income statement row, oldest first.
type Quarter struct {
	EndDate   string
	Revenue   *float64
	NetIncome *float64
}

// FetchFundamentals fetches the ratio snapshot and quarterly income history.
func (c *Client) FetchFundamentals(ctx context.Context, ticker string) (*Fundamentals, error) {
	result, err := c.fetchSummary(ctx, ticker,
		"summaryDetail,financialData,defaultKeyStatistics,incomeStatementHistoryQuarterly")
	if err != nil {
		return nil, err
	}

	f := &Fundamentals{SourceURL: QuoteURL(ticker)}

	if sd := result.SummaryDetail; sd != nil {
		f.TrailingPE = sd.TrailingPE.Raw
		f.ForwardPE = sd.ForwardPE.Raw
		f.PriceToBook = sd.PriceToBook.Raw
	}
	if fd := result.FinancialData; fd != nil {
		f.ReturnOnEquity = fd.ReturnOnEquity.Raw
		f.ProfitMargins = fd.ProfitMargins.Raw
		f.OperatingMargins = fd.OperatingMargins.Raw
		f.DebtToEquity = fd.DebtToEquity.Raw
	}
	// defaultKeyStatistics fills gaps summaryDetail/financialData left open.
	if ks := result.DefaultKeyStats; ks != nil {
		if f.PriceToBook == nil {
			f.PriceToBook = ks.PriceToBook.Raw
		}
		if f.ProfitMargins == nil {
			f.ProfitMargins = ks.ProfitMargins.Raw
		}
		if f.ForwardPE == nil {
			f.ForwardPE = ks.ForwardPE.Raw
		}
	}

	if q := result.IncomeStmtQuarterly; q != nil {
		// Yahoo lists newest first; store oldest first for trend math.
		for i := len(q.History) - 1; i >= 0; i-- {
			row := q.History[i]
			f.Quarters = append(f.Quarters, Quarter{
				EndDate:   row.EndDate.Fmt,
				Revenue:   row.TotalRevenue.Raw,
				NetIncome: row.NetIncome.Raw,
			})
		}
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker":   ticker,
		"quarters": len(f.Quarters),
	}).Debug("Fetched fundamentals")
	return f, nil
}
