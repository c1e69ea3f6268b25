package contracts

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// tickerPattern bounds what the pipeline accepts before any fetch is
// dispatched: uppercase alphanumeric, at most 10 characters.
var tickerPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// NormalizeTicker validates and canonicalizes a raw ticker string.
// Returns ErrInvalidTicker for anything that must be rejected at the boundary.
func NormalizeTicker(raw string) (string, error) {
	ticker := strings.ToUpper(strings.TrimSpace(raw))
	if !tickerPattern.MatchString(ticker) {
		return "", fmt.Errorf("%w: %q", ErrInvalidTicker, raw)
	}
	return ticker, nil
}

// DateWindow bounds the lookback period shared by all time-windowed modules.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// LastNDays builds the window ending now (UTC).
func LastNDays(days int) DateWindow {
	to := time.Now().UTC()
	return DateWindow{
		From: to.AddDate(0, 0, -days),
		To:   to,
	}
}

// Contains reports whether t falls inside the window. Zero timestamps pass:
// several feeds omit publication dates and dropping those items on a missing
// field would violate per-field failure granularity.
func (w DateWindow) Contains(t time.Time) bool {
	if t.IsZero() {
		return true
	}
	return !t.Before(w.From) && !t.After(w.To)
}

// MarshalJSON renders the window as {"from":"2006-01-02","to":"2006-01-02"}.
func (w DateWindow) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"from":%q,"to":%q}`,
		w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))), nil
}

// CompanyInfo is a flat profile record; fields are null when the provider
// lacks data.
type CompanyInfo struct {
	ShortName *string `json:"short_name"`
	LongName  *string `json:"long_name"`
	Sector    *string `json:"sector"`
	Industry  *string `json:"industry"`
	Exchange  *string `json:"exchange"`
	Country   *string `json:"country"`
}

// Headline is one news item link.
type Headline struct {
	Title     string     `json:"title"`
	Link      string     `json:"link"`
	Published *time.Time `json:"published,omitempty"`
}

// FactsModule is the structured (non-scored) module of a report. Categories
// are present even when empty so the report shape is stable.
type FactsModule struct {
	CompanyInfo      CompanyInfo       `json:"company_info"`
	Window           DateWindow        `json:"window"`
	CorporateActions []FactItem        `json:"corporate_actions"`
	Leadership       *LeadershipRecord `json:"leadership"`
	Dividends        *DividendRecord   `json:"dividends"`
	Filings          *FilingsRef       `json:"edgar_filings"`
	NewsHeadlines    []Headline        `json:"news_headlines"`
	SourcesUsed      []string          `json:"sources_used,omitempty"`
}

// LeadershipRecord summarizes leadership changes inside the window.
type LeadershipRecord struct {
	Change  string   `json:"change"`
	Sources []string `json:"sources"`
}

// DividendRecord summarizes dividend/split status inside the window.
type DividendRecord struct {
	Status  string   `json:"status"`
	Sources []string `json:"sources"`
}

// Detail is the free-form explanation attached to a scored module.
type Detail map[string]interface{}

// ScoredModule is a 0-100 scored module. A nil Score serializes as JSON null
// and means the module could not compute any sub-metric.
type ScoredModule struct {
	Score  *float64 `json:"score"`
	Detail Detail   `json:"detail"`
}

// RescaledModule is a scored module whose native scale was mapped onto 0-100.
// The rescale step is spelled out in Detail, never folded in silently.
type RescaledModule struct {
	Score  *float64 `json:"score_rescaled_0to100"`
	Detail Detail   `json:"detail"`
}

// OverallResult is the weighted composite of the three scored modules.
type OverallResult struct {
	Score  *float64 `json:"score"`
	Rating string   `json:"rating"`
}

// Report is the root aggregate: one immutable snapshot of one pipeline run.
type Report struct {
	Ticker     string         `json:"ticker"`
	AsOf       time.Time      `json:"as_of"`
	Facts      FactsModule    `json:"module_1_facts"`
	Financial  ScoredModule   `json:"module_2_financial_score"`
	Exogenous  RescaledModule `json:"module_3_exogenous_score"`
	Behavioral ScoredModule   `json:"module_4_behavioral_score"`
	Overall    OverallResult  `json:"overall"`
}

// Float returns a pointer to v, for building nullable scores.
func Float(v float64) *float64 {
	return &v
}
