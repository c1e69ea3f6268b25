// Package normalize converts raw provider payloads into cited claims. All
// functions are pure: no I/O, per-field tolerance of malformed data, and any
// claim that cannot carry a citation is dropped rather than emitted uncited.
package normalize

import (
	"fmt"
	"strings"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/external/sec"
)

// Category classifies a claim into a facts-module bucket.
type Category string

const (
	CategoryCorporateAction Category = "corporate_action"
	CategoryLeadership      Category = "leadership"
	CategoryDividend        Category = "dividend"
)

// Claim is one extracted statement with its provenance.
type Claim struct {
	Category Category
	Text     string
	Citation contracts.Citation
}

// leadership changes are detected before generic corporate actions; an
// "appoints new CEO amid restructuring" headline is a leadership claim.
var leadershipKeywords = []string{
	"ceo", "cfo", "coo", "chief executive", "chief financial",
	"chairman", "board of directors", "appoints", "steps down", "resigns",
	"successor", "new chief",
}

var dividendKeywords = []string{
	"dividend", "stock split", "share split", "payout",
}

var corporateActionKeywords = []string{
	"acquisition", "acquires", "merger", "merges", "partnership",
	"restructuring", "spin-off", "spinoff", "divest", "buyback",
	"joint venture", "takeover", "stake in", "layoffs",
}

// FromHeadlines extracts categorized claims from news headlines. Headlines
// that match no category produce no claim; headlines without a link cannot be
// cited and are skipped entirely.
func FromHeadlines(headlines []contracts.Headline) []Claim {
	var claims []Claim

	for _, h := range headlines {
		if h.Title == "" || h.Link == "" {
			continue
		}

		category, ok := classify(h.Title)
		if !ok {
			continue
		}

		claims = append(claims, Claim{
			Category: category,
			Text:     strings.TrimSpace(h.Title),
			Citation: contracts.Cite(h.Link),
		})
	}

	return claims
}

// classify maps a headline to its claim category.
func classify(title string) (Category, bool) {
	lower := strings.ToLower(title)

	if containsAny(lower, leadershipKeywords) {
		return CategoryLeadership, true
	}
	if containsAny(lower, dividendKeywords) {
		return CategoryDividend, true
	}
	if containsAny(lower, corporateActionKeywords) {
		return CategoryCorporateAction, true
	}
	return "", false
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// notableForms are filing types worth listing as corporate-action claims.
// 8-K announces material events; the periodic reports anchor the record.
var notableForms = map[string]bool{
	"8-K":  true,
	"10-K": true,
	"10-Q": true,
}

// FromFilings converts parsed EDGAR rows inside the window into
// corporate-action claims. Rows without a document URL fall back to citing
// the index reference; if even that is empty the row is dropped.
func FromFilings(filings []sec.Filing, indexURL string, window contracts.DateWindow) []Claim {
	var claims []Claim

	for _, f := range filings {
		if !notableForms[f.Form] || !window.Contains(f.Date) {
			continue
		}

		citeURL := f.URL
		if citeURL == "" {
			citeURL = indexURL
		}
		citation := contracts.Cite(citeURL)
		if citation.Empty() {
			continue
		}

		text := fmt.Sprintf("%s filed %s", f.Form, f.Date.Format("2006-01-02"))
		if f.Description != "" {
			text = fmt.Sprintf("%s (%s)", text, f.Description)
		}

		claims = append(claims, Claim{
			Category: CategoryCorporateAction,
			Text:     text,
			Citation: citation,
		})
	}

	return claims
}

// Dedup collapses claims with equal text (case-insensitive) into one claim
// whose citation is the union of all sources, preserving first-seen order.
func Dedup(claims []Claim) []Claim {
	index := make(map[string]int, len(claims))
	out := make([]Claim, 0, len(claims))

	for _, c := range claims {
		key := string(c.Category) + "|" + strings.ToLower(strings.TrimSpace(c.Text))
		if i, ok := index[key]; ok {
			out[i].Citation = out[i].Citation.Merge(c.Citation)
			continue
		}
		index[key] = len(out)
		out = append(out, c)
	}

	return out
}

// ByCategory filters claims to one category.
func ByCategory(claims []Claim, category Category) []Claim {
	var out []Claim
	for _, c := range claims {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}
