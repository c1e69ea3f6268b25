package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "AAPL", want: "AAPL"},
		{raw: "aapl", want: "AAPL"},
		{raw: "  msft ", want: "MSFT"},
		{raw: "BRK4", want: "BRK4"},
		{raw: "", wantErr: true},
		{raw: "BRK.B", wantErr: true},
		{raw: "TOOLONGNAME1", wantErr: true},
		{raw: "../etc", wantErr: true},
		{raw: "AAPL; DROP", wantErr: true},
	}

	for _, tt := range tests {
		got, err := NormalizeTicker(tt.raw)
		if tt.wantErr {
			require.Error(t, err, "raw=%q", tt.raw)
			assert.ErrorIs(t, err, ErrInvalidTicker)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		assert.Equal(t, tt.want, got)
	}
}

func TestDateWindow_Contains(t *testing.T) {
	w := DateWindow{
		From: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, w.Contains(time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(w.From))
	assert.True(t, w.Contains(w.To))
	assert.False(t, w.Contains(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, w.Contains(time.Time{}), "undated items are kept")
}

func TestReport_JSONShape(t *testing.T) {
	asOf := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	rep := Report{
		Ticker: "AAPL",
		AsOf:   asOf,
		Facts: FactsModule{
			Window:           DateWindow{From: asOf.AddDate(-1, 0, 0), To: asOf},
			CorporateActions: []FactItem{},
			NewsHeadlines:    []Headline{},
		},
		Financial:  ScoredModule{Score: Float(80), Detail: Detail{}},
		Exogenous:  RescaledModule{Score: nil, Detail: Detail{"reason": "all exogenous sources unavailable"}},
		Behavioral: ScoredModule{Score: Float(60), Detail: Detail{}},
		Overall:    OverallResult{Score: Float(75.29), Rating: "Buy"},
	}

	raw, err := json.Marshal(rep)
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))

	for _, key := range []string{
		"ticker", "as_of",
		"module_1_facts", "module_2_financial_score",
		"module_3_exogenous_score", "module_4_behavioral_score",
		"overall",
	} {
		assert.Contains(t, decoded, key)
	}

	// A missing module score is null, never absent and never zero.
	var exo map[string]interface{}
	require.NoError(t, json.Unmarshal(decoded["module_3_exogenous_score"], &exo))
	val, ok := exo["score_rescaled_0to100"]
	require.True(t, ok)
	assert.Nil(t, val)

	// Empty fact categories serialize as [] to keep the shape stable.
	var facts map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["module_1_facts"], &facts))
	assert.JSONEq(t, `[]`, string(facts["corporate_actions"]))
	assert.JSONEq(t, `[]`, string(facts["news_headlines"]))
}

func TestCitation_Merge(t *testing.T) {
	a := Cite("https://a.example.com", "https://b.example.com")
	b := Cite("https://b.example.com", "https://c.example.com")

	merged := a.Merge(b)
	assert.Equal(t, []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://c.example.com",
	}, merged.URLs())
	assert.False(t, merged.Restricted())

	restricted := a.Merge(CiteRestricted("https://d.example.com"))
	assert.True(t, restricted.Restricted())
}

func TestCite_SkipsEmpty(t *testing.T) {
	assert.True(t, Cite("").Empty())
	assert.True(t, Cite().Empty())
	assert.Equal(t, []string{"https://a.example.com"}, Cite("", "https://a.example.com").URLs())
}

func TestFactItem_JSON(t *testing.T) {
	item := FactItem{
		Item:     "8-K filed 2026-03-02",
		Citation: Cite("https://www.sec.gov/doc/1"),
	}

	raw, err := json.Marshal(item)
	require.NoError(t, err)
	assert.JSONEq(t, `{"item":"8-K filed 2026-03-02","sources":["https://www.sec.gov/doc/1"]}`, string(raw))

	var back FactItem
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, item.Item, back.Item)
	assert.Equal(t, item.Citation.URLs(), back.Citation.URLs())
}

func TestFilingsRef_JSON(t *testing.T) {
	open := FilingsRef{URL: "https://www.sec.gov/cgi-bin/browse-edgar?CIK=AAPL"}
	raw, err := json.Marshal(open)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://www.sec.gov/cgi-bin/browse-edgar?CIK=AAPL"}`, string(raw))

	blocked := FilingsRef{URL: "https://www.sec.gov/cgi-bin/browse-edgar?CIK=AAPL", Restricted: true}
	raw, err = json.Marshal(blocked)
	require.NoError(t, err)
	assert.JSONEq(t, `{"restricted; visit link":"https://www.sec.gov/cgi-bin/browse-edgar?CIK=AAPL"}`, string(raw))

	var back FilingsRef
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Restricted)
	assert.Equal(t, blocked.URL, back.URL)
}
