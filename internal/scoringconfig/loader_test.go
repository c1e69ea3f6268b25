package scoringconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
meta:
  name: test
  version: 2
overall:
  weights:
    financial: 0.5
    exogenous: 0.3
    behavioral: 0.2
  ratings:
    - label: Buy
      min: 70
    - label: Hold
      min: 50
    - label: Sell
      min: 0
financial:
  weights:
    profitability: 0.6
    valuation: 0.4
exogenous:
  positive_keywords: [subsidy]
  negative_keywords: [tariff, sanction]
  native_min: -20
  native_max: 10
  index_tilt_cap: 5
behavioral:
  sentiment_weight: 0.7
  baseline_weight: 0.3
  baseline_score: 55
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeTemp(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Meta.Name)
	assert.Equal(t, 0.5, cfg.Overall.Weights[ModuleFinancial])
	assert.Len(t, cfg.Overall.Ratings, 3)
	assert.Equal(t, []string{"tariff", "sanction"}, cfg.Exogenous.NegativeKeywords)
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	_, err := Load(writeTemp(t, validYAML+"\nextra_section:\n  foo: 1\n"))
	assert.Error(t, err, "unknown top-level keys must not be ignored")
}

func TestLoad_InvalidWeightsRejected(t *testing.T) {
	bad := `
overall:
  weights:
    financial: 0.9
    exogenous: 0.9
    behavioral: 0.9
  ratings:
    - label: Buy
      min: 0
financial:
  weights:
    profitability: 1.0
exogenous:
  native_min: -20
  native_max: 10
behavioral:
  sentiment_weight: 0.7
  baseline_weight: 0.3
  baseline_score: 55
`
	_, err := Load(writeTemp(t, bad))
	assert.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Meta.Name)

	cfg, err = LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Meta.Name)

	_, err = LoadOrDefault(writeTemp(t, "overall: ["))
	assert.Error(t, err, "present but broken file must not fall back to defaults")
}

func TestDefault_IsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidate_Ratings(t *testing.T) {
	cfg := Default()

	cfg.Overall.Ratings = []RatingBucket{{Label: "Buy", Min: 50}, {Label: "Hold", Min: 70}, {Label: "Sell", Min: 0}}
	assert.Error(t, Validate(cfg), "minimums must descend")

	cfg.Overall.Ratings = []RatingBucket{{Label: "Buy", Min: 70}, {Label: "Hold", Min: 50}}
	assert.Error(t, Validate(cfg), "last bucket must reach 0")

	cfg.Overall.Ratings = nil
	assert.Error(t, Validate(cfg))
}

func TestValidate_Behavioral(t *testing.T) {
	cfg := Default()
	cfg.Behavioral.SentimentWeight = 0.8
	assert.Error(t, Validate(cfg), "blend weights must sum to 1")

	cfg = Default()
	cfg.Behavioral.BaselineScore = 140
	assert.Error(t, Validate(cfg))
}
