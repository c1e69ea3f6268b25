package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
)

func TestRenormalize_AllPresent(t *testing.T) {
	weights := map[string]float64{"financial": 0.65, "exogenous": 0.15, "behavioral": 0.20}
	scores := map[string]*float64{
		"financial":  contracts.Float(80),
		"exogenous":  contracts.Float(40),
		"behavioral": contracts.Float(60),
	}

	effective, err := Renormalize(scores, weights)
	require.NoError(t, err)

	assert.InDelta(t, 0.65, effective["financial"], 1e-9)
	assert.InDelta(t, 0.15, effective["exogenous"], 1e-9)
	assert.InDelta(t, 0.20, effective["behavioral"], 1e-9)
}

func TestRenormalize_OneMissing(t *testing.T) {
	weights := map[string]float64{"financial": 0.65, "exogenous": 0.15, "behavioral": 0.20}
	scores := map[string]*float64{
		"financial":  contracts.Float(80),
		"exogenous":  nil,
		"behavioral": contracts.Float(60),
	}

	effective, err := Renormalize(scores, weights)
	require.NoError(t, err)

	// Remaining mass is 0.85; each surviving weight is divided by it.
	require.Len(t, effective, 2)
	assert.InDelta(t, 0.65/0.85, effective["financial"], 1e-9)
	assert.InDelta(t, 0.20/0.85, effective["behavioral"], 1e-9)
	assert.InDelta(t, 1.0, effective["financial"]+effective["behavioral"], 1e-9)
}

func TestRenormalize_AllMissing(t *testing.T) {
	weights := map[string]float64{"financial": 0.65, "exogenous": 0.15, "behavioral": 0.20}
	scores := map[string]*float64{"financial": nil, "exogenous": nil, "behavioral": nil}

	effective, err := Renormalize(scores, weights)
	require.NoError(t, err)
	assert.Empty(t, effective)
}

func TestRenormalize_InvalidWeights(t *testing.T) {
	scores := map[string]*float64{"financial": contracts.Float(80)}

	_, err := Renormalize(scores, map[string]float64{"financial": 0.5, "exogenous": 0.3})
	assert.Error(t, err, "weights not summing to 1 must be rejected")

	_, err = Renormalize(scores, map[string]float64{"financial": 1.5, "exogenous": -0.5})
	assert.Error(t, err, "negative weight must be rejected")

	_, err = Renormalize(scores, map[string]float64{"exogenous": 1.0})
	assert.Error(t, err, "scored module without a weight must be rejected")
}

func TestAggregate_AllPresent(t *testing.T) {
	cfg := scoringconfig.Default()

	result, err := Aggregate(contracts.Float(80), contracts.Float(40), contracts.Float(60), cfg)
	require.NoError(t, err)

	// 0.65*80 + 0.15*40 + 0.20*60 = 70
	require.NotNil(t, result.Score)
	assert.InDelta(t, 70.0, *result.Score, 1e-9)
	assert.Equal(t, "Buy", result.Rating)
}

func TestAggregate_MissingModuleRenormalizes(t *testing.T) {
	cfg := scoringconfig.Default()

	result, err := Aggregate(contracts.Float(80), nil, contracts.Float(60), cfg)
	require.NoError(t, err)

	// (0.65*80 + 0.20*60) / 0.85 = 75.29...
	require.NotNil(t, result.Score)
	assert.InDelta(t, 75.29, *result.Score, 0.01)
	assert.Equal(t, "Buy", result.Rating)
}

func TestAggregate_SingleModule(t *testing.T) {
	cfg := scoringconfig.Default()

	result, err := Aggregate(nil, contracts.Float(33.33), nil, cfg)
	require.NoError(t, err)

	// The only present module carries full weight.
	require.NotNil(t, result.Score)
	assert.InDelta(t, 33.33, *result.Score, 1e-9)
	assert.Equal(t, "Sell", result.Rating)
}

func TestAggregate_AllMissing(t *testing.T) {
	cfg := scoringconfig.Default()

	result, err := Aggregate(nil, nil, nil, cfg)
	require.NoError(t, err)

	assert.Nil(t, result.Score)
	assert.Equal(t, RatingInsufficientData, result.Rating)
}

func TestAggregate_BadConfigIsFault(t *testing.T) {
	cfg := scoringconfig.Default()
	cfg.Overall.Weights = map[string]float64{"financial": 0.9, "exogenous": 0.9, "behavioral": 0.9}

	_, err := Aggregate(contracts.Float(80), contracts.Float(40), contracts.Float(60), cfg)
	require.Error(t, err)
	assert.True(t, contracts.IsFault(err), "configuration error must surface as a fault")
}

func TestRate_Boundaries(t *testing.T) {
	buckets := scoringconfig.Default().Overall.Ratings

	tests := []struct {
		score float64
		want  string
	}{
		{score: 100, want: "Buy"},
		{score: 70, want: "Buy"},
		{score: 69.99, want: "Hold"},
		{score: 50, want: "Hold"},
		{score: 49.99, want: "Sell"},
		{score: 0, want: "Sell"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Rate(tt.score, buckets), "score %.2f", tt.score)
	}
}

func TestClamp(t *testing.T) {
	assert.Equal(t, -20.0, Clamp(-35, -20, 10))
	assert.Equal(t, 10.0, Clamp(12, -20, 10))
	assert.Equal(t, 3.0, Clamp(3, -20, 10))
}
