// Package score combines the scored modules into the overall result. The
// weight renormalization rule lives here as pure functions, independently
// testable apart from any fetch plumbing.
package score

import (
	"fmt"
	"math"

	"github.com/wonny/openresearch/backend/internal/contracts"
	"github.com/wonny/openresearch/backend/internal/scoringconfig"
)

// RatingInsufficientData is the rating when no module produced a score.
const RatingInsufficientData = "insufficient data"

const weightTolerance = 1e-9

// Renormalize redistributes weight mass away from nil-scored modules so the
// remaining weights sum to 1. A missing score is never treated as zero, since
// that would bias the composite. Returns the effective weights for present
// modules only; empty when every score is nil.
func Renormalize(scores map[string]*float64, weights map[string]float64) (map[string]float64, error) {
	total := 0.0
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative weight in configuration")
		}
		total += w
	}
	if math.Abs(total-1.0) > weightTolerance {
		return nil, fmt.Errorf("weights sum to %.6f, want 1.0", total)
	}

	presentMass := 0.0
	for key, s := range scores {
		if s == nil {
			continue
		}
		w, ok := weights[key]
		if !ok {
			return nil, fmt.Errorf("no weight configured for module %q", key)
		}
		presentMass += w
	}

	effective := make(map[string]float64)
	if presentMass == 0 {
		return effective, nil
	}

	for key, s := range scores {
		if s == nil {
			continue
		}
		effective[key] = weights[key] / presentMass
	}

	return effective, nil
}

// Aggregate combines the three module scores into the overall result. A
// configuration inconsistency is returned as a pipeline fault; missing module
// scores are policy, not error.
func Aggregate(financial, exogenous, behavioral *float64, cfg *scoringconfig.Config) (contracts.OverallResult, error) {
	scores := map[string]*float64{
		scoringconfig.ModuleFinancial:  financial,
		scoringconfig.ModuleExogenous:  exogenous,
		scoringconfig.ModuleBehavioral: behavioral,
	}

	effective, err := Renormalize(scores, cfg.Overall.Weights)
	if err != nil {
		return contracts.OverallResult{}, contracts.NewFault(err)
	}

	if len(effective) == 0 {
		return contracts.OverallResult{
			Score:  nil,
			Rating: RatingInsufficientData,
		}, nil
	}

	sum := 0.0
	for key, w := range effective {
		sum += *scores[key] * w
	}
	sum = math.Round(sum*100) / 100

	return contracts.OverallResult{
		Score:  contracts.Float(sum),
		Rating: Rate(sum, cfg.Overall.Ratings),
	}, nil
}

// Rate buckets a 0-100 score into its configured label.
func Rate(score float64, buckets []scoringconfig.RatingBucket) string {
	for _, b := range buckets {
		if score >= b.Min {
			return b.Label
		}
	}
	// Buckets end at min 0; only a negative score lands here.
	return buckets[len(buckets)-1].Label
}

// Clamp bounds v to [lo, hi]. Shared by the module calculators.
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
