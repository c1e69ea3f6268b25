package scoringconfig

import (
	"fmt"
	"math"
)

const weightTolerance = 1e-9

// Validate checks the configuration invariants. A violation here is a
// pipeline fault: the aggregator must never run with inconsistent weights.
func Validate(cfg *Config) error {
	if err := validateWeights("overall", cfg.Overall.Weights); err != nil {
		return err
	}

	for _, key := range []string{ModuleFinancial, ModuleExogenous, ModuleBehavioral} {
		if _, ok := cfg.Overall.Weights[key]; !ok {
			return fmt.Errorf("overall weights missing module %q", key)
		}
	}

	if err := validateRatings(cfg.Overall.Ratings); err != nil {
		return err
	}

	if err := validateWeights("financial", cfg.Financial.Weights); err != nil {
		return err
	}

	if cfg.Exogenous.NativeMin >= cfg.Exogenous.NativeMax {
		return fmt.Errorf("exogenous native_min must be below native_max")
	}
	if cfg.Exogenous.IndexTiltCap < 0 {
		return fmt.Errorf("exogenous index_tilt_cap must be non-negative")
	}

	blend := cfg.Behavioral.SentimentWeight + cfg.Behavioral.BaselineWeight
	if math.Abs(blend-1.0) > weightTolerance {
		return fmt.Errorf("behavioral blend weights sum to %.6f, want 1.0", blend)
	}
	if cfg.Behavioral.BaselineScore < 0 || cfg.Behavioral.BaselineScore > 100 {
		return fmt.Errorf("behavioral baseline_score must be within 0-100")
	}

	return nil
}

func validateWeights(scope string, weights map[string]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%s weights are empty", scope)
	}

	sum := 0.0
	for name, w := range weights {
		if w < 0 {
			return fmt.Errorf("%s weight %q is negative", scope, name)
		}
		sum += w
	}

	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("%s weights sum to %.6f, want 1.0", scope, sum)
	}

	return nil
}

func validateRatings(buckets []RatingBucket) error {
	if len(buckets) == 0 {
		return fmt.Errorf("rating buckets are empty")
	}

	prev := math.Inf(1)
	for _, b := range buckets {
		if b.Label == "" {
			return fmt.Errorf("rating bucket has empty label")
		}
		if b.Min >= prev {
			return fmt.Errorf("rating bucket minimums must be strictly descending")
		}
		prev = b.Min
	}

	if buckets[len(buckets)-1].Min != 0 {
		return fmt.Errorf("last rating bucket must have min 0")
	}

	return nil
}
