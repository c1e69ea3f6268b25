package scoringconfig

// Config is the scoring configuration: module weights, per-module sub-metric
// weights, rating thresholds and exogenous keyword lists. Everything that
// shapes a score lives here so scores stay explainable.
type Config struct {
	Meta       Meta             `yaml:"meta" json:"meta"`
	Overall    Overall          `yaml:"overall" json:"overall"`
	Financial  FinancialConfig  `yaml:"financial" json:"financial"`
	Exogenous  ExogenousConfig  `yaml:"exogenous" json:"exogenous"`
	Behavioral BehavioralConfig `yaml:"behavioral" json:"behavioral"`
}

// Meta identifies the configuration revision.
type Meta struct {
	Name    string `yaml:"name" json:"name"`
	Version int    `yaml:"version" json:"version"`
}

// Overall holds the composite weights and rating buckets.
type Overall struct {
	Weights map[string]float64 `yaml:"weights" json:"weights"`
	Ratings []RatingBucket     `yaml:"ratings" json:"ratings"`
}

// RatingBucket maps a minimum score to a label. Buckets are ordered by
// strictly descending Min; the last bucket must have Min 0.
type RatingBucket struct {
	Label string  `yaml:"label" json:"label"`
	Min   float64 `yaml:"min" json:"min"`
}

// FinancialConfig holds the fundamentals sub-metric weights.
type FinancialConfig struct {
	Weights map[string]float64 `yaml:"weights" json:"weights"`
}

// ExogenousConfig holds macro/event keyword lists and the native score range.
// The native score is rescaled onto 0-100; the formula is documented in the
// module detail at report time.
type ExogenousConfig struct {
	PositiveKeywords []string `yaml:"positive_keywords" json:"positive_keywords"`
	NegativeKeywords []string `yaml:"negative_keywords" json:"negative_keywords"`
	NativeMin        float64  `yaml:"native_min" json:"native_min"`
	NativeMax        float64  `yaml:"native_max" json:"native_max"`
	IndexTiltCap     float64  `yaml:"index_tilt_cap" json:"index_tilt_cap"`
}

// BehavioralConfig holds the sentiment blend parameters.
type BehavioralConfig struct {
	SentimentWeight float64 `yaml:"sentiment_weight" json:"sentiment_weight"`
	BaselineWeight  float64 `yaml:"baseline_weight" json:"baseline_weight"`
	BaselineScore   float64 `yaml:"baseline_score" json:"baseline_score"`
}

// Module keys used in Overall.Weights.
const (
	ModuleFinancial  = "financial"
	ModuleExogenous  = "exogenous"
	ModuleBehavioral = "behavioral"
)

// Default returns the built-in configuration used when no YAML file is
// provided.
func Default() *Config {
	return &Config{
		Meta: Meta{Name: "default", Version: 1},
		Overall: Overall{
			Weights: map[string]float64{
				ModuleFinancial:  0.65,
				ModuleExogenous:  0.15,
				ModuleBehavioral: 0.20,
			},
			Ratings: []RatingBucket{
				{Label: "Buy", Min: 70},
				{Label: "Hold", Min: 50},
				{Label: "Sell", Min: 0},
			},
		},
		Financial: FinancialConfig{
			Weights: map[string]float64{
				"profitability":      0.25,
				"growth":             0.20,
				"balance_sheet":      0.15,
				"cashflow_quality":   0.10,
				"valuation":          0.20,
				"industry_position":  0.05,
				"regulatory_signals": 0.05,
			},
		},
		Exogenous: ExogenousConfig{
			PositiveKeywords: []string{
				"subsidy", "grant", "government stake", "partnership",
				"investment", "chips", "incentive",
			},
			NegativeKeywords: []string{
				"tariff", "sanction", "ban", "strike", "flood", "earthquake",
				"war", "export control", "geopolitics", "conflict", "typhoon",
				"hurricane",
			},
			NativeMin:    -20,
			NativeMax:    10,
			IndexTiltCap: 5,
		},
		Behavioral: BehavioralConfig{
			SentimentWeight: 0.7,
			BaselineWeight:  0.3,
			BaselineScore:   55,
		},
	}
}
