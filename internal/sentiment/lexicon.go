package sentiment

// Finance-leaning valence lexicon for headline polarity. Values roughly
// follow VADER magnitudes (about -4..+4).
var defaultLexicon = map[string]float64{
	// positive
	"beat":        2.2,
	"beats":       2.2,
	"boost":       1.8,
	"boosts":      1.8,
	"bullish":     2.4,
	"buyback":     1.5,
	"expand":      1.4,
	"expands":     1.4,
	"gain":        1.8,
	"gains":       1.8,
	"grant":       1.2,
	"growth":      1.6,
	"jump":        1.9,
	"jumps":       1.9,
	"outperform":  2.3,
	"partnership": 1.4,
	"profit":      1.7,
	"profits":     1.7,
	"rally":       2.0,
	"rallies":     2.0,
	"rebound":     1.6,
	"record":      1.3,
	"rise":        1.5,
	"rises":       1.5,
	"soar":        2.6,
	"soars":       2.6,
	"strong":      1.8,
	"subsidy":     1.2,
	"surge":       2.4,
	"surges":      2.4,
	"top":         1.2,
	"tops":        1.2,
	"upbeat":      1.9,
	"upgrade":     2.1,
	"upgrades":    2.1,
	"win":         1.8,
	"wins":        1.8,

	// negative
	"ban":           -1.8,
	"bankruptcy":    -3.4,
	"bearish":       -2.4,
	"crash":         -3.0,
	"cut":           -1.4,
	"cuts":          -1.4,
	"decline":       -1.7,
	"declines":      -1.7,
	"downgrade":     -2.1,
	"downgrades":    -2.1,
	"drop":          -1.8,
	"drops":         -1.8,
	"fall":          -1.6,
	"falls":         -1.6,
	"fear":          -1.9,
	"fears":         -1.9,
	"fine":          -1.2,
	"fined":         -1.6,
	"fraud":         -3.2,
	"investigation": -1.8,
	"lawsuit":       -2.2,
	"layoff":        -2.0,
	"layoffs":       -2.0,
	"lose":          -1.8,
	"loses":         -1.8,
	"loss":          -1.9,
	"losses":        -1.9,
	"miss":          -2.0,
	"misses":        -2.0,
	"plunge":        -2.8,
	"plunges":       -2.8,
	"probe":         -1.7,
	"recall":        -1.9,
	"restructuring": -0.8,
	"risk":          -1.2,
	"risks":         -1.2,
	"sanction":      -1.8,
	"sanctions":     -1.8,
	"sink":          -2.2,
	"sinks":         -2.2,
	"slump":         -2.3,
	"slumps":        -2.3,
	"strike":        -1.6,
	"tariff":        -1.5,
	"tariffs":       -1.5,
	"tumble":        -2.4,
	"tumbles":       -2.4,
	"warn":          -1.7,
	"warns":         -1.7,
	"weak":          -1.6,
}

// negators flip the valence of the following scored word.
var negators = map[string]bool{
	"not":     true,
	"no":      true,
	"never":   true,
	"without": true,
	"isnt":    true,
	"wont":    true,
	"doesnt":  true,
	"didnt":   true,
}
