package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// normAlpha dampens the summed valence into [-1, 1]; same constant VADER uses
// for its compound score.
const normAlpha = 15.0

// Analyzer scores short texts (headlines) for polarity using a fixed valence
// lexicon. Deterministic by construction: identical input yields identical
// polarity.
type Analyzer struct {
	lexicon map[string]float64
}

// NewAnalyzer creates an analyzer with the built-in finance lexicon.
func NewAnalyzer() *Analyzer {
	return &Analyzer{lexicon: defaultLexicon}
}

// Polarity returns a compound polarity in [-1, 1] for the text; 0 for text
// with no scored words.
func (a *Analyzer) Polarity(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	negate := false
	for _, tok := range tokens {
		if negators[tok] {
			negate = true
			continue
		}

		valence, ok := a.lexicon[tok]
		if !ok {
			continue
		}
		if negate {
			valence = -valence
		}
		negate = false
		sum += valence
	}

	if sum == 0 {
		return 0
	}
	return sum / math.Sqrt(sum*sum+normAlpha)
}

// Average returns the mean polarity over texts, and the count of texts scored.
func (a *Analyzer) Average(texts []string) (float64, int) {
	if len(texts) == 0 {
		return 0, 0
	}

	var total float64
	count := 0
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			continue
		}
		total += a.Polarity(t)
		count++
	}

	if count == 0 {
		return 0, 0
	}
	return total / float64(count), count
}

// tokenize lowercases and splits on non-letter runes, stripping apostrophes
// so "won't" matches the negator "wont".
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\'' || r == '’' {
			return -1
		}
		return unicode.ToLower(r)
	}, text)

	return strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
