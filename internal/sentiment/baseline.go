package sentiment

import (
	"strings"
	"unicode"
)

// PolarityEstimator gives a general-purpose polarity in [-1, 1] for a text.
type PolarityEstimator interface {
	Polarity(text string) float64
}

// Baseline is a word-weight polarity estimator. Each matched word adds or subtracts
// its weight; the sum is normalized by the word count.
type Baseline struct {
	positive map[string]float64
	negative map[string]float64
}

// NewBaseline creates the estimator with the built-in crypto vocabulary.
func NewBaseline() *Baseline {
	return &Baseline{
		positive: buildPositiveWords(),
		negative: buildNegativeWords(),
	}
}

// Polarity returns the normalized score of text, 0 when nothing matches.
func (b *Baseline) Polarity(text string) float64 {
	words := strings.Fields(strings.ToLower(text))
	if len(words) == 0 {
		return 0
	}

	var score float64
	matched := 0
	for _, word := range words {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if w, ok := b.positive[word]; ok {
			score += w
			matched++
		}
		if w, ok := b.negative[word]; ok {
			score -= w
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return clamp(score/float64(len(words)), -1, 1)
}

func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		"bullish":      1.0,
		"bull":         0.9,
		"rally":        0.9,
		"surge":        0.8,
		"soar":         0.8,
		"pump":         0.7,
		"moon":         0.7,
		"rocket":       0.7,
		"gain":         0.6,
		"gains":        0.6,
		"profit":       0.6,
		"win":          0.6,
		"great":        0.6,
		"amazing":      0.7,
		"good":         0.5,
		"up":           0.5,
		"rise":         0.5,
		"growth":       0.5,
		"increase":     0.5,
		"positive":     0.5,
		"optimistic":   0.5,
		"breakthrough": 0.6,
		"adoption":     0.6,
		"upgrade":      0.5,
		"halving":      0.6,
		"breakout":     0.7,
		"ath":          0.8,
		"etf":          0.7,
		"approved":     0.6,
	}
}

func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		"bearish":      1.0,
		"bear":         0.9,
		"crash":        1.0,
		"crashing":     1.0,
		"dump":         0.9,
		"plunge":       0.8,
		"fall":         0.6,
		"drop":         0.6,
		"decline":      0.6,
		"loss":         0.7,
		"losing":       0.7,
		"terrible":     0.8,
		"bad":          0.5,
		"down":         0.5,
		"negative":     0.5,
		"pessimistic":  0.5,
		"fear":         0.6,
		"panic":        0.8,
		"selloff":      0.7,
		"correction":   0.6,
		"hack":         1.0,
		"exploit":      1.0,
		"scam":         1.0,
		"rug":          1.0,
		"fraud":        1.0,
		"lawsuit":      0.7,
		"ban":          0.8,
		"crackdown":    0.7,
		"liquidation":  0.8,
		"capitulation": 0.8,
		"fud":          0.7,
		"bubble":       0.6,
	}
}
