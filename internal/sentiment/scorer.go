package sentiment

import (
	"math"
	"strings"
	"time"

	"CryptoSentinel/internal/model"
)

// MatchMode selects how keyword hits are counted.
type MatchMode string

const (
	// MatchPresence counts each keyword once no matter how often it appears.
	MatchPresence MatchMode = "presence"
	// MatchFrequency counts every occurrence.
	MatchFrequency MatchMode = "frequency"
)

const (
	DefaultBlendWeight = 0.3
	categoryBonus      = 0.2
)

// Config tunes how the lexicon score is blended into the baseline polarity.
type Config struct {
	BlendWeight float64   `yaml:"blend_weight"`
	Mode        MatchMode `yaml:"match_mode"`
}

// DefaultConfig is the simple variant: presence matching, 0.3 blend.
func DefaultConfig() Config {
	return Config{BlendWeight: DefaultBlendWeight, Mode: MatchPresence}
}

// Scorer is the lexicon-based sentiment scorer. It holds no mutable state.
type Scorer struct {
	cfg      Config
	lexicon  []model.LexiconEntry
	baseline PolarityEstimator
	now      func() time.Time
}

// NewScorer creates a scorer over DefaultLexicon and the built-in baseline.
func NewScorer(cfg Config) *Scorer {
	return NewScorerWith(cfg, DefaultLexicon, NewBaseline())
}

// NewScorerWith creates a scorer with a custom lexicon and baseline estimator.
func NewScorerWith(cfg Config, lexicon []model.LexiconEntry, baseline PolarityEstimator) *Scorer {
	if cfg.Mode == "" {
		cfg.Mode = MatchPresence
	}
	return &Scorer{cfg: cfg, lexicon: lexicon, baseline: baseline, now: time.Now}
}

// Score analyzes one text. Empty or whitespace-only text is NEUTRAL with zero confidence.
func (s *Scorer) Score(text string) model.SentimentResult {
	res := model.SentimentResult{
		Text:       text,
		Label:      model.Neutral,
		Matches:    map[model.LexiconCategory][]string{},
		AnalyzedAt: s.now(),
	}
	folded := strings.ToLower(strings.TrimSpace(text))
	if folded == "" {
		return res
	}

	var financial float64
	for _, entry := range s.lexicon {
		count := 0
		for _, kw := range entry.Keywords {
			n := strings.Count(folded, kw)
			if n == 0 {
				continue
			}
			res.Matches[entry.Category] = append(res.Matches[entry.Category], kw)
			if s.cfg.Mode == MatchFrequency {
				count += n
			} else {
				count++
			}
		}
		financial += entry.Weight * float64(count)
	}

	res.BasePolarity = s.baseline.Polarity(text)
	res.FinancialScore = financial
	res.Polarity = clamp(res.BasePolarity+financial*s.cfg.BlendWeight, -1, 1)
	res.Label = LabelFor(res.Polarity)
	res.Confidence = math.Min(math.Abs(res.Polarity)+categoryBonus*float64(len(res.Matches)), 1)
	return res
}

// ScoreMany scores each text in order.
func (s *Scorer) ScoreMany(texts []string) []model.SentimentResult {
	out := make([]model.SentimentResult, 0, len(texts))
	for _, t := range texts {
		out = append(out, s.Score(t))
	}
	return out
}

// Summarize averages polarity and confidence over results and labels the mean.
func Summarize(results []model.SentimentResult) model.SentimentSummary {
	sum := model.SentimentSummary{Label: model.Neutral, Count: len(results), Results: results}
	if len(results) == 0 {
		return sum
	}
	var pol, conf float64
	for _, r := range results {
		pol += r.Polarity
		conf += r.Confidence
	}
	n := float64(len(results))
	sum.Polarity = pol / n
	sum.Confidence = conf / n
	sum.Label = LabelFor(sum.Polarity)
	return sum
}

// LabelFor maps a combined polarity onto the five sentiment bands.
func LabelFor(p float64) model.SentimentLabel {
	switch {
	case p > 0.25:
		return model.StronglyBullish
	case p > 0.1:
		return model.Bullish
	case p < -0.25:
		return model.StronglyBearish
	case p < -0.1:
		return model.Bearish
	default:
		return model.Neutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(lo, math.Min(hi, v))
}
