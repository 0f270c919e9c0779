package model

import "time"

// SentimentLabel is the discretized verdict of the lexicon scorer.
type SentimentLabel string

const (
	StronglyBullish SentimentLabel = "STRONGLY_BULLISH"
	Bullish         SentimentLabel = "BULLISH"
	Neutral         SentimentLabel = "NEUTRAL"
	Bearish         SentimentLabel = "BEARISH"
	StronglyBearish SentimentLabel = "STRONGLY_BEARISH"
)

// LexiconCategory names a weighted keyword group.
type LexiconCategory string

const (
	CategoryStrongPositive    LexiconCategory = "strong_positive"
	CategoryPositive          LexiconCategory = "positive"
	CategoryNegative          LexiconCategory = "negative"
	CategoryStrongNegative    LexiconCategory = "strong_negative"
	CategoryTechnicalPositive LexiconCategory = "technical_positive"
	CategoryTechnicalNegative LexiconCategory = "technical_negative"
)

// LexiconEntry is one row of the static keyword table.
type LexiconEntry struct {
	Category LexiconCategory
	Weight   float64
	Keywords []string
}

// SentimentResult is the verdict for one piece of text.
type SentimentResult struct {
	Text           string
	Label          SentimentLabel
	Polarity       float64 // combined, -1..1
	BasePolarity   float64
	FinancialScore float64
	Confidence     float64 // 0..1
	Matches        map[LexiconCategory][]string
	AnalyzedAt     time.Time
}

// SentimentSummary aggregates several results, e.g. one per news source.
type SentimentSummary struct {
	Label      SentimentLabel
	Polarity   float64
	Confidence float64
	Count      int
	Results    []SentimentResult
}
