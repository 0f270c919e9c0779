package sentiment

import "CryptoSentinel/internal/model"

// DefaultLexicon is the financial keyword table. Keywords are lower case and matched as substrings.
var DefaultLexicon = []model.LexiconEntry{
	{
		Category: model.CategoryStrongPositive,
		Weight:   0.8,
		Keywords: []string{"moon", "rocket", "breakout", "parabolic", "all-time high", "surge", "soar", "explode"},
	},
	{
		Category: model.CategoryPositive,
		Weight:   0.4,
		Keywords: []string{"bullish", "rally", "gain", "profit", "growth", "adoption", "buy", "pump", "green", "recover", "upgrade", "partnership"},
	},
	{
		Category: model.CategoryNegative,
		Weight:   -0.4,
		Keywords: []string{"bearish", "sell", "drop", "fall", "decline", "loss", "fear", "weak", "uncertain", "concern"},
	},
	{
		Category: model.CategoryStrongNegative,
		Weight:   -0.8,
		Keywords: []string{"crash", "dump", "scam", "hack", "collapse", "plunge", "liquidat", "rug pull", "ponzi", "bankrupt"},
	},
	{
		Category: model.CategoryTechnicalPositive,
		Weight:   0.6,
		Keywords: []string{"support", "golden cross", "oversold", "higher high", "accumulation"},
	},
	{
		Category: model.CategoryTechnicalNegative,
		Weight:   -0.6,
		Keywords: []string{"resistance", "death cross", "overbought", "lower low", "distribution"},
	},
}
