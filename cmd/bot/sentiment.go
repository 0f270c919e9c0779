package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"CryptoSentinel/internal/model"
	"CryptoSentinel/internal/notifier"
	"CryptoSentinel/internal/sentiment"

	"github.com/spf13/cobra"
)

var sentimentCmd = &cobra.Command{
	Use:   "sentiment [TEXT...]",
	Short: "Score texts (or the configured headlines) with the financial lexicon",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := setup(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			sum := a.sched.SentimentPass(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatSentiment(&sum)))
			return nil
		}

		res := a.sched.Scorer.Score(strings.Join(args, " "))
		if err := a.recorder.RecordSentiment(&res); err != nil {
			return err
		}
		writeMatches(cmd.OutOrStdout(), res)
		sum := sentiment.Summarize([]model.SentimentResult{res})
		fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatSentiment(&sum)))
		return nil
	},
}

// writeMatches prints matched keywords per category in lexicon order.
func writeMatches(w io.Writer, res model.SentimentResult) {
	for _, entry := range sentiment.DefaultLexicon {
		if words := res.Matches[entry.Category]; len(words) > 0 {
			fmt.Fprintf(w, "%s: %s\n", entry.Category, strings.Join(words, ", "))
		}
	}
}
