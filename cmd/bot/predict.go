package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CryptoSentinel/internal/notifier"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	predictSamples  int
	predictInterval time.Duration
)

var predictCmd = &cobra.Command{
	Use:   "predict SYMBOL",
	Short: "Sample prices for a symbol and print the resulting outlook",
	Args:  cobra.ExactArgs(1),
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

		symbol := strings.ToUpper(args[0])
		out := cmd.OutOrStdout()
		for i := 0; i < predictSamples; i++ {
			if i > 0 && predictInterval > 0 {
				time.Sleep(predictInterval)
			}
			res, err := a.sched.RefreshPass(ctx, symbol)
			if err != nil {
				return err
			}
			if i < predictSamples-1 {
				continue
			}
			fmt.Fprintln(out, plain(notifier.FormatPrediction(&res.Prediction, res.Quote.Price, res.Quote.Synthetic())))

			ind := res.Indicators
			fmt.Fprintf(out, "24h volume: %s\n", notifier.FormatVolume(res.Quote.Stats.Volume))
			for _, w := range a.sched.Params.MAWindows {
				if m := ind.MovingAverage[w]; m.Available {
					fmt.Fprintf(out, "MA%d: %s\n", w, humanize.FormatFloat("#,###.##", m.Value))
				}
			}
			if ind.RSI.Available {
				fmt.Fprintf(out, "RSI(%d): %.1f\n", a.sched.Params.RSIPeriod, ind.RSI.Value)
			}
			if ind.Volatility.Available {
				fmt.Fprintf(out, "Volatility: %.4f\n", ind.Volatility.Value)
			}
			for _, e := range res.Quote.Fallback {
				fmt.Fprintf(out, "fallback: %v\n", e)
			}
		}
		a.sched.AlertPass(ctx)
		return nil
	},
}

func init() {
	predictCmd.Flags().IntVarP(&predictSamples, "samples", "n", 5, "number of price samples to collect before predicting")
	predictCmd.Flags().DurationVar(&predictInterval, "interval", 2*time.Second, "pause between samples")
}
