package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CryptoSentinel/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled refresh, alert and sentiment passes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a, err := setup(ctx, true)
		if err != nil {
			return err
		}
		defer a.Close()

		logger.Info("CryptoSentinel starting", zap.Strings("symbols", a.sched.Symbols))

		if err := a.sched.RegisterAll(a.cfg.Schedule.RefreshCron, a.cfg.Schedule.SentimentCron); err != nil {
			return err
		}
		a.sched.Start()
		defer a.sched.Stop()

		if a.telegram != nil {
			go a.telegram.StartPolling(ctx, a.sched.HandleCommand)
			logger.Info("telegram polling started")
		}

		if runOnStart {
			go func() {
				a.sched.RefreshAll(ctx)
				a.sched.SentimentPass(ctx)
			}()
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info("shutdown signal received, stopping")
		cancel()
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&runOnStart, "run-on-start", os.Getenv("RUN_ON_START") == "true", "run one refresh and sentiment pass immediately")
}
