package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "crypto-sentinel",
	Short:         "Heuristic crypto price outlook, sentiment and alert bot",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	defaultPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultPath = v
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultPath, "path to the YAML config file")

	rootCmd.AddCommand(serveCmd, predictCmd, sentimentCmd, alertCmd, portfolioCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
