package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"CryptoSentinel/internal/notifier"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Show or edit tracked holdings",
}

var portfolioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Value holdings at current prices",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := setup(ctx, false)
		if err != nil {
			return err
		}
		defer a.Close()

		seen := make(map[string]bool)
		for _, h := range a.portfolio.GetState().Holdings {
			if seen[h.Symbol] {
				continue
			}
			seen[h.Symbol] = true
			if _, err := a.sched.RefreshPass(ctx, h.Symbol); err != nil {
				return err
			}
		}
		sum := a.portfolio.Valuate(a.state.LastPrices())
		fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatPortfolio(&sum)))
		return nil
	},
}

var portfolioAddCmd = &cobra.Command{
	Use:   "add SYMBOL QUANTITY BUY_PRICE",
	Short: "Add a holding",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("quantity %q: %w", args[1], err)
		}
		buy, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("buy price %q: %w", args[2], err)
		}

		a, err := setup(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		symbol := strings.ToUpper(args[0])
		if _, ok := a.cfg.SymbolTable()[symbol]; !ok {
			return fmt.Errorf("%s is not in the symbol table", symbol)
		}
		h, err := a.portfolio.AddHolding(symbol, qty, buy, time.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "holding %s added: %s %s @ %s\n", h.ID, h.Quantity, h.Symbol, notifier.FormatPrice(h.BuyPrice))
		return nil
	},
}

var portfolioRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a holding",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.portfolio.RemoveHolding(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "holding %s removed\n", args[0])
		return nil
	},
}

func init() {
	portfolioCmd.AddCommand(portfolioShowCmd, portfolioAddCmd, portfolioRemoveCmd)
}
