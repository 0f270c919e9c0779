package main

import (
	"context"
	"fmt"

	"CryptoSentinel/internal/notifier"

	"github.com/spf13/cobra"
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Manage price alerts stored in the portfolio state file",
}

var alertAddCmd = &cobra.Command{
	Use:   "add SYMBOL above|below PRICE",
	Short: "Add a price alert",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		pa, err := a.sched.AddAlert(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "alert %s added: %s %s %s\n", pa.ID, pa.Symbol, pa.Condition, notifier.FormatPrice(pa.Threshold))
		return nil
	},
}

var alertListCmd = &cobra.Command{
	Use:   "list",
	Short: "List price alerts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(context.Background(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Fprintln(cmd.OutOrStdout(), plain(notifier.FormatAlertList(a.state.Alerts())))
		return nil
	},
}

var alertRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a price alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editAlert(args[0], "removed", func(a *app, id string) error { return a.state.RemoveAlert(id) })
	},
}

var alertResetCmd = &cobra.Command{
	Use:   "reset ID",
	Short: "Re-arm a triggered price alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editAlert(args[0], "re-armed", func(a *app, id string) error { return a.state.ResetAlert(id) })
	},
}

func editAlert(id, verb string, op func(*app, string) error) error {
	a, err := setup(context.Background(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := op(a, id); err != nil {
		return fmt.Errorf("alert %s: %w", id, err)
	}
	if _, err := a.portfolio.SyncSession(a.state.Export()); err != nil {
		return err
	}
	fmt.Printf("alert %s %s\n", id, verb)
	return nil
}

func init() {
	alertCmd.AddCommand(alertAddCmd, alertListCmd, alertRemoveCmd, alertResetCmd)
}
