package main

import (
	"github.com/spf13/cobra"

	"github.com/rolecoach/rolecoach/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analysis history",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	records := a.session.History()
	if len(records) == 0 {
		cmd.Println("No analysis history.")
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(records)
	return nil
}
