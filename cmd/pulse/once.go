package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"MarketPulse/internal/board"
	"MarketPulse/internal/model"
	"MarketPulse/internal/notifier"
	"MarketPulse/internal/scheduler"
)

var onceText bool

var onceCmd = &cobra.Command{
	Use:   "once <page>",
	Short: "Tick one page and print the board",
	Long: `Run a single tick of a page and print the resulting board as JSON.
Pages: market, ratios, sentiment, bias, composite, macro, signal.

Examples:
  pulse once bias
  pulse once market --text`,
	Args: cobra.ExactArgs(1),
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(onceCmd)
	onceCmd.Flags().BoolVar(&onceText, "text", false, "Print the chat layout instead of JSON where one exists")
}

func runOnce(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	resolveRelay(cfg)
	col, _, err := newCollector(cfg, nil)
	if err != nil {
		return err
	}
	sched := scheduler.NewScheduler(context.Background(), col, board.New(), nil, nil)
	snap, _, err := sched.RunNow(model.Page(args[0]))
	if err != nil {
		return err
	}

	if onceText {
		if text := notifier.Format(snap); text != "" {
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
