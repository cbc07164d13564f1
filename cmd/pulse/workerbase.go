package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"MarketPulse/internal/prefs"
)

var clearWorkerBase bool

var workerBaseCmd = &cobra.Command{
	Use:   "worker-base [url]",
	Short: "Show or persist the relay base URL",
	Long: `Without arguments, print the relay base in effect. With a URL, save it to
the prefs file so later runs route relay-eligible requests through it.

Examples:
  pulse worker-base
  pulse worker-base https://relay.example.workers.dev
  pulse worker-base --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWorkerBase,
}

func init() {
	rootCmd.AddCommand(workerBaseCmd)
	workerBaseCmd.Flags().BoolVar(&clearWorkerBase, "clear", false, "Remove the saved relay base")
}

func runWorkerBase(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch {
	case clearWorkerBase:
		if err := store.SetWorkerBase(""); err != nil {
			return err
		}
		fmt.Fprintln(out, "relay base cleared")
	case len(args) == 1:
		if err := store.SetWorkerBase(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "relay base saved: %s\n", store.WorkerBase())
	default:
		base := store.Resolve(cfg.Relay.BaseURL)
		if base == "" {
			base = "(direct)"
		}
		fmt.Fprintln(out, base)
	}
	return nil
}
