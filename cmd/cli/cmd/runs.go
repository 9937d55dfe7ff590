// Package cmd - runs command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"photonic-sparam/adapters/storage"
	"photonic-sparam/core/output"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/config"
)

var (
	runsDevice string
	runsLimit  int
	runsFormat string
)

// runsCmd manages saved evaluation runs
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage saved evaluation runs",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// runsListCmd lists saved runs
var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		filter := &storage.ListFilter{Limit: runsLimit}
		if runsDevice != "" {
			filter.Device = types.DeviceKind(runsDevice)
		}

		runs, err := store.List(ctx, filter)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No saved runs.")
			return nil
		}

		fmt.Printf("%-36s  %-12s  %-16s  %6s  %5s  %s\n",
			"ID", "DEVICE", "NAME", "POINTS", "PORTS", "CREATED")
		for _, run := range runs {
			fmt.Printf("%-36s  %-12s  %-16s  %6d  %5d  %s\n",
				run.ID, run.Device, truncate(run.Name, 16),
				run.Points, run.Ports,
				run.CreatedAt.Format(time.RFC3339))
		}
		return nil
	},
}

// runsShowCmd renders one saved run
var runsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Render a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg := config.Get()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := store.Get(ctx, args[0])
		if err != nil {
			return err
		}

		var result output.Result
		if err := json.Unmarshal(run.Result, &result); err != nil {
			return fmt.Errorf("failed to decode stored result: %w", err)
		}

		format := output.Format(runsFormat)
		if runsFormat == "" {
			format = output.Format(cfg.Output.DefaultFormat)
		}
		return newFormats().Render(os.Stdout, format, &result)
	},
}

// runsDeleteCmd removes a saved run
var runsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(ctx, args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted run %s\n", args[0])
		return nil
	},
}

func init() {
	runsListCmd.Flags().StringVar(&runsDevice, "device", "", "filter by device kind")
	runsListCmd.Flags().IntVar(&runsLimit, "limit", 20, "maximum number of runs to list")
	runsShowCmd.Flags().StringVarP(&runsFormat, "format", "f", "", "output format (cli, json, csv)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}
