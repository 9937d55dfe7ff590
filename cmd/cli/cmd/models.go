// Package cmd - models command
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"photonic-sparam/internal/config"
	"photonic-sparam/models/coeff"
)

// modelsCmd lists registered predictor models
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List registered predictor models",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()

		engine, closeStore, err := newEngine(false)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := engine.BindModels(cfg.Models.Packs); err != nil {
			return err
		}

		names := engine.Registry().Names()
		fmt.Printf("Registered models (%d):\n", len(names))
		for _, name := range names {
			source := "built-in analytic"
			if pack, ok := cfg.Models.Packs[name]; ok {
				source = pack
			}
			fmt.Printf("  %-12s %s\n", name, source)
		}
		return nil
	},
}

// modelsInspectCmd prints the contents of a coefficient pack
var modelsInspectCmd = &cobra.Command{
	Use:   "inspect [pack.json]",
	Short: "Inspect a coefficient pack file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		model, err := coeff.Open(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:    %s\n", model.Name())
		fmt.Printf("Version: %s\n", model.Version())
		fmt.Printf("Inputs:  %s\n", strings.Join(model.InputNames(), ", "))
		fmt.Printf("Outputs: %s\n", strings.Join(model.OutputNames(), ", "))
		fmt.Printf("Terms:   %d\n", model.Terms())
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsInspectCmd)
}
