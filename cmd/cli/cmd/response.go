// Package cmd - response command
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"photonic-sparam/core/eval"
	"photonic-sparam/core/output"
	"photonic-sparam/core/sweep"
	"photonic-sparam/internal/config"
)

var (
	respModel       string
	respBand        string
	respWavelengths []float64
	respWidths      []float64
	respThicknesses []float64
	respDerivative  int
	respFormat      string
	respOutput      string
)

// responseCmd represents the response command
var responseCmd = &cobra.Command{
	Use:   "response",
	Short: "Compute effective indices over a geometry grid",
	Long: `Evaluate a predictor model over the cartesian product of the
wavelength, width, and thickness axes and print the effective index
of each guided mode.

Without --wavelength the grid comes from --band, or failing that from
the configured default sweep. With --derivative N the values are the
N-th derivative of effective index with respect to wavelength.

Examples:
  photonic-sparam response --band c
  photonic-sparam response --wavelength 1.55 --width 0.4 --width 0.5 --width 0.6
  photonic-sparam response --band c --derivative 1 --format csv`,
	RunE: runResponse,
}

func init() {
	responseCmd.Flags().StringVar(&respModel, "model", "", "predictor model name (default waveguide)")
	responseCmd.Flags().StringVarP(&respBand, "band", "b", "", "telecom band preset (o, e, s, c, l)")
	responseCmd.Flags().Float64SliceVar(&respWavelengths, "wavelength", nil, "wavelength point in micrometers (repeatable)")
	responseCmd.Flags().Float64SliceVar(&respWidths, "width", []float64{0.5}, "waveguide width in micrometers (repeatable)")
	responseCmd.Flags().Float64SliceVar(&respThicknesses, "thickness", []float64{0.2}, "waveguide thickness in micrometers (repeatable)")
	responseCmd.Flags().IntVar(&respDerivative, "derivative", 0, "order of the wavelength derivative")
	responseCmd.Flags().StringVarP(&respFormat, "format", "f", "", "output format (cli, json, csv)")
	responseCmd.Flags().StringVarP(&respOutput, "output", "o", "", "write output to a file instead of stdout")
}

func runResponse(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	wavelengths, err := resolveResponseGrid()
	if err != nil {
		return err
	}

	engine, closeStore, err := newEngine(false)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := engine.BindModels(cfg.Models.Packs); err != nil {
		return err
	}

	result, err := engine.Response(ctx, &eval.ResponseRequest{
		Model:       respModel,
		Wavelengths: wavelengths,
		Widths:      respWidths,
		Thicknesses: respThicknesses,
		Derivative:  respDerivative,
		Source:      "cli",
	})
	if err != nil {
		return err
	}

	writer, closeOutput, err := openOutput(respOutput)
	if err != nil {
		return err
	}
	defer closeOutput()

	format := output.Format(respFormat)
	if respFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	return newFormats().Render(writer, format, result)
}

// resolveResponseGrid picks the wavelength axis for a mode response
func resolveResponseGrid() ([]float64, error) {
	if len(respWavelengths) > 0 {
		if respBand != "" {
			return nil, fmt.Errorf("--wavelength and --band are mutually exclusive")
		}
		return respWavelengths, nil
	}
	if respBand != "" {
		sw, err := sweep.Band(respBand)
		if err != nil {
			return nil, err
		}
		return sw.Expand()
	}

	cfg := config.Get()
	if cfg.Sweep.Band != "" {
		sw, err := sweep.Band(cfg.Sweep.Band)
		if err != nil {
			return nil, err
		}
		return sw.Expand()
	}
	sw := sweep.Sweep{
		Start:  cfg.Sweep.StartUM,
		Stop:   cfg.Sweep.StopUM,
		Points: cfg.Sweep.Points,
	}
	return sw.Expand()
}
