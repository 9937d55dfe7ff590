// Package cmd - evaluate command
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"photonic-sparam/adapters/hcl"
	"photonic-sparam/core/eval"
	"photonic-sparam/core/output"
	"photonic-sparam/core/scanner"
	"photonic-sparam/core/sweep"
	"photonic-sparam/internal/config"
	"photonic-sparam/internal/logging"
)

var (
	outputFormat string
	outputFile   string
	bandName     string
	sweepSpec    string
	saveRuns     bool
	workerCount  int
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate [path]",
	Short: "Compute S-parameters for a circuit definition",
	Long: `Parse circuit definition files and compute S-parameters for each device.

The path can be a directory containing .pic.hcl files or a single
circuit file. The wavelength grid comes from --band or --sweep when
given, otherwise from a sweep block in the circuit files (a sweep
named "main" wins when several are defined), otherwise from the
configured default sweep.

Examples:
  photonic-sparam evaluate .
  photonic-sparam evaluate ./designs/ring.pic.hcl
  photonic-sparam evaluate --band c --format csv --output ring.csv ./designs
  photonic-sparam evaluate --sweep 1.5:1.6:201 --save ./designs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (cli, json, csv)")
	evaluateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write output to a file instead of stdout")
	evaluateCmd.Flags().StringVarP(&bandName, "band", "b", "", "telecom band preset (o, e, s, c, l)")
	evaluateCmd.Flags().StringVar(&sweepSpec, "sweep", "", "wavelength sweep as start:stop:points in micrometers")
	evaluateCmd.Flags().BoolVar(&saveRuns, "save", false, "persist results to the run store")
	evaluateCmd.Flags().IntVar(&workerCount, "workers", 4, "parallel device evaluations")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()

	// Determine path
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	// Validate path exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("path does not exist: %s", path)
	}

	logging.Info("Starting S-parameter evaluation")

	// Initialize circuit scanners
	if err := initializeScanners(); err != nil {
		return fmt.Errorf("failed to initialize scanners: %w", err)
	}

	// Scan the circuit files
	fmt.Println("Scanning circuit files...")
	scanResult, err := scanner.GetDefault().DetectAndScan(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to scan circuit: %w", err)
	}

	if scanResult.HasWarnings() {
		fmt.Printf("Warning: %d findings during scanning\n", len(scanResult.Warnings))
		for _, w := range scanResult.Warnings {
			fmt.Printf("  %s:%d: %s\n", w.File, w.Line, w.Message)
		}
	}
	if err := scanResult.Err(); err != nil {
		return err
	}

	if len(scanResult.Devices) == 0 {
		fmt.Println("No devices found in the circuit.")
		return nil
	}

	fmt.Printf("Found %d devices\n\n", len(scanResult.Devices))

	// Build the engine, with a run store only when results are persisted
	engine, closeStore, err := newEngine(saveRuns)
	if err != nil {
		return err
	}
	defer closeStore()

	// Bind coefficient packs: file-level model blocks override config
	packs := make(map[string]string, len(cfg.Models.Packs)+len(scanResult.Models))
	for name, pack := range cfg.Models.Packs {
		packs[name] = pack
	}
	for name, pack := range scanResult.Models {
		packs[name] = pack
	}
	if err := engine.BindModels(packs); err != nil {
		return err
	}

	// Resolve the wavelength grid
	sw, band, err := resolveSweep(scanResult.Sweeps)
	if err != nil {
		return err
	}

	// Prepare output
	writer, closeOutput, err := openOutput(outputFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	format := output.Format(outputFormat)
	if outputFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	formats := newFormats()

	// Evaluate all devices through the worker pool
	reqs := make([]*eval.Request, 0, len(scanResult.Devices))
	for _, device := range scanResult.Devices {
		req := eval.RequestFromDevice(device, sw)
		req.Band = band
		req.Source = "cli"
		req.Save = saveRuns
		reqs = append(reqs, req)
	}

	items, stats := engine.EvaluateAll(ctx, reqs, workerCount)
	for i, item := range items {
		if item.Err != nil {
			fmt.Printf("Warning: failed to evaluate %s: %v\n",
				scanResult.Devices[i].Address, item.Err)
			continue
		}
		if err := formats.Render(writer, format, item.Result); err != nil {
			return err
		}
	}

	if stats.Completed == 0 {
		return fmt.Errorf("no device could be evaluated")
	}

	if saveRuns {
		fmt.Printf("\nSaved %d run(s) to the %s store\n", stats.Completed, cfg.Storage.Backend)
	}

	return nil
}

func initializeScanners() error {
	if _, ok := scanner.GetDefault().GetScanner("pic-hcl"); ok {
		return nil
	}
	return scanner.Register(hcl.NewScanner())
}

// resolveSweep picks the wavelength grid. Exactly one of the returned
// sweep pointer and band name is set.
func resolveSweep(fromFiles map[string]sweep.Sweep) (*sweep.Sweep, string, error) {
	if bandName != "" && sweepSpec != "" {
		return nil, "", fmt.Errorf("--band and --sweep are mutually exclusive")
	}
	if bandName != "" {
		return nil, bandName, nil
	}
	if sweepSpec != "" {
		sw, err := parseSweepSpec(sweepSpec)
		if err != nil {
			return nil, "", err
		}
		return &sw, "", nil
	}

	if len(fromFiles) > 0 {
		if sw, ok := fromFiles["main"]; ok {
			return &sw, "", nil
		}
		names := make([]string, 0, len(fromFiles))
		for name := range fromFiles {
			names = append(names, name)
		}
		sort.Strings(names)
		sw := fromFiles[names[0]]
		return &sw, "", nil
	}

	cfg := config.Get()
	if cfg.Sweep.Band != "" {
		return nil, cfg.Sweep.Band, nil
	}
	return &sweep.Sweep{
		Start:  cfg.Sweep.StartUM,
		Stop:   cfg.Sweep.StopUM,
		Points: cfg.Sweep.Points,
	}, "", nil
}

// parseSweepSpec parses a start:stop:points flag value
func parseSweepSpec(spec string) (sweep.Sweep, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return sweep.Sweep{}, fmt.Errorf("invalid sweep %q: expected start:stop:points", spec)
	}
	start, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return sweep.Sweep{}, fmt.Errorf("invalid sweep start %q: %v", parts[0], err)
	}
	stop, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return sweep.Sweep{}, fmt.Errorf("invalid sweep stop %q: %v", parts[1], err)
	}
	points, err := strconv.Atoi(parts[2])
	if err != nil {
		return sweep.Sweep{}, fmt.Errorf("invalid sweep points %q: %v", parts[2], err)
	}
	sw := sweep.Sweep{Start: start, Stop: stop, Points: points}
	if err := sw.Validate(); err != nil {
		return sweep.Sweep{}, err
	}
	return sw, nil
}

// openOutput returns the destination writer, a file when path is set
func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}
