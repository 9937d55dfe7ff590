package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"photonic-sparam/internal/errors"
)

const innerWidth = 73

// CLIFormatter renders a human-readable summary table for terminal use
type CLIFormatter struct{}

// Format implements Formatter
func (f *CLIFormatter) Format() Format {
	return FormatCLI
}

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, result *Result) error {
	switch {
	case result.Spectra != nil:
		f.renderSpectra(w, result)
	case result.Modes != nil:
		f.renderModes(w, result)
	default:
		return errors.Input("result carries neither spectra nor mode data")
	}
	return nil
}

func (f *CLIFormatter) renderSpectra(w io.Writer, result *Result) {
	rule := strings.Repeat("─", innerWidth)

	fmt.Fprintln(w, "┌"+rule+"┐")
	fmt.Fprintln(w, "│"+center("S-PARAMETER RESPONSE", innerWidth)+"│")
	fmt.Fprintln(w, "├"+rule+"┤")

	row(w, "Device: "+deviceLabel(result), fmt.Sprintf("%d ports", result.Ports))
	row(w, "Wavelengths: "+spanLabel(result.Wavelengths), fmt.Sprintf("%d points", len(result.Wavelengths)))
	for _, key := range sortedKeys(result.Geometry) {
		row(w, "  "+key, fmt.Sprintf("%.4f um", result.Geometry[key]))
	}

	fmt.Fprintln(w, "├"+rule+"┤")
	row(w, "Path", "Min dB / Max dB")
	fmt.Fprintln(w, "├"+rule+"┤")

	for _, entry := range result.Spectra.Entries {
		lo, hi := minMax(entry.MagnitudeDB)
		row(w, fmt.Sprintf("S(%d,%d)", entry.I, entry.J), fmt.Sprintf("%8.2f / %8.2f", lo, hi))
	}

	fmt.Fprintln(w, "└"+rule+"┘")
	fmt.Fprintf(w, "\nEvaluated %d wavelength points in %s\n", len(result.Wavelengths), result.Metadata.Duration)
}

func (f *CLIFormatter) renderModes(w io.Writer, result *Result) {
	modes := result.Modes
	rule := strings.Repeat("─", innerWidth)

	fmt.Fprintln(w, "┌"+rule+"┐")
	fmt.Fprintln(w, "│"+center("EFFECTIVE INDEX SURFACES", innerWidth)+"│")
	fmt.Fprintln(w, "├"+rule+"┤")

	row(w, "Device: "+deviceLabel(result), gridLabel(modes.Shape))
	row(w, "Wavelengths: "+spanLabel(result.Wavelengths), fmt.Sprintf("%d points", len(result.Wavelengths)))
	row(w, "Widths: "+spanLabel(modes.Widths), fmt.Sprintf("%d points", len(modes.Widths)))
	row(w, "Thicknesses: "+spanLabel(modes.Thicknesses), fmt.Sprintf("%d points", len(modes.Thicknesses)))
	if modes.Derivative > 0 {
		row(w, "Wavelength derivative", fmt.Sprintf("order %d", modes.Derivative))
	}

	fmt.Fprintln(w, "├"+rule+"┤")
	row(w, "Mode", "Min / Max")
	fmt.Fprintln(w, "├"+rule+"┤")

	for _, name := range modes.Names() {
		lo, hi := minMax(modes.Values[name])
		row(w, name, fmt.Sprintf("%8.4f / %8.4f", lo, hi))
	}

	fmt.Fprintln(w, "└"+rule+"┘")
	fmt.Fprintf(w, "\nEvaluated %d grid points in %s\n", gridPoints(modes), result.Metadata.Duration)
}

func row(w io.Writer, left, right string) {
	fmt.Fprintf(w, "│ %-50s %20s │\n", truncate(left, 50), truncate(right, 20))
}

func center(s string, width int) string {
	if len(s) >= width {
		return truncate(s, width)
	}
	pad := width - len(s)
	left := pad / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func deviceLabel(result *Result) string {
	if result.Name != "" {
		return fmt.Sprintf("%s %q", result.Device, result.Name)
	}
	return result.Device.String()
}

func spanLabel(values []float64) string {
	if len(values) == 0 {
		return "none"
	}
	if len(values) == 1 {
		return fmt.Sprintf("%.4f um", values[0])
	}
	return fmt.Sprintf("%.4f-%.4f um", values[0], values[len(values)-1])
}

func gridLabel(shape []int) string {
	parts := make([]string, len(shape))
	for i, n := range shape {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " x ") + " grid"
}

func gridPoints(modes *ModeSet) int {
	total := 1
	for _, n := range modes.Shape {
		total *= n
	}
	return total
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
