package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"photonic-sparam/internal/errors"
)

// CSVFormatter renders spectra or mode surfaces as comma-separated rows,
// one row per wavelength (or per geometry grid point for mode results).
// The zero value prints full-precision values with phase columns.
type CSVFormatter struct {
	// Precision caps significant digits; <= 0 keeps the shortest
	// round-trip form.
	Precision int

	// OmitPhase drops the phase columns from spectra rows.
	OmitPhase bool
}

// Format implements Formatter
func (f *CSVFormatter) Format() Format {
	return FormatCSV
}

// Render implements Formatter
func (f *CSVFormatter) Render(w io.Writer, result *Result) error {
	switch {
	case result.Spectra != nil:
		return f.renderSpectra(w, result)
	case result.Modes != nil:
		return f.renderModes(w, result)
	default:
		return errors.Input("result carries neither spectra nor mode data")
	}
}

func (f *CSVFormatter) renderSpectra(w io.Writer, result *Result) error {
	cw := csv.NewWriter(w)

	header := []string{"wavelength_um"}
	for _, entry := range result.Spectra.Entries {
		header = append(header, fmt.Sprintf("s%d%d_mag_db", entry.I, entry.J))
		if !f.OmitPhase {
			header = append(header, fmt.Sprintf("s%d%d_phase_rad", entry.I, entry.J))
		}
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.TypeInternal, "failed to write CSV header", err)
	}

	row := make([]string, 0, len(header))
	for p, wl := range result.Wavelengths {
		row = row[:0]
		row = append(row, f.formatFloat(wl))
		for _, entry := range result.Spectra.Entries {
			row = append(row, f.formatFloat(entry.MagnitudeDB[p]))
			if !f.OmitPhase {
				row = append(row, f.formatFloat(entry.PhaseRad[p]))
			}
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(errors.TypeInternal, "failed to write CSV row", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func (f *CSVFormatter) renderModes(w io.Writer, result *Result) error {
	modes := result.Modes
	cw := csv.NewWriter(w)

	header := []string{"wavelength_um", "width_um", "thickness_um"}
	names := modes.Names()
	header = append(header, names...)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.TypeInternal, "failed to write CSV header", err)
	}

	nW := len(modes.Widths)
	nT := len(modes.Thicknesses)
	row := make([]string, 0, len(header))
	for p, wl := range result.Wavelengths {
		for wi := 0; wi < nW; wi++ {
			for ti := 0; ti < nT; ti++ {
				flat := (p*nW+wi)*nT + ti
				row = row[:0]
				row = append(row, f.formatFloat(wl), f.formatFloat(modes.Widths[wi]), f.formatFloat(modes.Thicknesses[ti]))
				for _, name := range names {
					row = append(row, f.formatFloat(modes.Values[name][flat]))
				}
				if err := cw.Write(row); err != nil {
					return errors.Wrap(errors.TypeInternal, "failed to write CSV row", err)
				}
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func (f *CSVFormatter) formatFloat(v float64) string {
	prec := -1
	if f.Precision > 0 {
		prec = f.Precision
	}
	return strconv.FormatFloat(v, 'g', prec, 64)
}
