// Package output shapes evaluation results for humans and machines.
// This package produces human and machine-readable outputs.
package output

import (
	"math"
	"math/cmplx"
	"sort"

	"photonic-sparam/core/sparam"
	"photonic-sparam/core/types"
)

// Floor for magnitudes in dB so JSON never sees -Inf on exact zeros.
const dbFloor = -300.0

// Result contains the complete output of one evaluation run
type Result struct {
	// RunID uniquely identifies the run
	RunID string `json:"run_id"`

	// Device is the evaluated device kind
	Device types.DeviceKind `json:"device"`

	// Name is the device instance name from the circuit definition
	Name string `json:"name,omitempty"`

	// Geometry echoes the resolved geometry parameters
	Geometry map[string]float64 `json:"geometry,omitempty"`

	// Wavelengths is the evaluated wavelength grid in micrometers
	Wavelengths []float64 `json:"wavelengths_um"`

	// Ports is the port count of the device
	Ports int `json:"ports,omitempty"`

	// Spectra holds the S-parameters, present for S-matrix runs
	Spectra *SpectrumSet `json:"spectra,omitempty"`

	// Modes holds effective index tensors, present for mode-response runs
	Modes *ModeSet `json:"modes,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// SpectrumSet is a full S-matrix sampled over the wavelength grid,
// stored as parallel per-entry arrays
type SpectrumSet struct {
	Entries []SpectrumEntry `json:"entries"`
}

// SpectrumEntry is one S(i,j) element across all wavelengths. Real and
// Imag carry the raw values; MagnitudeDB and PhaseRad are derived.
type SpectrumEntry struct {
	I           int       `json:"i"`
	J           int       `json:"j"`
	Real        []float64 `json:"real"`
	Imag        []float64 `json:"imag"`
	MagnitudeDB []float64 `json:"magnitude_db"`
	PhaseRad    []float64 `json:"phase_rad"`
}

// ModeSet is a block of effective index tensors from a mode-response
// run, flattened row-major over (wavelengths, widths, thicknesses)
type ModeSet struct {
	Shape       []int                `json:"shape"`
	Widths      []float64            `json:"widths_um"`
	Thicknesses []float64            `json:"thicknesses_um"`
	Derivative  int                  `json:"derivative,omitempty"`
	Values      map[string][]float64 `json:"values"`
}

// Names returns the mode labels in stable order
func (m *ModeSet) Names() []string {
	names := make([]string, 0, len(m.Values))
	for name := range m.Values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the evaluation was performed
	Timestamp string `json:"timestamp"`

	// Duration is how long the evaluation took
	Duration string `json:"duration"`

	// InputHash is a hash of the request for reproducibility checks
	InputHash string `json:"input_hash,omitempty"`

	// Version is the tool version
	Version string `json:"version"`

	// Source is where the run came from (cli, api)
	Source string `json:"source,omitempty"`
}

// FromMatrix converts an S-matrix into its serialized spectrum form.
// Entries are ordered row-major over (i, j).
func FromMatrix(m *sparam.Matrix) *SpectrumSet {
	ports := m.Ports()
	points := m.Points()

	set := &SpectrumSet{Entries: make([]SpectrumEntry, 0, ports*ports)}
	for i := 0; i < ports; i++ {
		for j := 0; j < ports; j++ {
			entry := SpectrumEntry{
				I:           i,
				J:           j,
				Real:        make([]float64, points),
				Imag:        make([]float64, points),
				MagnitudeDB: make([]float64, points),
				PhaseRad:    make([]float64, points),
			}
			for f := 0; f < points; f++ {
				v := m.At(f, i, j)
				entry.Real[f] = real(v)
				entry.Imag[f] = imag(v)
				entry.MagnitudeDB[f] = MagnitudeDB(v)
				entry.PhaseRad[f] = cmplx.Phase(v)
			}
			set.Entries = append(set.Entries, entry)
		}
	}
	return set
}

// Entry returns the spectrum for one port pair
func (s *SpectrumSet) Entry(i, j int) (*SpectrumEntry, bool) {
	for idx := range s.Entries {
		if s.Entries[idx].I == i && s.Entries[idx].J == j {
			return &s.Entries[idx], true
		}
	}
	return nil, false
}

// MagnitudeDB converts an S-parameter to power dB, floored at -300
func MagnitudeDB(v complex128) float64 {
	mag := cmplx.Abs(v)
	if mag <= 0 {
		return dbFloor
	}
	db := 20 * math.Log10(mag)
	if db < dbFloor {
		return dbFloor
	}
	return db
}
