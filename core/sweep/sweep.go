// Package sweep expands wavelength ranges into sampling grids.
//
// Grid points are computed in decimal arithmetic so configured ranges hit
// their endpoints exactly: expanding 1.5..1.6 over 101 points yields 1.55
// at the center, not 1.5499999999999998.
package sweep

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"photonic-sparam/internal/errors"
)

// Sweep is a linear wavelength range in micrometers
type Sweep struct {
	Start  float64 `json:"start"`
	Stop   float64 `json:"stop"`
	Points int     `json:"points"`
}

// Standard telecom bands, each with a default sampling density.
var bands = map[string]Sweep{
	"o": {Start: 1.26, Stop: 1.36, Points: 101},
	"e": {Start: 1.36, Stop: 1.46, Points: 101},
	"s": {Start: 1.46, Stop: 1.53, Points: 101},
	"c": {Start: 1.53, Stop: 1.565, Points: 101},
	"l": {Start: 1.565, Stop: 1.625, Points: 101},
}

// Band returns a named telecom band preset
func Band(name string) (Sweep, error) {
	s, ok := bands[name]
	if !ok {
		return Sweep{}, errors.NotFound("wavelength band", name)
	}
	return s, nil
}

// Bands returns the available band names, sorted
func Bands() []string {
	names := make([]string, 0, len(bands))
	for name := range bands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the sweep parameters
func (s Sweep) Validate() error {
	if math.IsNaN(s.Start) || math.IsInf(s.Start, 0) || math.IsNaN(s.Stop) || math.IsInf(s.Stop, 0) {
		return errors.Input("sweep bounds are not finite")
	}
	if s.Start <= 0 {
		return errors.Inputf("sweep start %v, need > 0", s.Start)
	}
	if s.Stop < s.Start {
		return errors.Inputf("sweep stop %v below start %v", s.Stop, s.Start)
	}
	if s.Points < 1 {
		return errors.Inputf("sweep points %d, need >= 1", s.Points)
	}
	if s.Points == 1 && s.Stop != s.Start {
		return errors.Input("single-point sweep needs stop == start")
	}
	return nil
}

// Expand returns the wavelength grid. The first value is exactly Start
// and the last exactly Stop.
func (s Sweep) Expand() ([]float64, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Points == 1 {
		return []float64{s.Start}, nil
	}

	start := decimal.NewFromFloat(s.Start)
	stop := decimal.NewFromFloat(s.Stop)
	step := stop.Sub(start).Div(decimal.NewFromInt(int64(s.Points - 1)))

	out := make([]float64, s.Points)
	for i := 0; i < s.Points; i++ {
		out[i] = start.Add(step.Mul(decimal.NewFromInt(int64(i)))).InexactFloat64()
	}
	out[0] = s.Start
	out[s.Points-1] = s.Stop
	return out, nil
}
