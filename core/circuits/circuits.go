// Package circuits assembles composite devices by cascading primitives.
//
// A ring resonator is two evanescent couplers closed into a loop by
// curved (and optionally straight) waveguide segments. The assembly joins
// one port pair at a time; the final network keeps four external ports in
// a fixed order, exported as the Port constants.
package circuits

import (
	"math"

	"photonic-sparam/core/devices"
	"photonic-sparam/core/predict"
	"photonic-sparam/core/sparam"
)

// External port order of the assembled ring resonators. Input couples to
// Through on the same bus; Drop and Add sit on the opposite bus.
const (
	PortInput   = 0
	PortThrough = 1
	PortAdd     = 2
	PortDrop    = 3
)

// Racetrack is the geometry of a racetrack ring resonator: two straight
// coupling sections of CouplerLength closed by two half-circle bends.
type Racetrack struct {
	Radius        float64 `json:"radius"`
	CouplerLength float64 `json:"coupler_length"`
	Gap           float64 `json:"gap"`
	Width         float64 `json:"width"`
	Thickness     float64 `json:"thickness"`
}

// Rectangular is the geometry of a ring with straight side segments of
// SideLength between the couplers and the bends. SideLength zero reduces
// it to the racetrack.
type Rectangular struct {
	Radius        float64 `json:"radius"`
	CouplerLength float64 `json:"coupler_length"`
	SideLength    float64 `json:"side_length"`
	Gap           float64 `json:"gap"`
	Width         float64 `json:"width"`
	Thickness     float64 `json:"thickness"`
}

// RacetrackResonator builds the 4-port S-matrix of a racetrack ring.
// wg predicts single-waveguide indices for the bends, cp the supermode
// indices for the couplers.
func RacetrackResonator(wg, cp predict.Predictor, wavelengths []float64, g Racetrack) (*sparam.Matrix, error) {
	coupler, err := devices.EvanescentCoupler(cp, wavelengths, devices.Coupler{
		Width: g.Width, Thickness: g.Thickness, Gap: g.Gap, Length: g.CouplerLength,
	})
	if err != nil {
		return nil, err
	}
	bent, err := devices.BentWaveguide(wg, wavelengths, devices.Bent{
		Radius: g.Radius, Width: g.Width, Thickness: g.Thickness, Angle: math.Pi,
	})
	if err != nil {
		return nil, err
	}

	// Close the loop: lower guide of coupler 1, both half-circles, then
	// upper guide of coupler 2.
	tr := newTracker("coupler1", 4)

	s, err := sparam.Connect(coupler, 2, bent, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(2, "bent1", 2, 0)

	s, err = sparam.Connect(s, 3, bent, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(3, "bent2", 2, 0)

	s, err = sparam.Connect(s, 2, coupler, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(2, "coupler2", 4, 0)

	i, err := tr.indexOf("bent2", 1)
	if err != nil {
		return nil, err
	}
	j, err := tr.indexOf("coupler2", 1)
	if err != nil {
		return nil, err
	}
	s, err = sparam.Innerconnect(s, i, j)
	if err != nil {
		return nil, err
	}
	tr.innerconnect(i, j)

	if err := tr.expect([]ref{
		{"coupler1", 0}, {"coupler1", 1}, {"coupler2", 2}, {"coupler2", 3},
	}); err != nil {
		return nil, err
	}
	return s, nil
}

// RectangularResonator builds the 4-port S-matrix of a rectangular ring:
// the racetrack loop with straight side segments spliced in next to the
// couplers.
func RectangularResonator(wg, cp predict.Predictor, wavelengths []float64, g Rectangular) (*sparam.Matrix, error) {
	coupler, err := devices.EvanescentCoupler(cp, wavelengths, devices.Coupler{
		Width: g.Width, Thickness: g.Thickness, Gap: g.Gap, Length: g.CouplerLength,
	})
	if err != nil {
		return nil, err
	}
	bent, err := devices.BentWaveguide(wg, wavelengths, devices.Bent{
		Radius: g.Radius, Width: g.Width, Thickness: g.Thickness, Angle: math.Pi,
	})
	if err != nil {
		return nil, err
	}
	side, err := devices.StraightWaveguide(wg, wavelengths, devices.Straight{
		Width: g.Width, Thickness: g.Thickness, Length: g.SideLength,
	})
	if err != nil {
		return nil, err
	}

	tr := newTracker("coupler1", 4)

	s, err := sparam.Connect(coupler, 2, side, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(2, "side1", 2, 0)

	s, err = sparam.Connect(s, 3, bent, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(3, "bent1", 2, 0)

	s, err = sparam.Connect(s, 3, bent, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(3, "bent2", 2, 0)

	s, err = sparam.Connect(s, 3, side, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(3, "side2", 2, 0)

	s, err = sparam.Connect(s, 2, coupler, 0)
	if err != nil {
		return nil, err
	}
	tr.connect(2, "coupler2", 4, 0)

	i, err := tr.indexOf("side2", 1)
	if err != nil {
		return nil, err
	}
	j, err := tr.indexOf("coupler2", 1)
	if err != nil {
		return nil, err
	}
	s, err = sparam.Innerconnect(s, i, j)
	if err != nil {
		return nil, err
	}
	tr.innerconnect(i, j)

	if err := tr.expect([]ref{
		{"coupler1", 0}, {"coupler1", 1}, {"coupler2", 2}, {"coupler2", 3},
	}); err != nil {
		return nil, err
	}
	return s, nil
}
