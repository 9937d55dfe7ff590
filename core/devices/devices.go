// Package devices builds S-matrices for primitive waveguide components.
//
// Every builder samples a predictor on a wavelength grid and fills a
// fresh sparam.Matrix, one frequency point per wavelength. Lengths are in
// micrometers, angles in radians.
package devices

import (
	"math"
	"math/cmplx"

	"photonic-sparam/core/grid"
	"photonic-sparam/core/predict"
	"photonic-sparam/core/sparam"
	"photonic-sparam/internal/errors"
)

// Straight is the geometry of a straight waveguide segment
type Straight struct {
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Length    float64 `json:"length"`
}

// Bent is the geometry of a circular waveguide bend
type Bent struct {
	Radius    float64 `json:"radius"`
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Angle     float64 `json:"angle"`
}

// Coupler is the geometry of an evanescent directional coupler
type Coupler struct {
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Gap       float64 `json:"gap"`
	Length    float64 `json:"length"`
}

// StraightWaveguide builds the 2-port S-matrix of a straight segment:
// pure propagation phase 2*pi*neff*L/lambda on the fundamental TE mode,
// no reflection. Length zero degenerates to an ideal thru.
func StraightWaveguide(p predict.Predictor, wavelengths []float64, g Straight) (*sparam.Matrix, error) {
	if err := checkWavelengths(wavelengths); err != nil {
		return nil, err
	}
	if g.Width <= 0 || g.Thickness <= 0 {
		return nil, errors.Inputf("straight waveguide needs positive width and thickness, got %v x %v", g.Width, g.Thickness)
	}
	if g.Length < 0 {
		return nil, errors.Inputf("straight waveguide length %v, need >= 0", g.Length)
	}

	neff, err := fundamentalIndex(p, wavelengths, g.Width, g.Thickness)
	if err != nil {
		return nil, err
	}

	m, err := sparam.New(len(wavelengths), 2)
	if err != nil {
		return nil, err
	}
	for f, wl := range wavelengths {
		phase := 2 * math.Pi * neff[f] * g.Length / wl
		t := cmplx.Exp(complex(0, phase))
		m.Set(f, 0, 1, t)
		m.Set(f, 1, 0, t)
	}
	return m, nil
}

// BentWaveguide builds the 2-port S-matrix of a circular bend: the arc
// length is radius times angle, so the phase is 2*pi*R*neff*theta/lambda.
func BentWaveguide(p predict.Predictor, wavelengths []float64, g Bent) (*sparam.Matrix, error) {
	if err := checkWavelengths(wavelengths); err != nil {
		return nil, err
	}
	if g.Radius <= 0 {
		return nil, errors.Inputf("bend radius %v, need > 0", g.Radius)
	}
	if g.Width <= 0 || g.Thickness <= 0 {
		return nil, errors.Inputf("bent waveguide needs positive width and thickness, got %v x %v", g.Width, g.Thickness)
	}
	if math.IsNaN(g.Angle) || math.IsInf(g.Angle, 0) {
		return nil, errors.Input("bend angle is not finite")
	}

	neff, err := fundamentalIndex(p, wavelengths, g.Width, g.Thickness)
	if err != nil {
		return nil, err
	}

	m, err := sparam.New(len(wavelengths), 2)
	if err != nil {
		return nil, err
	}
	for f, wl := range wavelengths {
		phase := 2 * math.Pi * g.Radius * neff[f] * g.Angle / wl
		t := cmplx.Exp(complex(0, phase))
		m.Set(f, 0, 1, t)
		m.Set(f, 1, 0, t)
	}
	return m, nil
}

// EvanescentCoupler builds the 4-port S-matrix of a directional coupler.
// Ports 0 and 1 are the ends of the first guide, 2 and 3 of the second;
// ports 0 and 2 face the same direction. The bar amplitude x stays in a
// guide, the cross amplitude y switches guides:
//
//	x = exp(-i 2pi n0 L/wl) * cos(pi dn L/wl)
//	y = i exp(-i 2pi n0 L/wl) * sin(pi dn L/wl)
//
// with n0 the isolated-guide index and dn the even/odd supermode split.
// Power conservation |x|^2 + |y|^2 = 1 holds per wavelength.
func EvanescentCoupler(p predict.Predictor, wavelengths []float64, g Coupler) (*sparam.Matrix, error) {
	if err := checkWavelengths(wavelengths); err != nil {
		return nil, err
	}
	if g.Width <= 0 || g.Thickness <= 0 {
		return nil, errors.Inputf("coupler needs positive width and thickness, got %v x %v", g.Width, g.Thickness)
	}
	if g.Gap < 0 {
		return nil, errors.Inputf("coupler gap %v, need >= 0", g.Gap)
	}
	if g.Length < 0 {
		return nil, errors.Inputf("coupler length %v, need >= 0", g.Length)
	}
	if p.Inputs() != 4 {
		return nil, errors.Dimensionf("coupler model wants %d inputs, predictor has %d", 4, p.Inputs())
	}
	if p.Outputs() != 3 {
		return nil, errors.Dimensionf("coupler model wants %d outputs, predictor has %d", 3, p.Outputs())
	}

	rows, err := grid.Product(wavelengths, grid.Scalar(g.Width), grid.Scalar(g.Thickness), grid.Scalar(g.Gap))
	if err != nil {
		return nil, err
	}
	indices, err := p.Predict(rows)
	if err != nil {
		return nil, err
	}
	if len(indices) != len(wavelengths) {
		return nil, errors.Dimensionf("predictor returned %d rows for %d wavelengths", len(indices), len(wavelengths))
	}

	m, err := sparam.New(len(wavelengths), 4)
	if err != nil {
		return nil, err
	}
	for f, wl := range wavelengths {
		n0, n1, n2 := indices[f][0], indices[f][1], indices[f][2]
		dn := n1 - n2

		common := cmplx.Exp(complex(0, -2*math.Pi*n0*g.Length/wl))
		beat := math.Pi * dn * g.Length / wl
		x := common * complex(math.Cos(beat), 0)
		y := common * complex(0, math.Sin(beat))

		m.Set(f, 0, 1, x)
		m.Set(f, 1, 0, x)
		m.Set(f, 2, 3, x)
		m.Set(f, 3, 2, x)
		m.Set(f, 0, 3, y)
		m.Set(f, 3, 0, y)
		m.Set(f, 1, 2, y)
		m.Set(f, 2, 1, y)
	}
	return m, nil
}

// fundamentalIndex samples the TE0 effective index over the wavelengths
// at a fixed cross-section
func fundamentalIndex(p predict.Predictor, wavelengths []float64, width, thickness float64) ([]float64, error) {
	if p.Inputs() != 3 {
		return nil, errors.Dimensionf("waveguide model wants %d inputs, predictor has %d", 3, p.Inputs())
	}
	if p.Outputs() < 1 {
		return nil, errors.Dimensionf("waveguide model produces no outputs")
	}

	rows, err := grid.Product(wavelengths, grid.Scalar(width), grid.Scalar(thickness))
	if err != nil {
		return nil, err
	}
	out, err := p.Predict(rows)
	if err != nil {
		return nil, err
	}
	if len(out) != len(wavelengths) {
		return nil, errors.Dimensionf("predictor returned %d rows for %d wavelengths", len(out), len(wavelengths))
	}
	return grid.Column(out, 0)
}

func checkWavelengths(wavelengths []float64) error {
	if len(wavelengths) == 0 {
		return errors.Input("wavelength grid is empty")
	}
	for i, wl := range wavelengths {
		if math.IsNaN(wl) || math.IsInf(wl, 0) || wl <= 0 {
			return errors.Inputf("wavelength %d is %v, need a positive finite value", i, wl)
		}
	}
	return nil
}
