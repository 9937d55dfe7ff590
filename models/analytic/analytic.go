// Package analytic provides the built-in closed-form effective index
// models. They are first-order expansions around the reference silicon
// wire geometry (1.55 um wavelength, 500 x 200 nm core) with an
// exponential gap dependence for coupled waveguides. Fitted coefficient
// packs can replace them through the predictor registry without touching
// any caller.
package analytic

import (
	"math"

	"photonic-sparam/core/predict"
	"photonic-sparam/internal/errors"
)

// Reference geometry the expansions are anchored to.
const (
	refWavelength = 1.55
	refWidth      = 0.5
	refThickness  = 0.2
	refGap        = 0.2

	// Supermode splitting at the reference gap and its decay length.
	evenSplit = 0.055022
	oddSplit  = -0.005136
	gapDecay  = 0.2
)

// modeCoeffs is a first-order expansion of one mode's effective index
type modeCoeffs struct {
	base       float64
	dLambda    float64
	dWidth     float64
	dThickness float64
}

func (c modeCoeffs) at(wavelength, width, thickness float64) float64 {
	return c.base +
		c.dLambda*(wavelength-refWavelength) +
		c.dWidth*(width-refWidth) +
		c.dThickness*(thickness-refThickness)
}

// derivative returns the order-th partial along the given axis
// (0 wavelength, 1 width, 2 thickness). Linear expansions have zero
// derivatives beyond the first order.
func (c modeCoeffs) derivative(axis, order int) float64 {
	if order > 1 {
		return 0
	}
	switch axis {
	case 0:
		return c.dLambda
	case 1:
		return c.dWidth
	case 2:
		return c.dThickness
	}
	return 0
}

// Guided mode expansions in output order TE0, TE1, TE2, TM0, TM1, TM2.
var wgModes = []modeCoeffs{
	{base: 2.323, dLambda: -1.2, dWidth: 1.3, dThickness: 2.5},
	{base: 1.95, dLambda: -1.4, dWidth: 1.9, dThickness: 2.2},
	{base: 1.62, dLambda: -1.6, dWidth: 2.4, dThickness: 1.9},
	{base: 1.78, dLambda: -1.3, dWidth: 0.9, dThickness: 3.1},
	{base: 1.51, dLambda: -1.5, dWidth: 1.1, dThickness: 2.8},
	{base: 1.42, dLambda: -1.7, dWidth: 1.2, dThickness: 2.6},
}

// Waveguide is the single-waveguide effective index model.
// Inputs: wavelength, width, thickness. Outputs: TE0..TE2, TM0..TM2.
type Waveguide struct{}

// NewWaveguide creates the built-in waveguide model
func NewWaveguide() *Waveguide {
	return &Waveguide{}
}

// Inputs implements predict.Predictor
func (w *Waveguide) Inputs() int { return 3 }

// Outputs implements predict.Predictor
func (w *Waveguide) Outputs() int { return len(wgModes) }

// Predict implements predict.Predictor
func (w *Waveguide) Predict(rows [][]float64) ([][]float64, error) {
	if err := predict.ValidateBatch(w, rows); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		values := make([]float64, len(wgModes))
		for m, mode := range wgModes {
			values[m] = mode.at(row[0], row[1], row[2])
		}
		out[i] = values
	}
	return out, nil
}

// PartialDerivative implements predict.Predictor with exact derivatives
func (w *Waveguide) PartialDerivative(rows [][]float64, axis, order int) ([][]float64, error) {
	if err := predict.ValidateDerivative(axis, order, w.Inputs()); err != nil {
		return nil, err
	}
	if err := predict.ValidateBatch(w, rows); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i := range rows {
		values := make([]float64, len(wgModes))
		for m, mode := range wgModes {
			values[m] = mode.derivative(axis, order)
		}
		out[i] = values
	}
	return out, nil
}

// Coupler is the two-waveguide supermode model. Inputs: wavelength,
// width, thickness, gap. Outputs: n0 (isolated), n1 (even), n2 (odd).
type Coupler struct{}

// NewCoupler creates the built-in coupler model
func NewCoupler() *Coupler {
	return &Coupler{}
}

// Inputs implements predict.Predictor
func (c *Coupler) Inputs() int { return 4 }

// Outputs implements predict.Predictor
func (c *Coupler) Outputs() int { return 3 }

// Predict implements predict.Predictor
func (c *Coupler) Predict(rows [][]float64) ([][]float64, error) {
	if err := predict.ValidateBatch(c, rows); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		n0 := wgModes[0].at(row[0], row[1], row[2])
		s := math.Exp(-(row[3] - refGap) / gapDecay)
		out[i] = []float64{n0, n0 + evenSplit*s, n0 + oddSplit*s}
	}
	return out, nil
}

// PartialDerivative implements predict.Predictor with exact derivatives
func (c *Coupler) PartialDerivative(rows [][]float64, axis, order int) ([][]float64, error) {
	if err := predict.ValidateDerivative(axis, order, c.Inputs()); err != nil {
		return nil, err
	}
	if err := predict.ValidateBatch(c, rows); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		switch axis {
		case 3:
			// The isolated index ignores the gap; the split decays
			// exponentially, so each order multiplies by -1/gapDecay.
			s := math.Exp(-(row[3] - refGap) / gapDecay)
			scale := math.Pow(-1/gapDecay, float64(order))
			out[i] = []float64{0, evenSplit * s * scale, oddSplit * s * scale}
		default:
			d := wgModes[0].derivative(axis, order)
			out[i] = []float64{d, d, d}
		}
	}
	return out, nil
}

// RegisterDefaults installs both built-in models under their well-known
// names. Existing registrations win.
func RegisterDefaults(r *predict.Registry) error {
	if _, ok := r.Lookup(predict.ModelWaveguide); !ok {
		if err := r.Register(predict.ModelWaveguide, NewWaveguide()); err != nil {
			return errors.Model("registering waveguide model", err)
		}
	}
	if _, ok := r.Lookup(predict.ModelCoupler); !ok {
		if err := r.Register(predict.ModelCoupler, NewCoupler()); err != nil {
			return errors.Model("registering coupler model", err)
		}
	}
	return nil
}
