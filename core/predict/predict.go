// Package predict defines the response predictor boundary.
//
// A Predictor maps batches of geometry/wavelength rows to batches of real
// response values (effective indices). The cascading engine never knows
// where the numbers come from: closed-form models, fitted coefficient
// packs, or anything else satisfying the interface.
package predict

import (
	"math"

	"photonic-sparam/internal/errors"
)

// Well-known model names resolved through the registry.
const (
	// ModelWaveguide predicts single-waveguide effective indices.
	// Inputs: wavelength, width, thickness. Outputs: TE0, TE1, TE2,
	// TM0, TM1, TM2.
	ModelWaveguide = "waveguide"

	// ModelCoupler predicts two-waveguide supermode indices.
	// Inputs: wavelength, width, thickness, gap. Outputs: n0 (isolated),
	// n1 (even supermode), n2 (odd supermode).
	ModelCoupler = "coupler"
)

// Output column names for the well-known models, in column order.
var (
	WaveguideOutputs = []string{"TE0", "TE1", "TE2", "TM0", "TM1", "TM2"}
	CouplerOutputs   = []string{"n0", "n1", "n2"}
)

// Predictor is a long-lived, re-entrant response model. Implementations
// must be safe for concurrent read-only use.
type Predictor interface {
	// Inputs returns the expected row width
	Inputs() int

	// Outputs returns the produced row width
	Outputs() int

	// Predict evaluates the model on a batch of rows, returning one
	// output row per input row
	Predict(rows [][]float64) ([][]float64, error)

	// PartialDerivative evaluates the order-th partial derivative of
	// every output with respect to input column axis. Implementations
	// without derivative support return an UNSUPPORTED_OPERATION error.
	PartialDerivative(rows [][]float64, axis, order int) ([][]float64, error)
}

// ValidateBatch checks that every row matches the predictor's input width
func ValidateBatch(p Predictor, rows [][]float64) error {
	want := p.Inputs()
	for i, row := range rows {
		if len(row) != want {
			return errors.Dimensionf("row %d has width %d, predictor wants %d", i, len(row), want)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.Inputf("row %d column %d is not finite", i, j)
			}
		}
	}
	return nil
}

// ValidateDerivative checks a derivative request against the input width
func ValidateDerivative(axis, order, inputs int) error {
	if axis < 0 || axis >= inputs {
		return errors.Inputf("derivative axis %d out of range for %d inputs", axis, inputs)
	}
	if order < 1 {
		return errors.Inputf("derivative order %d, need >= 1", order)
	}
	return nil
}
