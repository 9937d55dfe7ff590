package predict

import (
	"math"

	"photonic-sparam/internal/errors"
)

// FiniteDifference computes a central-difference partial derivative using
// only Predict. It is a fallback for predictors without analytic
// derivatives; each order doubles the number of model evaluations.
func FiniteDifference(p Predictor, rows [][]float64, axis, order int, step float64) ([][]float64, error) {
	if step <= 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return nil, errors.Inputf("finite difference step %v, need a positive finite value", step)
	}
	if err := ValidateDerivative(axis, order, p.Inputs()); err != nil {
		return nil, err
	}
	if err := ValidateBatch(p, rows); err != nil {
		return nil, err
	}
	return centralDiff(p, rows, axis, order, step)
}

func centralDiff(p Predictor, rows [][]float64, axis, order int, step float64) ([][]float64, error) {
	if order == 0 {
		return p.Predict(rows)
	}

	plus, err := centralDiff(p, shifted(rows, axis, step), axis, order-1, step)
	if err != nil {
		return nil, err
	}
	minus, err := centralDiff(p, shifted(rows, axis, -step), axis, order-1, step)
	if err != nil {
		return nil, err
	}
	if len(plus) != len(minus) {
		return nil, errors.Dimensionf("predictor returned %d and %d rows for the same batch", len(plus), len(minus))
	}

	out := make([][]float64, len(plus))
	for i := range plus {
		if len(plus[i]) != len(minus[i]) {
			return nil, errors.Dimensionf("predictor row %d width changed between evaluations", i)
		}
		row := make([]float64, len(plus[i]))
		for j := range row {
			row[j] = (plus[i][j] - minus[i][j]) / (2 * step)
		}
		out[i] = row
	}
	return out, nil
}

func shifted(rows [][]float64, axis int, delta float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		shifted := make([]float64, len(row))
		copy(shifted, row)
		shifted[axis] += delta
		out[i] = shifted
	}
	return out
}
