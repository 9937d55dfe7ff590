// Package grid expands parameter axes into dense evaluation grids.
//
// A grid is the cartesian product of one or more float64 axes, one row per
// combination, with the LAST axis varying fastest. Predictors consume the
// rows as a batch; Tensor reshapes their flat output back into axis form.
package grid

import (
	"math"

	"photonic-sparam/internal/errors"
)

// Scalar wraps a single value as a one-element axis
func Scalar(v float64) []float64 {
	return []float64{v}
}

// Size returns the number of rows Product would produce for the axes.
// A zero return means at least one axis is empty.
func Size(axes ...[]float64) int {
	if len(axes) == 0 {
		return 0
	}
	n := 1
	for _, axis := range axes {
		n *= len(axis)
	}
	return n
}

// Product returns the cartesian product of the axes, one row per
// combination. Column order matches axis order and the last axis varies
// fastest, so for axes A, B the rows are (a0,b0), (a0,b1), ... (a1,b0), ...
func Product(axes ...[]float64) ([][]float64, error) {
	if len(axes) == 0 {
		return nil, errors.Input("at least one axis is required")
	}
	for i, axis := range axes {
		if len(axis) == 0 {
			return nil, errors.Inputf("axis %d is empty", i)
		}
		for j, v := range axis {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Inputf("axis %d value %d is not finite", i, j)
			}
		}
	}

	total := Size(axes...)
	rows := make([][]float64, total)
	backing := make([]float64, total*len(axes))

	for r := 0; r < total; r++ {
		row := backing[r*len(axes) : (r+1)*len(axes)]
		// Decompose the row index with the last axis as the least
		// significant digit.
		rem := r
		for c := len(axes) - 1; c >= 0; c-- {
			axis := axes[c]
			row[c] = axis[rem%len(axis)]
			rem /= len(axis)
		}
		rows[r] = row
	}
	return rows, nil
}

// Column extracts one column from a row batch
func Column(rows [][]float64, col int) ([]float64, error) {
	out := make([]float64, len(rows))
	for i, row := range rows {
		if col < 0 || col >= len(row) {
			return nil, errors.Dimensionf("column %d out of range for row of width %d", col, len(row))
		}
		out[i] = row[col]
	}
	return out, nil
}
