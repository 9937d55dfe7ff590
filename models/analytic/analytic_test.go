package analytic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photonic-sparam/core/predict"
	"photonic-sparam/internal/errors"
)

func TestWaveguideReferencePoint(t *testing.T) {
	wg := NewWaveguide()

	out, err := wg.Predict([][]float64{{1.55, 0.5, 0.2}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Len(t, out[0], 6)

	// The fundamental TE index at the reference geometry anchors every
	// phase computation downstream.
	assert.Equal(t, 2.323, out[0][0])

	// Higher modes sit below the fundamental.
	for m := 1; m < 6; m++ {
		assert.Less(t, out[0][m], out[0][0], "mode %d", m)
	}
}

func TestWaveguideDispersion(t *testing.T) {
	wg := NewWaveguide()

	out, err := wg.Predict([][]float64{
		{1.50, 0.5, 0.2},
		{1.55, 0.5, 0.2},
		{1.60, 0.5, 0.2},
	})
	require.NoError(t, err)

	// Index falls with wavelength, rises with width and thickness.
	assert.Greater(t, out[0][0], out[1][0])
	assert.Greater(t, out[1][0], out[2][0])

	wide, err := wg.Predict([][]float64{{1.55, 0.6, 0.2}})
	require.NoError(t, err)
	assert.Greater(t, wide[0][0], out[1][0])
}

func TestCouplerReferencePoint(t *testing.T) {
	cp := NewCoupler()

	out, err := cp.Predict([][]float64{{1.55, 0.5, 0.2, 0.2}})
	require.NoError(t, err)
	require.Len(t, out[0], 3)

	assert.InDelta(t, 2.323, out[0][0], 1e-12)
	assert.InDelta(t, 2.378022, out[0][1], 1e-12)
	assert.InDelta(t, 2.317864, out[0][2], 1e-12)
}

func TestCouplerSplittingDecaysWithGap(t *testing.T) {
	cp := NewCoupler()

	out, err := cp.Predict([][]float64{
		{1.55, 0.5, 0.2, 0.2},
		{1.55, 0.5, 0.2, 0.4},
		{1.55, 0.5, 0.2, 0.8},
	})
	require.NoError(t, err)

	split := func(row []float64) float64 { return row[1] - row[2] }
	assert.Greater(t, split(out[0]), split(out[1]))
	assert.Greater(t, split(out[1]), split(out[2]))

	// Wide gaps converge to the isolated index.
	assert.InDelta(t, out[2][0], out[2][1], 5e-3)
}

func TestWaveguideDerivativeMatchesFiniteDifference(t *testing.T) {
	wg := NewWaveguide()
	rows := [][]float64{{1.55, 0.5, 0.2}, {1.6, 0.45, 0.22}}

	for axis := 0; axis < 3; axis++ {
		exact, err := wg.PartialDerivative(rows, axis, 1)
		require.NoError(t, err)

		numeric, err := predict.FiniteDifference(wg, rows, axis, 1, 1e-4)
		require.NoError(t, err)

		for i := range rows {
			for m := 0; m < 6; m++ {
				assert.InDelta(t, numeric[i][m], exact[i][m], 1e-8,
					"axis %d row %d mode %d", axis, i, m)
			}
		}
	}
}

func TestCouplerGapDerivativeMatchesFiniteDifference(t *testing.T) {
	cp := NewCoupler()
	rows := [][]float64{{1.55, 0.5, 0.2, 0.25}}

	for order := 1; order <= 2; order++ {
		exact, err := cp.PartialDerivative(rows, 3, order)
		require.NoError(t, err)

		numeric, err := predict.FiniteDifference(cp, rows, 3, order, 1e-4)
		require.NoError(t, err)

		for c := 0; c < 3; c++ {
			assert.InDelta(t, numeric[0][c], exact[0][c], 1e-5,
				"order %d output %d", order, c)
		}
	}
}

func TestSecondOrderGeometryDerivativesVanish(t *testing.T) {
	wg := NewWaveguide()

	out, err := wg.PartialDerivative([][]float64{{1.55, 0.5, 0.2}}, 0, 2)
	require.NoError(t, err)
	for m, v := range out[0] {
		assert.Zero(t, v, "mode %d", m)
	}
}

func TestBatchValidation(t *testing.T) {
	wg := NewWaveguide()

	_, err := wg.Predict([][]float64{{1.55, 0.5}})
	assert.True(t, errors.IsType(err, errors.TypeDimension))

	_, err = wg.PartialDerivative([][]float64{{1.55, 0.5, 0.2}}, 3, 1)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))

	_, err = wg.PartialDerivative([][]float64{{1.55, 0.5, 0.2}}, 0, 0)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
}

func TestRegisterDefaults(t *testing.T) {
	r := predict.NewRegistry()
	require.NoError(t, RegisterDefaults(r))

	wg, ok := r.Lookup(predict.ModelWaveguide)
	require.True(t, ok)
	assert.Equal(t, 3, wg.Inputs())
	assert.Equal(t, 6, wg.Outputs())

	cp, ok := r.Lookup(predict.ModelCoupler)
	require.True(t, ok)
	assert.Equal(t, 4, cp.Inputs())
	assert.Equal(t, 3, cp.Outputs())

	// Second call is a no-op, not an error.
	require.NoError(t, RegisterDefaults(r))
}
