package devices

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photonic-sparam/internal/errors"
	"photonic-sparam/models/analytic"
)

func assertClose(t *testing.T, want, got complex128, msg string) {
	t.Helper()
	assert.InDelta(t, real(want), real(got), 1e-12, "%s (real)", msg)
	assert.InDelta(t, imag(want), imag(got), 1e-12, "%s (imag)", msg)
}

func TestStraightWaveguidePhase(t *testing.T) {
	m, err := StraightWaveguide(analytic.NewWaveguide(), []float64{1.55},
		Straight{Width: 0.5, Thickness: 0.2, Length: 10})
	require.NoError(t, err)
	require.Equal(t, 1, m.Points())
	require.Equal(t, 2, m.Ports())

	// At the reference cross-section the model pins TE0 to 2.323.
	want := cmplx.Exp(complex(0, 2*math.Pi*2.323*10/1.55))
	assertClose(t, want, m.At(0, 0, 1), "S01")
	assertClose(t, want, m.At(0, 1, 0), "S10")
	assertClose(t, 0, m.At(0, 0, 0), "S00")
	assertClose(t, 0, m.At(0, 1, 1), "S11")
	assert.InDelta(t, 1.0, cmplx.Abs(m.At(0, 0, 1)), 1e-12, "lossless")
}

func TestStraightZeroLengthIsThru(t *testing.T) {
	m, err := StraightWaveguide(analytic.NewWaveguide(), []float64{1.5, 1.55, 1.6},
		Straight{Width: 0.5, Thickness: 0.2, Length: 0})
	require.NoError(t, err)

	for f := 0; f < 3; f++ {
		assertClose(t, 1, m.At(f, 0, 1), "S01")
		assertClose(t, 0, m.At(f, 0, 0), "S00")
	}
}

func TestBentWaveguidePhase(t *testing.T) {
	m, err := BentWaveguide(analytic.NewWaveguide(), []float64{1.55},
		Bent{Radius: 5, Width: 0.5, Thickness: 0.2, Angle: math.Pi / 2})
	require.NoError(t, err)

	want := cmplx.Exp(complex(0, 2*math.Pi*5*2.323*(math.Pi/2)/1.55))
	assertClose(t, want, m.At(0, 0, 1), "S01")
	assertClose(t, want, m.At(0, 1, 0), "S10")
	assert.InDelta(t, 1.0, cmplx.Abs(m.At(0, 0, 1)), 1e-12, "lossless")
}

func TestBentPhaseScalesWithAngle(t *testing.T) {
	wg := analytic.NewWaveguide()
	g := Bent{Radius: 5, Width: 0.5, Thickness: 0.2}

	g.Angle = math.Pi / 4
	quarter, err := BentWaveguide(wg, []float64{1.55}, g)
	require.NoError(t, err)

	g.Angle = math.Pi / 2
	half, err := BentWaveguide(wg, []float64{1.55}, g)
	require.NoError(t, err)

	// Twice the arc accumulates twice the phase.
	assertClose(t, quarter.At(0, 0, 1)*quarter.At(0, 0, 1), half.At(0, 0, 1), "phase doubling")
}

func TestCouplerPowerConservation(t *testing.T) {
	m, err := EvanescentCoupler(analytic.NewCoupler(), []float64{1.5, 1.55, 1.6},
		Coupler{Width: 0.5, Thickness: 0.2, Gap: 0.2, Length: 5})
	require.NoError(t, err)
	require.Equal(t, 4, m.Ports())

	for f := 0; f < 3; f++ {
		bar := cmplx.Abs(m.At(f, 0, 1))
		cross := cmplx.Abs(m.At(f, 0, 3))
		assert.InDelta(t, 1.0, bar*bar+cross*cross, 1e-12, "point %d", f)
	}
}

func TestCouplerHalfPowerLength(t *testing.T) {
	// pi*dn*L/wl = pi/4 puts half the power in each arm. dn at the
	// reference gap is 0.055022 + 0.005136.
	dn := 0.060158
	length := 1.55 / (4 * dn)

	m, err := EvanescentCoupler(analytic.NewCoupler(), []float64{1.55},
		Coupler{Width: 0.5, Thickness: 0.2, Gap: 0.2, Length: length})
	require.NoError(t, err)

	bar := cmplx.Abs(m.At(0, 0, 1))
	cross := cmplx.Abs(m.At(0, 0, 3))
	assert.InDelta(t, 0.5, bar*bar, 1e-9)
	assert.InDelta(t, 0.5, cross*cross, 1e-9)
}

func TestCouplerZeroLengthIsBarState(t *testing.T) {
	m, err := EvanescentCoupler(analytic.NewCoupler(), []float64{1.55},
		Coupler{Width: 0.5, Thickness: 0.2, Gap: 0.2, Length: 0})
	require.NoError(t, err)

	assertClose(t, 1, m.At(0, 0, 1), "bar")
	assertClose(t, 0, m.At(0, 0, 3), "cross")
}

func TestCouplerLayout(t *testing.T) {
	m, err := EvanescentCoupler(analytic.NewCoupler(), []float64{1.55},
		Coupler{Width: 0.5, Thickness: 0.2, Gap: 0.2, Length: 5})
	require.NoError(t, err)

	x := m.At(0, 0, 1)
	y := m.At(0, 0, 3)
	assert.NotEqual(t, complex128(0), x)
	assert.NotEqual(t, complex128(0), y)

	// Bar pairs share x, cross pairs share y, everything else is zero.
	assertClose(t, x, m.At(0, 1, 0), "S10")
	assertClose(t, x, m.At(0, 2, 3), "S23")
	assertClose(t, x, m.At(0, 3, 2), "S32")
	assertClose(t, y, m.At(0, 3, 0), "S30")
	assertClose(t, y, m.At(0, 1, 2), "S12")
	assertClose(t, y, m.At(0, 2, 1), "S21")
	for i := 0; i < 4; i++ {
		assertClose(t, 0, m.At(0, i, i), "diagonal")
	}
	assertClose(t, 0, m.At(0, 0, 2), "no same-side coupling")
	assertClose(t, 0, m.At(0, 1, 3), "no same-side coupling")
}

func TestWaveguideResponseShape(t *testing.T) {
	wavelengths := []float64{1.5, 1.55, 1.6}
	widths := []float64{0.45, 0.5}
	thicknesses := []float64{0.2}

	resp, err := WaveguideResponse(analytic.NewWaveguide(), wavelengths, widths, thicknesses)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 2, 1}, resp.TE0.Shape())
	assert.Equal(t, []int{3, 2, 1}, resp.TM2.Shape())

	// Spot-check a grid corner against a direct model call.
	wg := analytic.NewWaveguide()
	direct, err := wg.Predict([][]float64{{1.6, 0.45, 0.2}})
	require.NoError(t, err)

	v, err := resp.TE0.At(2, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, direct[0][0], v, 1e-12)

	v, err = resp.TM0.At(2, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, direct[0][3], v, 1e-12)
}

func TestWaveguideResponseByName(t *testing.T) {
	resp, err := WaveguideResponse(analytic.NewWaveguide(),
		[]float64{1.55}, []float64{0.5}, []float64{0.2})
	require.NoError(t, err)

	for _, name := range []string{"TE0", "TE1", "TE2", "TM0", "TM1", "TM2"} {
		tensor, ok := resp.ByName(name)
		assert.True(t, ok, name)
		assert.NotNil(t, tensor, name)
	}
	_, ok := resp.ByName("TE3")
	assert.False(t, ok)
}

func TestWaveguideResponseDerivative(t *testing.T) {
	resp, err := WaveguideResponse(analytic.NewWaveguide(),
		[]float64{1.5, 1.55, 1.6}, []float64{0.5}, []float64{0.2},
		WithDerivative(1))
	require.NoError(t, err)

	// The analytic model is linear in wavelength, so the derivative is
	// flat across the grid.
	for f := 0; f < 3; f++ {
		v, err := resp.TE0.At(f, 0, 0)
		require.NoError(t, err)
		assert.InDelta(t, -1.2, v, 1e-12)
	}
}

func TestDeviceValidation(t *testing.T) {
	wg := analytic.NewWaveguide()
	cp := analytic.NewCoupler()

	_, err := StraightWaveguide(wg, nil, Straight{Width: 0.5, Thickness: 0.2, Length: 1})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "empty wavelengths")

	_, err = StraightWaveguide(wg, []float64{-1.55}, Straight{Width: 0.5, Thickness: 0.2, Length: 1})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "negative wavelength")

	_, err = StraightWaveguide(wg, []float64{1.55}, Straight{Width: 0, Thickness: 0.2, Length: 1})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "zero width")

	_, err = StraightWaveguide(wg, []float64{1.55}, Straight{Width: 0.5, Thickness: 0.2, Length: -1})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "negative length")

	_, err = StraightWaveguide(cp, []float64{1.55}, Straight{Width: 0.5, Thickness: 0.2, Length: 1})
	assert.True(t, errors.IsType(err, errors.TypeDimension), "wrong model arity")

	_, err = BentWaveguide(wg, []float64{1.55}, Bent{Radius: 0, Width: 0.5, Thickness: 0.2, Angle: 1})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "zero radius")

	_, err = BentWaveguide(wg, []float64{1.55}, Bent{Radius: 5, Width: 0.5, Thickness: 0.2, Angle: math.NaN()})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "NaN angle")

	_, err = EvanescentCoupler(cp, []float64{1.55}, Coupler{Width: 0.5, Thickness: 0.2, Gap: -0.1, Length: 1})
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput), "negative gap")

	_, err = EvanescentCoupler(wg, []float64{1.55}, Coupler{Width: 0.5, Thickness: 0.2, Gap: 0.2, Length: 1})
	assert.True(t, errors.IsType(err, errors.TypeDimension), "wrong model arity")

	_, err = WaveguideResponse(cp, []float64{1.55}, []float64{0.5}, []float64{0.2})
	assert.True(t, errors.IsType(err, errors.TypeDimension), "wrong model for response")
}
