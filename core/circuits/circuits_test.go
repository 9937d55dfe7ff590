package circuits

import (
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photonic-sparam/core/sparam"
	"photonic-sparam/internal/errors"
	"photonic-sparam/models/analytic"
)

func defaultRacetrack() Racetrack {
	return Racetrack{Radius: 5, CouplerLength: 5, Gap: 0.2, Width: 0.5, Thickness: 0.2}
}

func sweep(start, stop float64, points int) []float64 {
	out := make([]float64, points)
	step := (stop - start) / float64(points-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestRacetrackShape(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 11)
	m, err := RacetrackResonator(analytic.NewWaveguide(), analytic.NewCoupler(), wavelengths, defaultRacetrack())
	require.NoError(t, err)

	assert.Equal(t, 11, m.Points())
	assert.Equal(t, 4, m.Ports())
}

func TestRacetrackIsReciprocal(t *testing.T) {
	wavelengths := sweep(1.549, 1.551, 3)
	m, err := RacetrackResonator(analytic.NewWaveguide(), analytic.NewCoupler(), wavelengths, defaultRacetrack())
	require.NoError(t, err)

	for f := 0; f < m.Points(); f++ {
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				assert.InDelta(t, 0, cmplx.Abs(m.At(f, i, j)-m.At(f, j, i)), 1e-10,
					"point %d pair (%d,%d)", f, i, j)
			}
		}
	}
}

// The couplers are directional: input light never reflects and never
// reaches the add port.
func TestRacetrackPortIsolation(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 21)
	m, err := RacetrackResonator(analytic.NewWaveguide(), analytic.NewCoupler(), wavelengths, defaultRacetrack())
	require.NoError(t, err)

	for f := 0; f < m.Points(); f++ {
		assert.InDelta(t, 0, cmplx.Abs(m.At(f, PortInput, PortInput)), 1e-10, "reflection at point %d", f)
		assert.InDelta(t, 0, cmplx.Abs(m.At(f, PortAdd, PortInput)), 1e-10, "add leakage at point %d", f)
	}
}

func TestRacetrackEnergyConservation(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 41)
	m, err := RacetrackResonator(analytic.NewWaveguide(), analytic.NewCoupler(), wavelengths, defaultRacetrack())
	require.NoError(t, err)

	for f := 0; f < m.Points(); f++ {
		var total float64
		for i := 0; i < 4; i++ {
			a := cmplx.Abs(m.At(f, i, PortInput))
			total += a * a
		}
		assert.InDelta(t, 1.0, total, 1e-9, "point %d", f)
	}
}

// Sweeping across more than one free spectral range must show the
// add-drop signature: through-port dips lining up with drop-port peaks.
func TestRacetrackResonance(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 401)
	m, err := RacetrackResonator(analytic.NewWaveguide(), analytic.NewCoupler(), wavelengths, defaultRacetrack())
	require.NoError(t, err)

	through := make([]float64, len(wavelengths))
	drop := make([]float64, len(wavelengths))
	for f := range wavelengths {
		th := cmplx.Abs(m.At(f, PortThrough, PortInput))
		dr := cmplx.Abs(m.At(f, PortDrop, PortInput))
		through[f] = th * th
		drop[f] = dr * dr
	}

	minThrough, minThroughAt := 2.0, -1
	maxDrop, maxDropAt := -1.0, -1
	maxThrough := -1.0
	for f := range wavelengths {
		if through[f] < minThrough {
			minThrough, minThroughAt = through[f], f
		}
		if drop[f] > maxDrop {
			maxDrop, maxDropAt = drop[f], f
		}
		if through[f] > maxThrough {
			maxThrough = through[f]
		}

		assert.InDelta(t, 1.0, through[f]+drop[f], 1e-9, "power split at point %d", f)
	}

	// Symmetric lossless add-drop rings extinguish the through port
	// completely on resonance and route everything to the drop port.
	assert.Less(t, minThrough, 0.01, "resonance dip")
	assert.Greater(t, maxDrop, 0.99, "drop peak")
	assert.Greater(t, maxThrough, 0.5, "off-resonance recovery")
	assert.Equal(t, minThroughAt, maxDropAt, "dip and peak line up")
}

func TestRectangularShape(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 5)
	m, err := RectangularResonator(analytic.NewWaveguide(), analytic.NewCoupler(), wavelengths, Rectangular{
		Radius: 5, CouplerLength: 5, SideLength: 5, Gap: 0.2, Width: 0.5, Thickness: 0.2,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, m.Points())
	assert.Equal(t, 4, m.Ports())
}

// With zero-length sides the rectangular ring is the racetrack: the side
// segments collapse to ideal thrus.
func TestRectangularDegeneratesToRacetrack(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 31)
	wg := analytic.NewWaveguide()
	cp := analytic.NewCoupler()

	race, err := RacetrackResonator(wg, cp, wavelengths, defaultRacetrack())
	require.NoError(t, err)

	rect, err := RectangularResonator(wg, cp, wavelengths, Rectangular{
		Radius: 5, CouplerLength: 5, SideLength: 0, Gap: 0.2, Width: 0.5, Thickness: 0.2,
	})
	require.NoError(t, err)

	for f := 0; f < race.Points(); f++ {
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				assert.InDelta(t, 0, cmplx.Abs(race.At(f, i, j)-rect.At(f, i, j)), 1e-9,
					"point %d entry (%d,%d)", f, i, j)
			}
		}
	}
}

// Longer sides stretch the loop, shrinking the free spectral range, so
// the responses must differ once SideLength is nonzero.
func TestRectangularSidesShiftResonances(t *testing.T) {
	wavelengths := sweep(1.54, 1.56, 31)
	wg := analytic.NewWaveguide()
	cp := analytic.NewCoupler()

	race, err := RacetrackResonator(wg, cp, wavelengths, defaultRacetrack())
	require.NoError(t, err)

	rect, err := RectangularResonator(wg, cp, wavelengths, Rectangular{
		Radius: 5, CouplerLength: 5, SideLength: 3, Gap: 0.2, Width: 0.5, Thickness: 0.2,
	})
	require.NoError(t, err)

	var maxDiff float64
	for f := 0; f < race.Points(); f++ {
		d := cmplx.Abs(race.At(f, PortThrough, PortInput) - rect.At(f, PortThrough, PortInput))
		if d > maxDiff {
			maxDiff = d
		}
	}
	assert.Greater(t, maxDiff, 0.01)
}

func TestRacetrackPropagatesGeometryErrors(t *testing.T) {
	wavelengths := []float64{1.55}
	wg := analytic.NewWaveguide()
	cp := analytic.NewCoupler()

	bad := defaultRacetrack()
	bad.Gap = -0.5
	_, err := RacetrackResonator(wg, cp, wavelengths, bad)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))

	bad = defaultRacetrack()
	bad.Radius = 0
	_, err = RacetrackResonator(wg, cp, wavelengths, bad)
	assert.True(t, errors.IsType(err, errors.TypeInvalidInput))
}

func TestRingMatricesAreIndependent(t *testing.T) {
	wavelengths := []float64{1.55, 1.551}
	wg := analytic.NewWaveguide()
	cp := analytic.NewCoupler()

	a, err := RacetrackResonator(wg, cp, wavelengths, defaultRacetrack())
	require.NoError(t, err)
	b, err := RacetrackResonator(wg, cp, wavelengths, defaultRacetrack())
	require.NoError(t, err)

	before := b.At(0, PortThrough, PortInput)
	a.Set(0, PortThrough, PortInput, 42)
	assert.Equal(t, before, b.At(0, PortThrough, PortInput))
}

var benchSink *sparam.Matrix

func BenchmarkRacetrack(b *testing.B) {
	wavelengths := sweep(1.5, 1.6, 501)
	wg := analytic.NewWaveguide()
	cp := analytic.NewCoupler()
	g := defaultRacetrack()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m, err := RacetrackResonator(wg, cp, wavelengths, g)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = m
	}
}
