package eval

import (
	"context"
	"encoding/json"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photonic-sparam/adapters/storage"
	"photonic-sparam/core/output"
	"photonic-sparam/core/predict"
	"photonic-sparam/core/sweep"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
	"photonic-sparam/models/analytic"
	"photonic-sparam/models/coeff"
)

func newTestEngine(t *testing.T, store storage.Store) *Engine {
	t.Helper()
	r := predict.NewRegistry()
	require.NoError(t, analytic.RegisterDefaults(r))
	return New(r, store, "test")
}

func TestEvaluateStraight(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Evaluate(context.Background(), &Request{
		Device:      types.DeviceStraight,
		Name:        "wg1",
		Geometry:    map[string]float64{"length": 10},
		Wavelengths: []float64{1.55},
		Source:      "test",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, types.DeviceStraight, result.Device)
	assert.Equal(t, "wg1", result.Name)
	assert.Equal(t, 2, result.Ports)
	assert.Equal(t, []float64{1.55}, result.Wavelengths)

	// Defaults fill in alongside the explicit length.
	assert.Equal(t, 10.0, result.Geometry["length"])
	assert.Equal(t, 0.5, result.Geometry["width"])
	assert.Equal(t, 0.2, result.Geometry["thickness"])

	// Pure propagation phase on the fundamental mode.
	require.NotNil(t, result.Spectra)
	entry, ok := result.Spectra.Entry(1, 0)
	require.True(t, ok)
	phase := 2 * math.Pi * 2.323 * 10 / 1.55
	want := cmplx.Exp(complex(0, phase))
	assert.InDelta(t, real(want), entry.Real[0], 1e-12)
	assert.InDelta(t, imag(want), entry.Imag[0], 1e-12)
	assert.InDelta(t, 0, entry.MagnitudeDB[0], 1e-9)

	assert.Len(t, result.Metadata.InputHash, 64)
	assert.Equal(t, "test", result.Metadata.Source)
	assert.Equal(t, "test", result.Metadata.Version)
	assert.NotEmpty(t, result.Metadata.Timestamp)
}

func TestEvaluateRacetrackDefaults(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Evaluate(context.Background(), &Request{
		Device: types.DeviceRacetrack,
		Band:   "c",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Ports)
	assert.Len(t, result.Wavelengths, 101)
	assert.Equal(t, 1.53, result.Wavelengths[0])
	assert.Equal(t, 1.565, result.Wavelengths[100])

	assert.Equal(t, 5.0, result.Geometry["radius"])
	assert.Equal(t, 5.0, result.Geometry["coupler_length"])
	assert.Equal(t, 0.2, result.Geometry["gap"])
	assert.Len(t, result.Spectra.Entries, 16)
}

func TestEvaluateSweep(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Evaluate(context.Background(), &Request{
		Device:   types.DeviceStraight,
		Geometry: map[string]float64{"length": 5},
		Sweep:    &sweep.Sweep{Start: 1.5, Stop: 1.6, Points: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5, 1.55, 1.6}, result.Wavelengths)
}

func TestEvaluateValidation(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     *Request
		errType errors.Type
		substr  string
	}{
		{
			name:    "nil request",
			req:     nil,
			errType: errors.TypeInvalidInput,
		},
		{
			name:    "no wavelength grid",
			req:     &Request{Device: types.DeviceStraight, Geometry: map[string]float64{"length": 1}},
			errType: errors.TypeInvalidInput,
			substr:  "no wavelength grid",
		},
		{
			name: "conflicting grids",
			req: &Request{
				Device:      types.DeviceStraight,
				Geometry:    map[string]float64{"length": 1},
				Wavelengths: []float64{1.55},
				Band:        "c",
			},
			errType: errors.TypeInvalidInput,
			substr:  "mutually exclusive",
		},
		{
			name:    "unknown device kind",
			req:     &Request{Device: "spiral", Wavelengths: []float64{1.55}},
			errType: errors.TypeInvalidInput,
			substr:  "unknown device kind",
		},
		{
			name:    "missing required parameter",
			req:     &Request{Device: types.DeviceStraight, Wavelengths: []float64{1.55}},
			errType: errors.TypeInvalidInput,
			substr:  "length",
		},
		{
			name: "unknown parameter",
			req: &Request{
				Device:      types.DeviceStraight,
				Geometry:    map[string]float64{"length": 1, "bogus": 2},
				Wavelengths: []float64{1.55},
			},
			errType: errors.TypeInvalidInput,
			substr:  "bogus",
		},
		{
			name: "non-positive wavelength",
			req: &Request{
				Device:      types.DeviceStraight,
				Geometry:    map[string]float64{"length": 1},
				Wavelengths: []float64{-1.55},
			},
			errType: errors.TypeInvalidInput,
			substr:  "positive",
		},
		{
			name: "unknown band",
			req: &Request{
				Device:   types.DeviceStraight,
				Geometry: map[string]float64{"length": 1},
				Band:     "q",
			},
			errType: errors.TypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(ctx, tt.req)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, tt.errType), "got %v", err)
			if tt.substr != "" {
				assert.Contains(t, err.Error(), tt.substr)
			}
		})
	}
}

func TestEvaluateSave(t *testing.T) {
	store := storage.NewMemoryStore()
	e := newTestEngine(t, store)
	ctx := context.Background()

	result, err := e.Evaluate(ctx, &Request{
		Device:      types.DeviceStraight,
		Geometry:    map[string]float64{"length": 10},
		Wavelengths: []float64{1.55},
		Save:        true,
	})
	require.NoError(t, err)

	runs, err := store.List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, result.RunID, runs[0].ID)
	assert.Equal(t, types.DeviceStraight, runs[0].Device)
	assert.Equal(t, 1, runs[0].Points)

	var decoded output.Result
	require.NoError(t, json.Unmarshal(runs[0].Result, &decoded))
	assert.Equal(t, result.RunID, decoded.RunID)
}

func TestEvaluateSaveWithoutStore(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Evaluate(context.Background(), &Request{
		Device:      types.DeviceStraight,
		Geometry:    map[string]float64{"length": 10},
		Wavelengths: []float64{1.55},
		Save:        true,
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeStorage))
}

func TestResponse(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Response(context.Background(), &ResponseRequest{
		Wavelengths: []float64{1.55},
		Widths:      []float64{0.5},
		Thicknesses: []float64{0.2},
	})
	require.NoError(t, err)

	require.NotNil(t, result.Modes)
	assert.Equal(t, []int{1, 1, 1}, result.Modes.Shape)
	assert.Len(t, result.Modes.Values, 6)
	assert.InDelta(t, 2.323, result.Modes.Values["TE0"][0], 1e-12)
	assert.Len(t, result.Metadata.InputHash, 64)
}

func TestResponseDerivative(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Response(context.Background(), &ResponseRequest{
		Wavelengths: []float64{1.5, 1.55, 1.6},
		Widths:      []float64{0.5},
		Thicknesses: []float64{0.2},
		Derivative:  1,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Modes.Derivative)
	// The analytic TE0 dispersion slope is constant.
	for _, v := range result.Modes.Values["TE0"] {
		assert.InDelta(t, -1.2, v, 1e-12)
	}
}

func TestResponseUnknownModel(t *testing.T) {
	e := newTestEngine(t, nil)

	_, err := e.Response(context.Background(), &ResponseRequest{
		Model:       "nope",
		Wavelengths: []float64{1.55},
		Widths:      []float64{0.5},
		Thicknesses: []float64{0.2},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeNotFound))
}

func TestBindModels(t *testing.T) {
	e := newTestEngine(t, nil)

	spec := coeff.PackSpec{
		Name:    "flat-waveguide",
		Version: "1",
		Inputs:  []string{"wavelength", "width", "thickness"},
		Outputs: predict.WaveguideOutputs,
		Terms: []coeff.TermSpec{
			{Powers: []int{0, 0, 0}, Coeffs: []float64{2.4, 1.9, 1.6, 1.8, 1.4, 1.2}},
		},
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "wg.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	require.NoError(t, e.BindModels(map[string]string{predict.ModelWaveguide: path}))

	p, ok := e.Registry().Lookup(predict.ModelWaveguide)
	require.True(t, ok)
	assert.IsType(t, &coeff.Model{}, p)

	// The straight waveguide now sees the flat pack index.
	result, err := e.Evaluate(context.Background(), &Request{
		Device:      types.DeviceStraight,
		Geometry:    map[string]float64{"length": 10},
		Wavelengths: []float64{1.55},
	})
	require.NoError(t, err)

	entry, ok := result.Spectra.Entry(1, 0)
	require.True(t, ok)
	want := cmplx.Exp(complex(0, 2*math.Pi*2.4*10/1.55))
	assert.InDelta(t, real(want), entry.Real[0], 1e-12)
	assert.InDelta(t, imag(want), entry.Imag[0], 1e-12)
}

func TestBindModelsMissingPack(t *testing.T) {
	e := newTestEngine(t, nil)

	err := e.BindModels(map[string]string{"waveguide": "/does/not/exist.json"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeModel))
}

func TestRequestFromDevice(t *testing.T) {
	device := types.RawDevice{
		Address: "straight.wg1",
		Kind:    types.DeviceStraight,
		Name:    "wg1",
		Attributes: types.Attributes{
			"length": {Value: 10.0},
			"width":  {Value: 0.5},
			"label":  {Value: "not geometry"},
		},
	}

	sw := &sweep.Sweep{Start: 1.5, Stop: 1.6, Points: 11}
	req := RequestFromDevice(device, sw)

	assert.Equal(t, types.DeviceStraight, req.Device)
	assert.Equal(t, "wg1", req.Name)
	assert.Equal(t, sw, req.Sweep)
	assert.Equal(t, map[string]float64{"length": 10, "width": 0.5}, req.Geometry)
}

func TestEvaluateAll(t *testing.T) {
	e := newTestEngine(t, nil)

	reqs := []*Request{
		{
			Device:      types.DeviceStraight,
			Geometry:    map[string]float64{"length": 10},
			Wavelengths: []float64{1.55},
		},
		{
			Device:      types.DeviceKind("spiral"),
			Wavelengths: []float64{1.55},
		},
		{
			Device:      types.DeviceRacetrack,
			Wavelengths: []float64{1.55},
		},
	}

	items, stats := e.EvaluateAll(context.Background(), reqs, 2)
	require.Len(t, items, 3)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 2, stats.MaxWorkers)

	// Items stay in request order.
	require.NoError(t, items[0].Err)
	assert.Equal(t, types.DeviceStraight, items[0].Result.Device)
	require.Error(t, items[1].Err)
	assert.True(t, errors.IsType(items[1].Err, errors.TypeInvalidInput))
	assert.Nil(t, items[1].Result)
	require.NoError(t, items[2].Err)
	assert.Equal(t, types.DeviceRacetrack, items[2].Result.Device)
}

func TestEvaluateAllEmpty(t *testing.T) {
	e := newTestEngine(t, nil)

	items, stats := e.EvaluateAll(context.Background(), nil, 4)
	assert.Empty(t, items)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Completed)
}

func TestEvaluateAllCancelled(t *testing.T) {
	e := newTestEngine(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reqs := []*Request{{
		Device:      types.DeviceStraight,
		Geometry:    map[string]float64{"length": 10},
		Wavelengths: []float64{1.55},
	}}
	items, stats := e.EvaluateAll(ctx, reqs, 1)
	require.Len(t, items, 1)
	assert.ErrorIs(t, items[0].Err, context.Canceled)
	assert.Equal(t, 1, stats.Failed)
}
