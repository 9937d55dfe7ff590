// Package eval provides the API-primary evaluation engine.
// The CLI and HTTP server are thin wrappers around this engine.
package eval

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"photonic-sparam/adapters/storage"
	"photonic-sparam/core/circuits"
	"photonic-sparam/core/devices"
	"photonic-sparam/core/output"
	"photonic-sparam/core/predict"
	"photonic-sparam/core/sparam"
	"photonic-sparam/core/sweep"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
	"photonic-sparam/internal/logging"
	"photonic-sparam/models/coeff"
)

// Request describes one S-parameter evaluation. Exactly one of
// Wavelengths, Sweep, or Band selects the wavelength grid.
type Request struct {
	// Device is the device kind to evaluate
	Device types.DeviceKind `json:"device"`

	// Name labels the device instance
	Name string `json:"name,omitempty"`

	// Geometry overrides catalog defaults, keyed by parameter name
	Geometry map[string]float64 `json:"geometry,omitempty"`

	// Wavelengths is an explicit grid in micrometers
	Wavelengths []float64 `json:"wavelengths_um,omitempty"`

	// Sweep is a linear wavelength range
	Sweep *sweep.Sweep `json:"sweep,omitempty"`

	// Band names a telecom band preset
	Band string `json:"band,omitempty"`

	// Source tags where the request came from (cli, api)
	Source string `json:"source,omitempty"`

	// Save persists the result to the run store
	Save bool `json:"save,omitempty"`
}

// ResponseRequest describes one mode-response evaluation over the
// cartesian grid of its axes.
type ResponseRequest struct {
	// Model names the predictor, default "waveguide"
	Model string `json:"model,omitempty"`

	// Wavelengths axis in micrometers
	Wavelengths []float64 `json:"wavelengths_um"`

	// Widths axis in micrometers
	Widths []float64 `json:"widths_um"`

	// Thicknesses axis in micrometers
	Thicknesses []float64 `json:"thicknesses_um"`

	// Derivative requests the order-th wavelength derivative
	Derivative int `json:"derivative,omitempty"`

	// Source tags where the request came from (cli, api)
	Source string `json:"source,omitempty"`
}

// Engine is the primary API for S-parameter evaluation.
// All other interfaces (CLI, HTTP) are thin wrappers.
type Engine struct {
	registry *predict.Registry
	catalog  *types.Catalog
	store    storage.Store
	version  string
	log      *zap.Logger
}

// New creates an evaluation engine. A nil registry falls back to the
// process-wide default registry; the store may be nil when run
// persistence is not needed.
func New(registry *predict.Registry, store storage.Store, version string) *Engine {
	if registry == nil {
		registry = predict.GetDefaultRegistry()
	}
	return &Engine{
		registry: registry,
		catalog:  types.NewCatalog(),
		store:    store,
		version:  version,
		log:      logging.Named("eval"),
	}
}

// Catalog returns the device catalog
func (e *Engine) Catalog() *types.Catalog {
	return e.catalog
}

// Registry returns the predictor registry
func (e *Engine) Registry() *predict.Registry {
	return e.registry
}

// Store returns the run store, nil when persistence is disabled
func (e *Engine) Store() storage.Store {
	return e.store
}

// Version returns the engine version string
func (e *Engine) Version() string {
	return e.version
}

// BindModels loads coefficient packs and rebinds the named predictors
func (e *Engine) BindModels(packs map[string]string) error {
	for name, path := range packs {
		model, err := coeff.Open(path)
		if err != nil {
			return errors.Wrapf(errors.TypeModel, err, "failed to load coefficient pack for %q", name)
		}
		e.registry.Replace(name, model)
		e.log.Info("bound coefficient pack",
			zap.String("model", name),
			zap.String("pack", path))
	}
	return nil
}

// Evaluate computes the S-matrix for one device over its wavelength grid
func (e *Engine) Evaluate(ctx context.Context, req *Request) (*output.Result, error) {
	start := time.Now()

	if req == nil {
		return nil, errors.Input("request is required")
	}

	wavelengths, err := e.resolveWavelengths(req)
	if err != nil {
		return nil, err
	}

	geometry, err := e.resolveGeometry(req.Device, req.Geometry)
	if err != nil {
		return nil, err
	}

	matrix, err := e.buildMatrix(req.Device, geometry, wavelengths)
	if err != nil {
		return nil, err
	}

	result := &output.Result{
		RunID:       uuid.New().String(),
		Device:      req.Device,
		Name:        req.Name,
		Geometry:    geometry,
		Wavelengths: wavelengths,
		Ports:       matrix.Ports(),
		Spectra:     output.FromMatrix(matrix),
		Metadata: output.Metadata{
			Timestamp: start.UTC().Format(time.RFC3339),
			Duration:  time.Since(start).String(),
			InputHash: hashRequest(req),
			Version:   e.version,
			Source:    req.Source,
		},
	}

	if req.Save {
		if err := e.save(ctx, result); err != nil {
			return nil, err
		}
	}

	e.log.Info("evaluated device",
		zap.String("device", string(req.Device)),
		zap.String("run_id", result.RunID),
		zap.Int("ports", result.Ports),
		zap.Int("points", len(wavelengths)),
		zap.Duration("took", time.Since(start)))

	return result, nil
}

// Response computes effective index surfaces over a geometry grid
func (e *Engine) Response(ctx context.Context, req *ResponseRequest) (*output.Result, error) {
	start := time.Now()

	if req == nil {
		return nil, errors.Input("request is required")
	}

	name := req.Model
	if name == "" {
		name = predict.ModelWaveguide
	}
	p, ok := e.registry.Lookup(name)
	if !ok {
		return nil, errors.NotFound("predictor", name)
	}

	var opts []devices.ResponseOption
	if req.Derivative > 0 {
		opts = append(opts, devices.WithDerivative(req.Derivative))
	}

	resp, err := devices.WaveguideResponse(p, req.Wavelengths, req.Widths, req.Thicknesses, opts...)
	if err != nil {
		return nil, err
	}

	values := make(map[string][]float64, len(predict.WaveguideOutputs))
	for _, mode := range predict.WaveguideOutputs {
		tensor, ok := resp.ByName(mode)
		if !ok {
			return nil, errors.Internal("mode response is missing "+mode, nil)
		}
		values[mode] = tensor.Flatten()
	}

	result := &output.Result{
		RunID:       uuid.New().String(),
		Device:      types.DeviceStraight,
		Wavelengths: append([]float64(nil), req.Wavelengths...),
		Modes: &output.ModeSet{
			Shape:       []int{len(req.Wavelengths), len(req.Widths), len(req.Thicknesses)},
			Widths:      append([]float64(nil), req.Widths...),
			Thicknesses: append([]float64(nil), req.Thicknesses...),
			Derivative:  req.Derivative,
			Values:      values,
		},
		Metadata: output.Metadata{
			Timestamp: start.UTC().Format(time.RFC3339),
			Duration:  time.Since(start).String(),
			InputHash: hashRequest(req),
			Version:   e.version,
			Source:    req.Source,
		},
	}

	e.log.Info("evaluated mode response",
		zap.String("model", name),
		zap.String("run_id", result.RunID),
		zap.Ints("shape", result.Modes.Shape),
		zap.Duration("took", time.Since(start)))

	return result, nil
}

func (e *Engine) save(ctx context.Context, result *output.Result) error {
	if e.store == nil {
		return errors.Storage("no run store configured", nil)
	}
	run, err := storage.FromResult(result)
	if err != nil {
		return err
	}
	if err := e.store.Save(ctx, run); err != nil {
		return err
	}
	e.log.Debug("saved run", zap.String("run_id", run.ID))
	return nil
}

func (e *Engine) resolveWavelengths(req *Request) ([]float64, error) {
	sources := 0
	if len(req.Wavelengths) > 0 {
		sources++
	}
	if req.Sweep != nil {
		sources++
	}
	if req.Band != "" {
		sources++
	}
	if sources == 0 {
		return nil, errors.Input("no wavelength grid: set wavelengths_um, sweep, or band")
	}
	if sources > 1 {
		return nil, errors.Input("wavelengths_um, sweep, and band are mutually exclusive")
	}

	switch {
	case len(req.Wavelengths) > 0:
		for _, wl := range req.Wavelengths {
			if wl <= 0 {
				return nil, errors.Inputf("wavelengths must be positive, got %g", wl)
			}
		}
		return append([]float64(nil), req.Wavelengths...), nil

	case req.Sweep != nil:
		return req.Sweep.Expand()

	default:
		band, err := sweep.Band(req.Band)
		if err != nil {
			return nil, err
		}
		return band.Expand()
	}
}

func (e *Engine) resolveGeometry(kind types.DeviceKind, overrides map[string]float64) (map[string]float64, error) {
	spec, ok := e.catalog.Get(kind)
	if !ok {
		return nil, errors.Inputf("unknown device kind: %s", kind)
	}

	for key := range overrides {
		if _, ok := spec.Parameter(key); !ok {
			return nil, errors.Inputf("unknown parameter %q for device %s", key, kind)
		}
	}

	attrs := make(types.Attributes, len(overrides))
	for key, value := range overrides {
		attrs[key] = types.Attribute{Value: value}
	}

	values, missing := e.catalog.Resolve(kind, attrs)
	if len(missing) > 0 {
		return nil, errors.Inputf("missing required parameters for %s: %s", kind, strings.Join(missing, ", "))
	}
	return values, nil
}

func (e *Engine) buildMatrix(kind types.DeviceKind, geom map[string]float64, wavelengths []float64) (*sparam.Matrix, error) {
	wg, ok := e.registry.Lookup(predict.ModelWaveguide)
	if !ok {
		return nil, errors.Model("waveguide predictor is not registered", nil)
	}

	switch kind {
	case types.DeviceStraight:
		return devices.StraightWaveguide(wg, wavelengths, devices.Straight{
			Width:     geom["width"],
			Thickness: geom["thickness"],
			Length:    geom["length"],
		})

	case types.DeviceBent:
		return devices.BentWaveguide(wg, wavelengths, devices.Bent{
			Radius:    geom["radius"],
			Width:     geom["width"],
			Thickness: geom["thickness"],
			Angle:     geom["angle"],
		})

	case types.DeviceCoupler:
		cp, ok := e.registry.Lookup(predict.ModelCoupler)
		if !ok {
			return nil, errors.Model("coupler predictor is not registered", nil)
		}
		return devices.EvanescentCoupler(cp, wavelengths, devices.Coupler{
			Width:     geom["width"],
			Thickness: geom["thickness"],
			Gap:       geom["gap"],
			Length:    geom["length"],
		})

	case types.DeviceRacetrack:
		cp, ok := e.registry.Lookup(predict.ModelCoupler)
		if !ok {
			return nil, errors.Model("coupler predictor is not registered", nil)
		}
		return circuits.RacetrackResonator(wg, cp, wavelengths, circuits.Racetrack{
			Radius:        geom["radius"],
			CouplerLength: geom["coupler_length"],
			Gap:           geom["gap"],
			Width:         geom["width"],
			Thickness:     geom["thickness"],
		})

	case types.DeviceRectangular:
		cp, ok := e.registry.Lookup(predict.ModelCoupler)
		if !ok {
			return nil, errors.Model("coupler predictor is not registered", nil)
		}
		return circuits.RectangularResonator(wg, cp, wavelengths, circuits.Rectangular{
			Radius:        geom["radius"],
			CouplerLength: geom["coupler_length"],
			SideLength:    geom["side_length"],
			Gap:           geom["gap"],
			Width:         geom["width"],
			Thickness:     geom["thickness"],
		})

	default:
		return nil, errors.Inputf("unknown device kind: %s", kind)
	}
}

// RequestFromDevice builds an evaluation request from a scanned device.
// Only numeric attributes carry over as geometry.
func RequestFromDevice(device types.RawDevice, sw *sweep.Sweep) *Request {
	geometry := make(map[string]float64)
	for name, attr := range device.Attributes {
		switch attr.Value.(type) {
		case float64, int, int64:
			geometry[name] = device.Attributes.GetFloat(name)
		}
	}
	return &Request{
		Device:   device.Kind,
		Name:     device.Name,
		Geometry: geometry,
		Sweep:    sw,
	}
}

func hashRequest(req interface{}) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
