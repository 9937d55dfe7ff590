package devices

import (
	"photonic-sparam/core/grid"
	"photonic-sparam/core/predict"
	"photonic-sparam/internal/errors"
)

// ModeResponse holds one effective index tensor per guided mode, shaped
// (wavelengths, widths, thicknesses)
type ModeResponse struct {
	TE0 *grid.Tensor
	TE1 *grid.Tensor
	TE2 *grid.Tensor
	TM0 *grid.Tensor
	TM1 *grid.Tensor
	TM2 *grid.Tensor
}

// ByName returns a mode tensor by its column name
func (r *ModeResponse) ByName(name string) (*grid.Tensor, bool) {
	switch name {
	case "TE0":
		return r.TE0, true
	case "TE1":
		return r.TE1, true
	case "TE2":
		return r.TE2, true
	case "TM0":
		return r.TM0, true
	case "TM1":
		return r.TM1, true
	case "TM2":
		return r.TM2, true
	}
	return nil, false
}

// ResponseOption adjusts a mode response computation
type ResponseOption func(*responseConfig)

type responseConfig struct {
	derivativeOrder int
}

// WithDerivative requests the order-th partial derivative with respect
// to wavelength instead of the plain response
func WithDerivative(order int) ResponseOption {
	return func(c *responseConfig) {
		c.derivativeOrder = order
	}
}

// WaveguideResponse evaluates the six guided-mode indices on the full
// cartesian grid of the given axes. Scalar parameters become one-element
// axes via grid.Scalar. With WithDerivative(n) the tensors hold the n-th
// wavelength derivative of each index instead.
func WaveguideResponse(p predict.Predictor, wavelengths, widths, thicknesses []float64, opts ...ResponseOption) (*ModeResponse, error) {
	cfg := responseConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := checkWavelengths(wavelengths); err != nil {
		return nil, err
	}
	if p.Inputs() != 3 {
		return nil, errors.Dimensionf("waveguide model wants %d inputs, predictor has %d", 3, p.Inputs())
	}
	if p.Outputs() != len(predict.WaveguideOutputs) {
		return nil, errors.Dimensionf("waveguide model wants %d outputs, predictor has %d",
			len(predict.WaveguideOutputs), p.Outputs())
	}

	rows, err := grid.Product(wavelengths, widths, thicknesses)
	if err != nil {
		return nil, err
	}

	var out [][]float64
	if cfg.derivativeOrder > 0 {
		out, err = p.PartialDerivative(rows, 0, cfg.derivativeOrder)
	} else {
		out, err = p.Predict(rows)
	}
	if err != nil {
		return nil, err
	}
	if len(out) != len(rows) {
		return nil, errors.Dimensionf("predictor returned %d rows for %d grid points", len(out), len(rows))
	}

	shape := []int{len(wavelengths), len(widths), len(thicknesses)}
	tensors := make([]*grid.Tensor, len(predict.WaveguideOutputs))
	for c := range predict.WaveguideOutputs {
		col, err := grid.Column(out, c)
		if err != nil {
			return nil, err
		}
		tensors[c], err = grid.NewTensor(shape, col)
		if err != nil {
			return nil, err
		}
	}

	return &ModeResponse{
		TE0: tensors[0],
		TE1: tensors[1],
		TE2: tensors[2],
		TM0: tensors[3],
		TM1: tensors[4],
		TM2: tensors[5],
	}, nil
}
