// Package coeff loads fitted polynomial coefficient packs and exposes
// them as predictors. A pack is a JSON file holding multivariate monomial
// terms; evaluation and partial derivatives are exact, so packs behave
// identically wherever the built-in analytic models are accepted.
package coeff

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"photonic-sparam/core/predict"
	"photonic-sparam/internal/errors"
	"photonic-sparam/internal/logging"
)

// PackSpec is the on-disk coefficient pack format
type PackSpec struct {
	Name    string     `json:"name"`
	Version string     `json:"version"`
	Inputs  []string   `json:"inputs"`
	Outputs []string   `json:"outputs"`
	Terms   []TermSpec `json:"terms"`
}

// TermSpec is one monomial term: coeffs[c] * prod_d x[d]^powers[d],
// with one coefficient per output column
type TermSpec struct {
	Powers []int     `json:"powers"`
	Coeffs []float64 `json:"coeffs"`
}

// Model is a loaded coefficient pack implementing predict.Predictor
type Model struct {
	spec PackSpec
}

// Open loads and validates a coefficient pack file
func Open(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Model("reading coefficient pack", err).WithContext("path", path)
	}

	var spec PackSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, errors.Model("parsing coefficient pack", err).WithContext("path", path)
	}

	m, err := FromSpec(spec)
	if err != nil {
		return nil, err
	}

	logging.Info("loaded coefficient pack",
		zap.String("name", spec.Name),
		zap.String("version", spec.Version),
		zap.Int("terms", len(spec.Terms)))
	return m, nil
}

// FromSpec validates a pack spec and wraps it in a model
func FromSpec(spec PackSpec) (*Model, error) {
	if spec.Name == "" {
		return nil, errors.New(errors.TypeModel, "coefficient pack has no name")
	}
	if len(spec.Inputs) == 0 {
		return nil, errors.Newf(errors.TypeModel, "pack %s declares no inputs", spec.Name)
	}
	if len(spec.Outputs) == 0 {
		return nil, errors.Newf(errors.TypeModel, "pack %s declares no outputs", spec.Name)
	}
	if len(spec.Terms) == 0 {
		return nil, errors.Newf(errors.TypeModel, "pack %s has no terms", spec.Name)
	}
	for i, term := range spec.Terms {
		if len(term.Powers) != len(spec.Inputs) {
			return nil, errors.Newf(errors.TypeModel,
				"pack %s term %d has %d powers for %d inputs",
				spec.Name, i, len(term.Powers), len(spec.Inputs))
		}
		if len(term.Coeffs) != len(spec.Outputs) {
			return nil, errors.Newf(errors.TypeModel,
				"pack %s term %d has %d coefficients for %d outputs",
				spec.Name, i, len(term.Coeffs), len(spec.Outputs))
		}
		for d, p := range term.Powers {
			if p < 0 {
				return nil, errors.Newf(errors.TypeModel,
					"pack %s term %d has negative power %d on input %d",
					spec.Name, i, p, d)
			}
		}
	}
	return &Model{spec: spec}, nil
}

// Name returns the pack name
func (m *Model) Name() string { return m.spec.Name }

// Version returns the pack version
func (m *Model) Version() string { return m.spec.Version }

// InputNames returns the declared input column names
func (m *Model) InputNames() []string { return append([]string(nil), m.spec.Inputs...) }

// OutputNames returns the declared output column names
func (m *Model) OutputNames() []string { return append([]string(nil), m.spec.Outputs...) }

// Terms returns the number of monomial terms
func (m *Model) Terms() int { return len(m.spec.Terms) }

// Inputs implements predict.Predictor
func (m *Model) Inputs() int { return len(m.spec.Inputs) }

// Outputs implements predict.Predictor
func (m *Model) Outputs() int { return len(m.spec.Outputs) }

// Predict implements predict.Predictor
func (m *Model) Predict(rows [][]float64) ([][]float64, error) {
	if err := predict.ValidateBatch(m, rows); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = m.evaluate(row, -1, 0)
	}
	return out, nil
}

// PartialDerivative implements predict.Predictor. Monomial derivatives
// are exact: d^k/dx^k x^p = p(p-1)...(p-k+1) x^(p-k), zero once k > p.
func (m *Model) PartialDerivative(rows [][]float64, axis, order int) ([][]float64, error) {
	if err := predict.ValidateDerivative(axis, order, m.Inputs()); err != nil {
		return nil, err
	}
	if err := predict.ValidateBatch(m, rows); err != nil {
		return nil, err
	}
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = m.evaluate(row, axis, order)
	}
	return out, nil
}

// evaluate sums all terms at row, differentiated order times along axis.
// axis < 0 evaluates the plain polynomial.
func (m *Model) evaluate(row []float64, axis, order int) []float64 {
	values := make([]float64, len(m.spec.Outputs))
	for _, term := range m.spec.Terms {
		monomial := 1.0
		for d, p := range term.Powers {
			if d == axis {
				factor, reduced := falling(p, order)
				if factor == 0 {
					monomial = 0
					break
				}
				monomial *= factor * intPow(row[d], reduced)
				continue
			}
			monomial *= intPow(row[d], p)
		}
		if monomial == 0 {
			continue
		}
		for c, coeff := range term.Coeffs {
			values[c] += coeff * monomial
		}
	}
	return values
}

// falling returns p(p-1)...(p-order+1) and the reduced power p-order
func falling(p, order int) (float64, int) {
	if order > p {
		return 0, 0
	}
	factor := 1.0
	for i := 0; i < order; i++ {
		factor *= float64(p - i)
	}
	return factor, p - order
}

func intPow(x float64, p int) float64 {
	out := 1.0
	for i := 0; i < p; i++ {
		out *= x
	}
	return out
}
