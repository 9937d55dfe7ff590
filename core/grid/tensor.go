package grid

import (
	"photonic-sparam/internal/errors"
)

// Tensor is a dense row-major float64 tensor with an explicit shape.
// Row-major means the last dimension varies fastest, matching the row
// order produced by Product.
type Tensor struct {
	shape []int
	data  []float64
}

// NewTensor wraps flat data in a tensor of the given shape. The data
// length must exactly equal the product of the shape dimensions.
func NewTensor(shape []int, data []float64) (*Tensor, error) {
	if len(shape) == 0 {
		return nil, errors.Input("tensor shape is empty")
	}
	n := 1
	for i, dim := range shape {
		if dim < 1 {
			return nil, errors.Inputf("tensor dimension %d is %d, need >= 1", i, dim)
		}
		n *= dim
	}
	if n != len(data) {
		return nil, errors.Dimensionf("shape wants %d values, data has %d", n, len(data))
	}

	t := &Tensor{
		shape: make([]int, len(shape)),
		data:  make([]float64, len(data)),
	}
	copy(t.shape, shape)
	copy(t.data, data)
	return t, nil
}

// Shape returns a copy of the tensor shape
func (t *Tensor) Shape() []int {
	out := make([]int, len(t.shape))
	copy(out, t.shape)
	return out
}

// Len returns the total number of values
func (t *Tensor) Len() int {
	return len(t.data)
}

// At returns the value at the given multi-index
func (t *Tensor) At(idx ...int) (float64, error) {
	offset, err := t.offset(idx)
	if err != nil {
		return 0, err
	}
	return t.data[offset], nil
}

// Flatten returns the values in row-major order. The returned slice is a
// copy; mutating it does not affect the tensor.
func (t *Tensor) Flatten() []float64 {
	out := make([]float64, len(t.data))
	copy(out, t.data)
	return out
}

func (t *Tensor) offset(idx []int) (int, error) {
	if len(idx) != len(t.shape) {
		return 0, errors.Dimensionf("index rank %d does not match tensor rank %d", len(idx), len(t.shape))
	}
	offset := 0
	for d, i := range idx {
		if i < 0 || i >= t.shape[d] {
			return 0, errors.Inputf("index %d out of range for dimension %d of size %d", i, d, t.shape[d])
		}
		offset = offset*t.shape[d] + i
	}
	return offset, nil
}
