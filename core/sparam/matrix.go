// Package sparam implements frequency-sampled scattering matrices and the
// network cascading algebra over them.
//
// A Matrix holds one ports x ports complex S-matrix per frequency point.
// Connect joins a port of one network to a port of another; Innerconnect
// joins two ports of the same network. Both eliminate the joined ports and
// renumber the survivors in their original relative order. Every frequency
// point is independent of every other.
package sparam

import (
	"fmt"

	"photonic-sparam/internal/errors"
)

// Matrix is a stack of S-matrices, one per frequency point, stored
// row-major as data[point*ports*ports + i*ports + j]. Operations return
// fresh matrices and never alias their operands.
type Matrix struct {
	points int
	ports  int
	data   []complex128
}

// New creates a zeroed S-matrix stack
func New(points, ports int) (*Matrix, error) {
	if points < 1 {
		return nil, errors.Inputf("frequency point count %d, need >= 1", points)
	}
	if ports < 1 {
		return nil, errors.Inputf("port count %d, need >= 1", ports)
	}
	return empty(points, ports), nil
}

// empty allows zero ports, which Innerconnect can produce when it
// consumes the last two ports of a network.
func empty(points, ports int) *Matrix {
	return &Matrix{
		points: points,
		ports:  ports,
		data:   make([]complex128, points*ports*ports),
	}
}

// Points returns the number of frequency points
func (m *Matrix) Points() int {
	return m.points
}

// Ports returns the number of ports
func (m *Matrix) Ports() int {
	return m.ports
}

// At returns S[i][j] at a frequency point
func (m *Matrix) At(point, i, j int) complex128 {
	m.check(point, i, j)
	return m.data[m.offset(point, i, j)]
}

// Set assigns S[i][j] at a frequency point
func (m *Matrix) Set(point, i, j int, v complex128) {
	m.check(point, i, j)
	m.data[m.offset(point, i, j)] = v
}

// Clone returns an independent copy
func (m *Matrix) Clone() *Matrix {
	out := empty(m.points, m.ports)
	copy(out.data, m.data)
	return out
}

func (m *Matrix) offset(point, i, j int) int {
	return point*m.ports*m.ports + i*m.ports + j
}

func (m *Matrix) check(point, i, j int) {
	if point < 0 || point >= m.points {
		panic(fmt.Sprintf("sparam: frequency point %d out of range [0,%d)", point, m.points))
	}
	if i < 0 || i >= m.ports || j < 0 || j >= m.ports {
		panic(fmt.Sprintf("sparam: port pair (%d,%d) out of range for %d ports", i, j, m.ports))
	}
}
