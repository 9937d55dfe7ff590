package sparam

import (
	"photonic-sparam/internal/errors"
)

// Connect joins port portA of network a to port portB of network b,
// returning the combined network with both joined ports eliminated.
// Result port order: a's ports except portA in their original order,
// then b's ports except portB in their original order.
func Connect(a *Matrix, portA int, b *Matrix, portB int) (*Matrix, error) {
	if a.points != b.points {
		return nil, errors.Dimensionf("frequency point mismatch: %d vs %d", a.points, b.points)
	}
	if portA < 0 || portA >= a.ports {
		return nil, errors.PortIndex(portA, a.ports)
	}
	if portB < 0 || portB >= b.ports {
		return nil, errors.PortIndex(portB, b.ports)
	}

	return Innerconnect(blockDiag(a, b), portA, a.ports+portB)
}

// Innerconnect joins ports portI and portJ of a single network, returning
// the network with both ports eliminated. Remaining ports keep their
// original relative order.
//
// Each frequency point is solved independently with the closed-form
// junction formula. The denominator carries the full geometric series of
// reflections bouncing between the joined ports, so resonant feedback
// paths (rings) come out exact. A junction whose denominator vanishes is
// singular; its entries come back non-finite.
func Innerconnect(m *Matrix, portI, portJ int) (*Matrix, error) {
	n := m.ports
	if portI < 0 || portI >= n {
		return nil, errors.PortIndex(portI, n)
	}
	if portJ < 0 || portJ >= n {
		return nil, errors.PortIndex(portJ, n)
	}
	if portI == portJ {
		return nil, errors.Newf(errors.TypePortIndex, "cannot join port %d to itself", portI)
	}

	k, l := portI, portJ
	out := empty(m.points, n-2)

	for f := 0; f < m.points; f++ {
		akk := m.At(f, k, k)
		all := m.At(f, l, l)
		akl := m.At(f, k, l)
		alk := m.At(f, l, k)
		den := (1-akl)*(1-alk) - akk*all

		oi := 0
		for i := 0; i < n; i++ {
			if i == k || i == l {
				continue
			}
			aik := m.At(f, i, k)
			ail := m.At(f, i, l)

			oj := 0
			for j := 0; j < n; j++ {
				if j == k || j == l {
					continue
				}
				akj := m.At(f, k, j)
				alj := m.At(f, l, j)

				num := akj*ail*(1-alk) +
					alj*aik*(1-akl) +
					akj*all*aik +
					alj*akk*ail
				out.Set(f, oi, oj, m.At(f, i, j)+num/den)
				oj++
			}
			oi++
		}
	}
	return out, nil
}

// blockDiag stacks two networks into one without coupling them:
// a occupies ports [0, a.ports), b occupies [a.ports, a.ports+b.ports).
func blockDiag(a, b *Matrix) *Matrix {
	out := empty(a.points, a.ports+b.ports)
	for f := 0; f < a.points; f++ {
		for i := 0; i < a.ports; i++ {
			for j := 0; j < a.ports; j++ {
				out.Set(f, i, j, a.At(f, i, j))
			}
		}
		for i := 0; i < b.ports; i++ {
			for j := 0; j < b.ports; j++ {
				out.Set(f, a.ports+i, a.ports+j, b.At(f, i, j))
			}
		}
	}
	return out
}
