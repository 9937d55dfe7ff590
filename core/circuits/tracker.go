package circuits

import (
	"photonic-sparam/internal/errors"
)

// ref names one port of one constituent device
type ref struct {
	device string
	port   int
}

// tracker mirrors the port renumbering the cascade operations perform,
// so assembly code addresses composite ports by constituent name instead
// of hand-counted indices.
type tracker struct {
	slots []ref
}

func newTracker(device string, ports int) *tracker {
	t := &tracker{}
	for p := 0; p < ports; p++ {
		t.slots = append(t.slots, ref{device, p})
	}
	return t
}

// connect mirrors sparam.Connect: drop composite port portA, append the
// new device's ports except portB
func (t *tracker) connect(portA int, device string, ports, portB int) {
	t.drop(portA)
	for p := 0; p < ports; p++ {
		if p == portB {
			continue
		}
		t.slots = append(t.slots, ref{device, p})
	}
}

// innerconnect mirrors sparam.Innerconnect: drop both composite ports
func (t *tracker) innerconnect(i, j int) {
	if i < j {
		t.drop(j)
		t.drop(i)
	} else {
		t.drop(i)
		t.drop(j)
	}
}

func (t *tracker) drop(i int) {
	t.slots = append(t.slots[:i], t.slots[i+1:]...)
}

// indexOf returns the current composite index of a constituent port
func (t *tracker) indexOf(device string, port int) (int, error) {
	for i, r := range t.slots {
		if r.device == device && r.port == port {
			return i, nil
		}
	}
	return 0, errors.Newf(errors.TypeInternal, "port %d of %s is no longer external", port, device)
}

// expect verifies the final port layout, guarding the exported port
// constants against assembly-order drift
func (t *tracker) expect(want []ref) error {
	if len(t.slots) != len(want) {
		return errors.Newf(errors.TypeInternal,
			"assembly left %d external ports, expected %d", len(t.slots), len(want))
	}
	for i, r := range want {
		if t.slots[i] != r {
			return errors.Newf(errors.TypeInternal,
				"external port %d is %s.%d, expected %s.%d",
				i, t.slots[i].device, t.slots[i].port, r.device, r.port)
		}
	}
	return nil
}
