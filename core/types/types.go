// Package types defines core domain types shared across all layers.
// This package contains NO business logic - only type definitions.
package types

// DeviceKind identifies a photonic device topology
type DeviceKind string

const (
	DeviceStraight    DeviceKind = "straight"
	DeviceBent        DeviceKind = "bent"
	DeviceCoupler     DeviceKind = "coupler"
	DeviceRacetrack   DeviceKind = "racetrack"
	DeviceRectangular DeviceKind = "rectangular"
	DeviceUnknown     DeviceKind = "unknown"
)

// String returns the string representation of the device kind
func (k DeviceKind) String() string {
	return string(k)
}

// IsValid checks if the kind is a known device kind
func (k DeviceKind) IsValid() bool {
	switch k {
	case DeviceStraight, DeviceBent, DeviceCoupler, DeviceRacetrack, DeviceRectangular:
		return true
	default:
		return false
	}
}

// DeviceAddress uniquely identifies a device in a circuit definition
// Format: device_kind.device_name
type DeviceAddress string

// String returns the string representation
func (a DeviceAddress) String() string {
	return string(a)
}

// Attribute represents a device attribute value
type Attribute struct {
	Value interface{} `json:"value"`
	Type  string      `json:"type,omitempty"`
}

// Attributes is a map of attribute names to values
type Attributes map[string]Attribute

// Get retrieves an attribute value, returning nil if not found
func (a Attributes) Get(key string) interface{} {
	if attr, ok := a[key]; ok {
		return attr.Value
	}
	return nil
}

// Has reports whether the attribute is present
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// GetString retrieves a string attribute value
func (a Attributes) GetString(key string) string {
	if v := a.Get(key); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an integer attribute value
func (a Attributes) GetInt(key string) int {
	if v := a.Get(key); v != nil {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return 0
}

// GetBool retrieves a boolean attribute value
func (a Attributes) GetBool(key string) bool {
	if v := a.Get(key); v != nil {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}

// GetFloat retrieves a float64 attribute value
func (a Attributes) GetFloat(key string) float64 {
	if v := a.Get(key); v != nil {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

// GetFloats retrieves a numeric list attribute as a float64 slice.
// A bare scalar is returned as a one-element slice.
func (a Attributes) GetFloats(key string) []float64 {
	v := a.Get(key)
	if v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return []float64{n}
	case int:
		return []float64{float64(n)}
	case int64:
		return []float64{float64(n)}
	case []interface{}:
		out := make([]float64, 0, len(n))
		for _, item := range n {
			switch f := item.(type) {
			case float64:
				out = append(out, f)
			case int:
				out = append(out, float64(f))
			case int64:
				out = append(out, float64(f))
			default:
				return nil
			}
		}
		return out
	case []float64:
		out := make([]float64, len(n))
		copy(out, n)
		return out
	}
	return nil
}

// RawDevice is a device as scanned from a circuit definition file,
// before geometry validation
type RawDevice struct {
	Address    DeviceAddress `json:"address"`
	Kind       DeviceKind    `json:"kind"`
	Name       string        `json:"name"`
	Attributes Attributes    `json:"attributes"`
	SourceFile string        `json:"source_file,omitempty"`
	SourceLine int           `json:"source_line,omitempty"`
}
