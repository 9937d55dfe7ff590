package types

// Parameter describes a geometry parameter of a device kind
type Parameter struct {
	Name        string  `json:"name"`
	Unit        string  `json:"unit"`
	Default     float64 `json:"default"`
	Required    bool    `json:"required"`
	Description string  `json:"description"`
}

// DeviceSpec is a catalog entry for a device kind
type DeviceSpec struct {
	Kind        DeviceKind  `json:"kind"`
	Ports       int         `json:"ports"`
	Parameters  []Parameter `json:"parameters"`
	Description string      `json:"description"`
}

// Parameter returns the named parameter of this device kind
func (s *DeviceSpec) Parameter(name string) (*Parameter, bool) {
	for i := range s.Parameters {
		if s.Parameters[i].Name == name {
			return &s.Parameters[i], true
		}
	}
	return nil, false
}

// Catalog is the authoritative device catalog. All lengths are in
// micrometers and angles in radians.
type Catalog struct {
	entries map[DeviceKind]*DeviceSpec
}

// NewCatalog returns a catalog populated with the built-in device kinds
func NewCatalog() *Catalog {
	c := &Catalog{entries: make(map[DeviceKind]*DeviceSpec)}
	for _, spec := range builtinSpecs() {
		c.Register(spec)
	}
	return c
}

// Register adds a device kind to the catalog
func (c *Catalog) Register(spec DeviceSpec) {
	c.entries[spec.Kind] = &spec
}

// Get returns a device spec
func (c *Catalog) Get(kind DeviceKind) (*DeviceSpec, bool) {
	spec, ok := c.entries[kind]
	return spec, ok
}

// Kinds returns all registered kinds in catalog order
func (c *Catalog) Kinds() []DeviceKind {
	order := []DeviceKind{DeviceStraight, DeviceBent, DeviceCoupler, DeviceRacetrack, DeviceRectangular}
	var out []DeviceKind
	for _, k := range order {
		if _, ok := c.entries[k]; ok {
			out = append(out, k)
		}
	}
	for k := range c.entries {
		known := false
		for _, o := range order {
			if k == o {
				known = true
				break
			}
		}
		if !known {
			out = append(out, k)
		}
	}
	return out
}

// Resolve merges device attributes with catalog defaults, returning the
// final parameter values. Missing required parameters are reported by name.
func (c *Catalog) Resolve(kind DeviceKind, attrs Attributes) (map[string]float64, []string) {
	spec, ok := c.Get(kind)
	if !ok {
		return nil, []string{string(kind)}
	}

	values := make(map[string]float64, len(spec.Parameters))
	var missing []string
	for _, p := range spec.Parameters {
		if attrs.Has(p.Name) {
			values[p.Name] = attrs.GetFloat(p.Name)
			continue
		}
		if p.Required {
			missing = append(missing, p.Name)
			continue
		}
		values[p.Name] = p.Default
	}
	return values, missing
}

func builtinSpecs() []DeviceSpec {
	width := Parameter{Name: "width", Unit: "um", Default: 0.5, Description: "waveguide width"}
	thickness := Parameter{Name: "thickness", Unit: "um", Default: 0.2, Description: "waveguide thickness"}
	gap := Parameter{Name: "gap", Unit: "um", Default: 0.2, Description: "coupling gap"}
	radius := Parameter{Name: "radius", Unit: "um", Default: 5, Description: "bend radius"}
	couplerLength := Parameter{Name: "coupler_length", Unit: "um", Default: 5, Description: "straight coupling length"}

	return []DeviceSpec{
		{
			Kind:  DeviceStraight,
			Ports: 2,
			Parameters: []Parameter{
				width, thickness,
				{Name: "length", Unit: "um", Required: true, Description: "propagation length"},
			},
			Description: "straight waveguide segment",
		},
		{
			Kind:  DeviceBent,
			Ports: 2,
			Parameters: []Parameter{
				radius, width, thickness,
				{Name: "angle", Unit: "rad", Required: true, Description: "arc angle"},
			},
			Description: "circular waveguide bend",
		},
		{
			Kind:  DeviceCoupler,
			Ports: 4,
			Parameters: []Parameter{
				width, thickness, gap,
				{Name: "length", Unit: "um", Required: true, Description: "coupling length"},
			},
			Description: "evanescent directional coupler",
		},
		{
			Kind:        DeviceRacetrack,
			Ports:       4,
			Parameters:  []Parameter{radius, couplerLength, gap, width, thickness},
			Description: "racetrack ring resonator with two couplers",
		},
		{
			Kind:  DeviceRectangular,
			Ports: 4,
			Parameters: []Parameter{
				radius, couplerLength,
				{Name: "side_length", Unit: "um", Default: 5, Description: "straight side length"},
				gap, width, thickness,
			},
			Description: "rectangular ring resonator with straight sides",
		},
	}
}
