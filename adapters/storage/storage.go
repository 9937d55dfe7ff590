// Package storage persists evaluation runs.
// Backends: in-memory, JSON files on disk, and sqlite.
package storage

import (
	"context"
	"encoding/json"
	"time"

	"photonic-sparam/core/output"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Store is the run storage interface
type Store interface {
	// Save stores an evaluation run
	Save(ctx context.Context, run *StoredRun) error

	// Get retrieves a run by ID
	Get(ctx context.Context, id string) (*StoredRun, error)

	// List lists runs matching the filter, newest first
	List(ctx context.Context, filter *ListFilter) ([]*StoredRun, error)

	// Delete removes a run
	Delete(ctx context.Context, id string) error

	// Close closes the store
	Close() error
}

// StoredRun is a persisted evaluation run
type StoredRun struct {
	// ID is the run identifier
	ID string `json:"id"`

	// Device is the evaluated device kind
	Device types.DeviceKind `json:"device"`

	// Name is the device instance name, if any
	Name string `json:"name,omitempty"`

	// Geometry echoes the resolved geometry parameters
	Geometry map[string]float64 `json:"geometry,omitempty"`

	// Points is the wavelength point count
	Points int `json:"points"`

	// Ports is the device port count
	Ports int `json:"ports"`

	// CreatedAt is when the run was stored
	CreatedAt time.Time `json:"created_at"`

	// Result is the full evaluation result payload
	Result json.RawMessage `json:"result,omitempty"`
}

// ListFilter narrows run listings
type ListFilter struct {
	// Device restricts to one device kind
	Device types.DeviceKind

	// Since excludes runs created before this time
	Since time.Time

	// Until excludes runs created after this time
	Until time.Time

	// Limit caps the number of returned runs, 0 means no cap
	Limit int

	// Offset skips that many runs after filtering
	Offset int
}

func (f *ListFilter) matches(run *StoredRun) bool {
	if f == nil {
		return true
	}
	if f.Device != "" && run.Device != f.Device {
		return false
	}
	if !f.Since.IsZero() && run.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && run.CreatedAt.After(f.Until) {
		return false
	}
	return true
}

func (f *ListFilter) window(runs []*StoredRun) []*StoredRun {
	if f == nil {
		return runs
	}
	if f.Offset > 0 {
		if f.Offset >= len(runs) {
			return nil
		}
		runs = runs[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(runs) {
		runs = runs[:f.Limit]
	}
	return runs
}

// FromResult wraps an evaluation result as a storable run
func FromResult(result *output.Result) (*StoredRun, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Storage("failed to marshal result payload", err)
	}
	return &StoredRun{
		ID:       result.RunID,
		Device:   result.Device,
		Name:     result.Name,
		Geometry: result.Geometry,
		Points:   len(result.Wavelengths),
		Ports:    result.Ports,
		Result:   payload,
	}, nil
}

// Open creates a store for the given backend
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		if path == "" {
			return nil, errors.Input("file backend requires a storage path")
		}
		return NewFileStore(path)
	case BackendSQLite:
		if path == "" {
			return nil, errors.Input("sqlite backend requires a database path")
		}
		return NewSQLiteStore(path)
	default:
		return nil, errors.Inputf("unsupported storage backend: %s", backend)
	}
}
