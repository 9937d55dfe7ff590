// Package scanner defines the interface for circuit scanners.
// Scanners parse circuit definition files into RawDevice descriptors.
// NO photonics math belongs here.
package scanner

import (
	"context"

	"photonic-sparam/core/sweep"
	"photonic-sparam/core/types"
	"photonic-sparam/internal/errors"
)

// Scanner parses circuit definitions into raw devices
type Scanner interface {
	// Name returns the scanner identifier
	Name() string

	// CanScan determines if this scanner can handle the path
	CanScan(ctx context.Context, path string) (bool, error)

	// Scan parses the path and returns raw devices
	Scan(ctx context.Context, path string) (*ScanResult, error)
}

// ScanResult contains the output of a scan operation
type ScanResult struct {
	// Devices are the parsed device blocks
	Devices []types.RawDevice `json:"devices"`

	// Sweeps are named wavelength sweeps declared alongside devices
	Sweeps map[string]sweep.Sweep `json:"sweeps,omitempty"`

	// Models maps predictor names to coefficient pack paths
	Models map[string]string `json:"models,omitempty"`

	// Warnings are non-fatal issues encountered
	Warnings []ScanWarning `json:"warnings,omitempty"`

	// Errors are parsing errors
	Errors []ScanError `json:"errors,omitempty"`
}

// ScanWarning represents a non-fatal scanning issue
type ScanWarning struct {
	// File is the file where the warning occurred
	File string `json:"file"`

	// Line is the line number
	Line int `json:"line,omitempty"`

	// Message describes the warning
	Message string `json:"message"`
}

// ScanError represents a scanning error
type ScanError struct {
	// File is the file where the error occurred
	File string `json:"file"`

	// Line is the line number
	Line int `json:"line,omitempty"`

	// Message describes the error
	Message string `json:"message"`
}

// Error implements the error interface
func (e ScanError) Error() string {
	return e.Message
}

// HasErrors returns true if there are any errors
func (r *ScanResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ScanResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err collapses accumulated scan errors into a single parse error,
// or nil if the scan was clean
func (r *ScanResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	first := r.Errors[0]
	return errors.Newf(errors.TypeParsing, "%d parse error(s), first at %s:%d: %s",
		len(r.Errors), first.File, first.Line, first.Message)
}
