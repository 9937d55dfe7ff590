package output

import (
	"io"

	"photonic-sparam/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatCSV is one row per wavelength for spreadsheet import
	FormatCSV Format = "csv"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Registry manages formatter registration
type Registry struct {
	formatters map[Format]Formatter
}

// NewRegistry creates a registry with the built-in formatters
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	r.Register(&JSONFormatter{})
	r.Register(&CSVFormatter{})
	r.Register(&CLIFormatter{})
	return r
}

// Register adds a formatter, displacing any previous one for its format
func (r *Registry) Register(f Formatter) {
	r.formatters[f.Format()] = f
}

// Get returns a formatter for a format type
func (r *Registry) Get(format Format) (Formatter, bool) {
	f, ok := r.formatters[format]
	return f, ok
}

// Render looks up the format and renders the result
func (r *Registry) Render(w io.Writer, format Format, result *Result) error {
	f, ok := r.Get(format)
	if !ok {
		return errors.NotFound("output format", string(format))
	}
	return f.Render(w, result)
}

// Formats returns the registered format names
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.formatters))
	for _, f := range []Format{FormatCLI, FormatJSON, FormatCSV} {
		if _, ok := r.formatters[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
