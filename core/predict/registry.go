package predict

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages long-lived predictor instances by model name.
// Predictors are registered once at startup and shared by all callers.
type Registry struct {
	mu         sync.RWMutex
	predictors map[string]Predictor
}

// NewRegistry creates an empty predictor registry
func NewRegistry() *Registry {
	return &Registry{
		predictors: make(map[string]Predictor),
	}
}

// Register adds a predictor under a model name
func (r *Registry) Register(name string, p Predictor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.predictors[name]; exists {
		return fmt.Errorf("predictor already registered: %s", name)
	}
	r.predictors[name] = p
	return nil
}

// Replace installs a predictor, displacing any existing registration.
// Used when configuration rebinds a well-known name to a loaded pack.
func (r *Registry) Replace(name string, p Predictor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.predictors[name] = p
}

// Lookup returns a predictor by model name
func (r *Registry) Lookup(name string) (Predictor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.predictors[name]
	return p, ok
}

// Names returns all registered model names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.predictors))
	for name := range r.predictors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global default registry
var defaultRegistry = NewRegistry()

// Register adds a predictor to the default registry
func Register(name string, p Predictor) error {
	return defaultRegistry.Register(name, p)
}

// Lookup returns a predictor from the default registry
func Lookup(name string) (Predictor, bool) {
	return defaultRegistry.Lookup(name)
}

// GetDefaultRegistry returns the default registry
func GetDefaultRegistry() *Registry {
	return defaultRegistry
}
