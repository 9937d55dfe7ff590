package cmd

import (
	"photonic-sparam/adapters/storage"
	"photonic-sparam/core/eval"
	"photonic-sparam/core/output"
	"photonic-sparam/core/predict"
	"photonic-sparam/internal/config"
	"photonic-sparam/models/analytic"
)

// newEngine builds an evaluation engine from the active configuration.
// A run store is opened only when withStore is set.
func newEngine(withStore bool) (*eval.Engine, func(), error) {
	registry := predict.NewRegistry()
	if err := analytic.RegisterDefaults(registry); err != nil {
		return nil, nil, err
	}

	closeStore := func() {}
	var store storage.Store
	if withStore {
		var err error
		store, err = openStore()
		if err != nil {
			return nil, nil, err
		}
		closeStore = func() { store.Close() }
	}

	return eval.New(registry, store, version), closeStore, nil
}

// openStore opens the run store named in the configuration
func openStore() (storage.Store, error) {
	cfg := config.Get()
	return storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.Path)
}

// newFormats builds the formatter registry with the configured CSV shape
func newFormats() *output.Registry {
	cfg := config.Get()
	formats := output.NewRegistry()
	formats.Register(&output.CSVFormatter{
		Precision: cfg.Output.Precision,
		OmitPhase: !cfg.Output.ShowPhase,
	})
	return formats
}
