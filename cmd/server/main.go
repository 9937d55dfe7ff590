// Package main - Entry point for the photonic-sparam API server
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"photonic-sparam/adapters/storage"
	"photonic-sparam/api"
	"photonic-sparam/core/eval"
	"photonic-sparam/core/predict"
	"photonic-sparam/internal/config"
	"photonic-sparam/internal/logging"
	"photonic-sparam/models/analytic"
)

const version = "0.1.0"

func main() {
	addr := flag.String("addr", "", "server address (overrides config)")
	cfgFile := flag.String("config", "", "config file path")
	flag.Parse()

	cfg := config.Get()
	if *cfgFile != "" {
		loaded, err := config.Load(*cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	// Run store
	store, err := storage.Open(storage.Backend(cfg.Storage.Backend), cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run store: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Evaluation engine
	registry := predict.NewRegistry()
	if err := analytic.RegisterDefaults(registry); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering models: %v\n", err)
		os.Exit(1)
	}
	engine := eval.New(registry, store, version)
	if err := engine.BindModels(cfg.Models.Packs); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding coefficient packs: %v\n", err)
		os.Exit(1)
	}

	listenAddr := cfg.Server.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	fmt.Printf("photonic-sparam server v%s\n", version)
	fmt.Printf("   API: http://localhost%s\n", listenAddr)
	fmt.Println()

	server := api.NewServer(engine)
	if err := server.ListenAndServe(listenAddr); err != nil {
		logging.Fatal("server stopped", zap.Error(err))
	}
}
