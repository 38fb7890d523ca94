// Package main is the entry point for the midi2ahap API server
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/james-see/midi2ahap/pkg/api"
	"github.com/james-see/midi2ahap/pkg/config"
)

func main() {
	port := flag.Int("port", 0, "Server port (default: AHAP_PORT or 8080)")
	envFile := flag.String("env", ".env", "Optional .env file")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if _, err := os.Stat(*envFile); err != nil {
		logger.Warn("no .env file found, using system environment variables", slog.String("file", *envFile))
	}
	cfg, err := config.Load(logger, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	fmt.Printf("Starting midi2ahap API server on port %d...\n", cfg.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Port)

	if err := api.StartServer(cfg, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
