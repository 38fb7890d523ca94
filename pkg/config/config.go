// Package config loads runtime defaults from the environment and an optional .env file
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvPort   = "AHAP_PORT"
	EnvAuthor = "AHAP_AUTHOR"
	EnvIndent = "AHAP_INDENT"
)

// DefaultPort is the API port when AHAP_PORT is unset
const DefaultPort = 8080

// Config holds defaults shared by the CLI and the API server
type Config struct {
	Port   int
	Author string // "Created By" metadata, empty keeps the converter default
	Indent bool
}

// Load reads .env files (default ".env") into the process environment and
// returns the resulting Config. A missing file is not an error.
func Load(logger *slog.Logger, filenames ...string) (Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := godotenv.Load(filenames...); err != nil {
		logger.Debug("no .env file found, using system environment variables", slog.Any("error", err))
	} else {
		logger.Debug("loaded environment variables from .env file")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment
func FromEnv() (Config, error) {
	cfg := Config{
		Port:   DefaultPort,
		Author: strings.TrimSpace(os.Getenv(EnvAuthor)),
	}

	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return cfg, fmt.Errorf("invalid %s: %q", EnvPort, v)
		}
		cfg.Port = port
	}

	if v := strings.TrimSpace(os.Getenv(EnvIndent)); v != "" {
		indent, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s: %q", EnvIndent, v)
		}
		cfg.Indent = indent
	}

	return cfg, nil
}
