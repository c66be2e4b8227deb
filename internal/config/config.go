// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package config loads operator-level settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Operator holds process-wide settings. Per-topic settings live in the
// KafkaTopic spec; spec fields take precedence over these defaults.
type Operator struct {
	// KafkaBroker is the default bootstrap server for KafkaTopic resources
	// that omit spec.bootstrapServer.
	KafkaBroker string `env:"APP__KAFKA__BROKER"`

	// DefaultRequeue is the steady-state poll interval.
	DefaultRequeue time.Duration `env:"APP__REQUEUE__DEFAULT" envDefault:"10s"`

	// ErrorRequeue is the retry delay after a failed reconciliation pass.
	ErrorRequeue time.Duration `env:"APP__REQUEUE__ERROR" envDefault:"5s"`
}

// Load reads a .env file when present and parses the environment into an
// Operator config.
func Load() (Operator, error) {
	// Missing .env is fine; the environment alone is a complete source.
	_ = godotenv.Load()

	var cfg Operator
	if err := env.Parse(&cfg); err != nil {
		return Operator{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	return cfg, nil
}
