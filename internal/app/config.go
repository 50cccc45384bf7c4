package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	WorkspacePath string // hcl file or directory

	// Runs is the number of times the compiled workspace is called.
	Runs int
	// Seed overrides the workspace's stream seed when set.
	Seed *int64

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkspacePath == "" {
		return nil, errors.New("WorkspacePath is a required configuration field and cannot be empty")
	}
	if cfg.Runs < 1 {
		return nil, fmt.Errorf("Runs must be at least 1, got %d", cfg.Runs)
	}
	return &cfg, nil
}
