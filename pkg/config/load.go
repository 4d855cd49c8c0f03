package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Load reads, parses, fills defaults into and validates the configuration
// file at path, in that order. It never reads credential values from the
// file — only environment-variable names; the values themselves are read
// from the process environment when a credential is checked or used, not
// here.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewLoadError(path, ErrConfigNotFound)
		}
		return nil, NewLoadError(path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("invalid YAML: %w", err))
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, NewLoadError(path, fmt.Errorf("validation failed: %w", err))
	}

	return &cfg, nil
}

// applyDefaults fills in the operational defaults SPEC_FULL.md §4.8/§4.1
// names (60-90s per-model timeout, 60s reply-watcher poll) when the file
// leaves them at zero.
func applyDefaults(cfg *Config) {
	for i := range cfg.Providers {
		if cfg.Providers[i].TimeoutSeconds == 0 {
			cfg.Providers[i].TimeoutSeconds = 60
		}
	}
	for i := range cfg.JobBoards {
		if cfg.JobBoards[i].TimeoutSeconds == 0 {
			cfg.JobBoards[i].TimeoutSeconds = 30
		}
	}
	if cfg.ReplyWatcher.PollInterval == 0 {
		cfg.ReplyWatcher.PollInterval = 60 * time.Second
	}
}
