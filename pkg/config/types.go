// Package config loads and validates the process configuration: the model
// provider pool, job-board and HR-lookup adapter credentials, mailer
// settings and reply-watcher cadence. Grounded on the teacher's (now
// deleted) pkg/config package: a YAML file parsed with gopkg.in/yaml.v3,
// struct-tag validated with github.com/go-playground/validator/v10, and an
// environment-variable overlay for anything secret. Credentials are never
// read from the YAML file itself — only the name of the environment
// variable that holds them — so a credential never round-trips through a
// config file on disk (SPEC_FULL.md §6.1).
package config

import "time"

// Config is the fully loaded, validated process configuration.
type Config struct {
	Providers      []ProviderConfig   `yaml:"providers" validate:"required,min=1,dive"`
	FallbackChain  []string           `yaml:"fallback_chain" validate:"required,min=1"`
	JobBoards      []JobBoardConfig   `yaml:"job_boards" validate:"dive"`
	HRProviders    []HRProviderConfig `yaml:"hr_providers" validate:"dive"`
	Mailer         MailerConfig       `yaml:"mailer"`
	ReplyWatcher   ReplyWatcherConfig `yaml:"reply_watcher"`
	Storage        StorageConfig      `yaml:"storage" validate:"required"`
	PreferredModel string             `yaml:"preferred_model"`
}

// ProviderConfig is one entry in the LLM model pool (SPEC_FULL.md §4.1,
// teacher's pkg/config/llm.go LLMProviderConfig widened with an RPD limit
// since the domain's quota ledger is per-model, not global).
type ProviderConfig struct {
	Provider       string `yaml:"provider" validate:"required"`
	ModelID        string `yaml:"model_id" validate:"required"`
	APIKeyEnv      string `yaml:"api_key_env" validate:"required"`
	BaseURL        string `yaml:"base_url,omitempty"`
	RPD            int64  `yaml:"rpd,omitempty" validate:"gte=0"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
}

// JobBoardConfig is one job-board aggregation adapter (C4). A board with no
// credential configured is skipped, not an error (SPEC_FULL.md §4.4).
type JobBoardConfig struct {
	Name           string `yaml:"name" validate:"required"`
	APIKeyEnv      string `yaml:"api_key_env,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"gte=0"`
}

// HRProviderConfig is one ordered HR-contact lookup provider (C5).
type HRProviderConfig struct {
	Name      string `yaml:"name" validate:"required"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
}

// MailerConfig carries the OAuth client identifiers for outbound mail send
// (§6.1: "mailer OAuth client id/secret env vars, mail send optional").
type MailerConfig struct {
	ClientIDEnv     string `yaml:"client_id_env,omitempty"`
	ClientSecretEnv string `yaml:"client_secret_env,omitempty"`
	SenderAddress   string `yaml:"sender_address,omitempty"`
}

// ReplyWatcherConfig controls C8's polling cadence.
type ReplyWatcherConfig struct {
	PollInterval time.Duration `yaml:"poll_interval" validate:"gte=0"`
}

// StorageConfig names the upload and generated-file directories (§6.1).
type StorageConfig struct {
	UploadDir    string `yaml:"upload_dir" validate:"required"`
	GeneratedDir string `yaml:"generated_dir" validate:"required"`
}
