package config

import "os"

// CredentialStatus is the ProviderCredentialStatus entity named in
// SPEC_FULL.md §3.1, surfaced by the Observability routes so a user can see
// which adapters are actually active without leaking the credential value
// itself — grounded in original_source/core/llm_router.py's MODEL_CONFIGS,
// which gates each model on an API-key environment variable being set.
type CredentialStatus struct {
	Configured bool   `json:"configured"`
	Reason     string `json:"reason,omitempty"`
}

// credentialed reports whether the environment variable named by envVar
// holds a non-empty value. An empty envVar name means the adapter requires
// no credential at all (always configured).
func credentialed(envVar string) CredentialStatus {
	if envVar == "" {
		return CredentialStatus{Configured: true}
	}
	if v := os.Getenv(envVar); v != "" {
		return CredentialStatus{Configured: true}
	}
	return CredentialStatus{Configured: false, Reason: "environment variable " + envVar + " is not set"}
}

// ProviderStatus reports each configured model provider's credential state,
// keyed by model id.
func (c *Config) ProviderStatus() map[string]CredentialStatus {
	out := make(map[string]CredentialStatus, len(c.Providers))
	for _, p := range c.Providers {
		out[p.ModelID] = credentialed(p.APIKeyEnv)
	}
	return out
}

// JobBoardStatus reports each job board adapter's credential state, keyed
// by adapter name.
func (c *Config) JobBoardStatus() map[string]CredentialStatus {
	out := make(map[string]CredentialStatus, len(c.JobBoards))
	for _, b := range c.JobBoards {
		out[b.Name] = credentialed(b.APIKeyEnv)
	}
	return out
}

// HRProviderStatus reports each HR-lookup adapter's credential state, keyed
// by adapter name.
func (c *Config) HRProviderStatus() map[string]CredentialStatus {
	out := make(map[string]CredentialStatus, len(c.HRProviders))
	for _, p := range c.HRProviders {
		out[p.Name] = credentialed(p.APIKeyEnv)
	}
	return out
}

// MailerStatus reports whether the mailer's OAuth client credentials are
// present. Mail send is optional (§6.1): absence disables sending without
// erroring.
func (c *Config) MailerStatus() CredentialStatus {
	if c.Mailer.ClientIDEnv == "" || c.Mailer.ClientSecretEnv == "" {
		return CredentialStatus{Configured: false, Reason: "mailer OAuth client id/secret not configured"}
	}
	id := credentialed(c.Mailer.ClientIDEnv)
	if !id.Configured {
		return id
	}
	return credentialed(c.Mailer.ClientSecretEnv)
}
