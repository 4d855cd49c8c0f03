package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
providers:
  - provider: openai
    model_id: gpt-4o
    api_key_env: OPENAI_API_KEY
  - provider: anthropic
    model_id: claude
    api_key_env: ANTHROPIC_API_KEY
fallback_chain: [gpt-4o, claude]
job_boards:
  - name: boardA
    api_key_env: BOARDA_KEY
hr_providers:
  - name: hunterio
    api_key_env: HUNTER_KEY
storage:
  upload_dir: /tmp/uploads
  generated_dir: /tmp/generated
preferred_model: gpt-4o
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_ValidConfigParsesAndAppliesDefaults(t *testing.T) {
	path := writeTemp(t, validYAML)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Providers, 2)
	assert.Equal(t, 60, cfg.Providers[0].TimeoutSeconds)
	assert.Equal(t, 60*time.Second, cfg.ReplyWatcher.PollInterval)
	assert.Equal(t, "gpt-4o", cfg.PreferredModel)
}

func TestLoad_MissingFileReturnsErrConfigNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.ErrorIs(t, lerr, ErrConfigNotFound)
}

func TestLoad_EmptyProvidersFailsValidation(t *testing.T) {
	path := writeTemp(t, `
providers: []
fallback_chain: [gpt-4o]
storage:
  upload_dir: /tmp/a
  generated_dir: /tmp/b
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MissingStorageFailsValidation(t *testing.T) {
	path := writeTemp(t, `
providers:
  - provider: openai
    model_id: gpt-4o
    api_key_env: OPENAI_API_KEY
fallback_chain: [gpt-4o]
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_InvalidYAMLReturnsWrappedError(t *testing.T) {
	path := writeTemp(t, "providers: [this is not: valid: yaml: at: all")
	_, err := Load(path)
	require.Error(t, err)
}
