package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderStatus_ReflectsEnvironment(t *testing.T) {
	t.Setenv("PRESENT_KEY", "sk-test")
	cfg := &Config{Providers: []ProviderConfig{
		{ModelID: "m1", APIKeyEnv: "PRESENT_KEY"},
		{ModelID: "m2", APIKeyEnv: "ABSENT_KEY"},
	}}
	_ = os.Unsetenv("ABSENT_KEY")

	status := cfg.ProviderStatus()
	assert.True(t, status["m1"].Configured)
	assert.False(t, status["m2"].Configured)
	assert.NotEmpty(t, status["m2"].Reason)
}

func TestMailerStatus_UnconfiguredWhenEnvVarsUnset(t *testing.T) {
	cfg := &Config{Mailer: MailerConfig{}}
	assert.False(t, cfg.MailerStatus().Configured)
}

func TestMailerStatus_ConfiguredWhenBothPresent(t *testing.T) {
	t.Setenv("MAILER_ID", "id")
	t.Setenv("MAILER_SECRET", "secret")
	cfg := &Config{Mailer: MailerConfig{ClientIDEnv: "MAILER_ID", ClientSecretEnv: "MAILER_SECRET"}}
	assert.True(t, cfg.MailerStatus().Configured)
}

func TestJobBoardStatus_NoCredentialRequiredIsConfigured(t *testing.T) {
	cfg := &Config{JobBoards: []JobBoardConfig{{Name: "free-board"}}}
	assert.True(t, cfg.JobBoardStatus()["free-board"].Configured)
}
