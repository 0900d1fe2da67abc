package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	require.NotEmpty(t, cfg.BaseURL)
	require.True(t, cfg.WithCredentials)
	require.Equal(t, 30, cfg.TimeoutSeconds)
	require.False(t, cfg.Offline)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "base_url = \"http://localhost:9999\"\noffline = true\ntimeout_seconds = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("FAQCHAT_CONFIG", path)
	t.Setenv("FAQCHAT_BASE_URL", "")
	t.Setenv("FAQCHAT_OFFLINE", "")
	t.Setenv("FAQCHAT_LOG_LEVEL", "")
	t.Setenv("FAQCHAT_TIMEOUT_SECONDS", "")
	t.Setenv("FAQCHAT_WITH_CREDENTIALS", "")

	cfg := Load()
	require.Equal(t, "http://localhost:9999", cfg.BaseURL)
	require.True(t, cfg.Offline)
	require.Equal(t, 5, cfg.TimeoutSeconds)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("base_url = \"http://localhost:9999\"\n"), 0o600))

	t.Setenv("FAQCHAT_CONFIG", path)
	t.Setenv("FAQCHAT_BASE_URL", "http://localhost:1234")
	t.Setenv("FAQCHAT_LOG_LEVEL", "debug")
	t.Setenv("FAQCHAT_TIMEOUT_SECONDS", "12")

	cfg := Load()
	require.Equal(t, "http://localhost:1234", cfg.BaseURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 12, cfg.TimeoutSeconds)
}

func TestTimeoutConversion(t *testing.T) {
	cfg := &Config{TimeoutSeconds: 7}
	require.Equal(t, "7s", cfg.Timeout().String())
}
