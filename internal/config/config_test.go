package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CASEBRIDGE_HOME", home)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000/api", cfg.APIURL)
	assert.Equal(t, filepath.Join(home, "cache.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(home, "credential"), cfg.CredentialFile)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, time.Duration(0), cfg.RequestTimeout)
	assert.Equal(t, 3*time.Second, cfg.BannerTTL)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CASEBRIDGE_HOME", t.TempDir())
	t.Setenv("CASEBRIDGE_API_URL", "https://lex.example.com/api/")
	t.Setenv("CASEBRIDGE_REQUEST_TIMEOUT", "15s")
	t.Setenv("CASEBRIDGE_LOG_FORMAT", "json")
	t.Setenv("CASEBRIDGE_RATE_LIMIT_RPS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://lex.example.com/api", cfg.APIURL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 0.0, cfg.RateLimitRPS)
}

func TestLoad_ConfigFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("CASEBRIDGE_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"),
		[]byte("API_URL: http://backend.internal:8080\nBANNER_TTL: 5s\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://backend.internal:8080", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.BannerTTL)
}

func TestLoad_RejectsBadURL(t *testing.T) {
	t.Setenv("CASEBRIDGE_HOME", t.TempDir())
	t.Setenv("CASEBRIDGE_API_URL", "ftp://nope")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_URL")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RateLimitBurst = 0
	assert.Error(t, cfg.Validate())

	cfg.RateLimitRPS = 0
	assert.NoError(t, cfg.Validate())
}
