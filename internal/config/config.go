package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. CASEBRIDGE_API_URL.
const EnvPrefix = "CASEBRIDGE"

// Config holds all runtime settings for the casebridge client.
type Config struct {
	APIURL         string        `mapstructure:"API_URL"`
	Home           string        `mapstructure:"HOME"`
	DBPath         string        `mapstructure:"DB"`
	CredentialFile string        `mapstructure:"CREDENTIAL_FILE"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	LogFormat      string        `mapstructure:"LOG_FORMAT"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	BannerTTL      time.Duration `mapstructure:"BANNER_TTL"`
	MockSecret     string        `mapstructure:"MOCK_SECRET"`
	MockAddr       string        `mapstructure:"MOCK_ADDR"`
}

var keys = []string{
	"API_URL", "HOME", "DB", "CREDENTIAL_FILE", "LOG_LEVEL", "LOG_FORMAT",
	"REQUEST_TIMEOUT", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "BANNER_TTL",
	"MOCK_SECRET", "MOCK_ADDR",
}

// Load reads configuration from an optional .env file, the process
// environment and an optional config.yaml under the casebridge home.
// Environment wins over the file; unset values fall back to defaults.
func Load() (*Config, error) {
	// A missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	home, err := defaultHome()
	if err != nil {
		return nil, err
	}
	v.SetDefault("API_URL", "http://localhost:5000/api")
	v.SetDefault("HOME", home)
	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("REQUEST_TIMEOUT", "0s")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 5)
	v.SetDefault("BANNER_TTL", "3s")
	v.SetDefault("MOCK_SECRET", "casebridge-dev-secret")
	v.SetDefault("MOCK_ADDR", "127.0.0.1:5000")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	v.SetConfigFile(filepath.Join(v.GetString("HOME"), "config.yaml"))
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	home, _ := defaultHome()
	cfg := &Config{
		APIURL:         "http://localhost:5000/api",
		Home:           home,
		LogLevel:       "warn",
		LogFormat:      "console",
		RateLimitRPS:   5,
		RateLimitBurst: 5,
		BannerTTL:      3 * time.Second,
		MockSecret:     "casebridge-dev-secret",
		MockAddr:       "127.0.0.1:5000",
	}
	cfg.applyDerived()
	return cfg
}

func (c *Config) applyDerived() {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.Home, "cache.db")
	}
	if c.CredentialFile == "" {
		c.CredentialFile = filepath.Join(c.Home, "credential")
	}
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s_API_URL must be an http(s) URL, got %q", EnvPrefix, c.APIURL)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%s_REQUEST_TIMEOUT must not be negative", EnvPrefix)
	}
	if c.RateLimitRPS < 0 {
		return fmt.Errorf("%s_RATE_LIMIT_RPS must not be negative", EnvPrefix)
	}
	if c.RateLimitRPS > 0 && c.RateLimitBurst < 1 {
		return fmt.Errorf("%s_RATE_LIMIT_BURST must be at least 1 when rate limiting is on", EnvPrefix)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%s_LOG_FORMAT must be \"console\" or \"json\", got %q", EnvPrefix, c.LogFormat)
	}
	return nil
}

func defaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".casebridge"), nil
}
