package config

import (
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is passed explicitly into the adapters at construction. There is no
// ambient process-wide API base or credential mode.
type Config struct {
	BaseURL         string `toml:"base_url"`
	WithCredentials bool   `toml:"with_credentials"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	Offline         bool   `toml:"offline"`
	LogLevel        string `toml:"log_level"`
}

func Default() *Config {
	return &Config{
		BaseURL:         "https://498-ai-client.up.railway.app",
		WithCredentials: true,
		TimeoutSeconds:  30,
		LogLevel:        "info",
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

// configPath returns the config file location: FAQCHAT_CONFIG if set,
// otherwise ~/.config/faqchat/config.toml.
func configPath() string {
	if p := os.Getenv("FAQCHAT_CONFIG"); p != "" {
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "faqchat", "config.toml")
}

// Load builds the config: defaults, then the optional TOML file, then env
// overrides.
func Load() *Config {
	cfg := Default()

	if path := configPath(); path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				log.Fatalf("invalid config file %s: %v", path, err)
			}
		}
	}

	cfg.BaseURL = getEnv("FAQCHAT_BASE_URL", cfg.BaseURL)
	cfg.WithCredentials = getBoolEnv("FAQCHAT_WITH_CREDENTIALS", cfg.WithCredentials)
	cfg.Offline = getBoolEnv("FAQCHAT_OFFLINE", cfg.Offline)
	cfg.LogLevel = getEnv("FAQCHAT_LOG_LEVEL", cfg.LogLevel)
	if v := os.Getenv("FAQCHAT_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("FAQCHAT_TIMEOUT_SECONDS must be a positive integer, got %q", v)
		}
		cfg.TimeoutSeconds = n
	}

	// Minimal validation
	if cfg.BaseURL == "" {
		log.Fatal("base URL must not be empty")
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		log.Fatalf("invalid base URL %q: %v", cfg.BaseURL, err)
	}

	return cfg
}
