// Package config resolves classquiz settings from defaults, a YAML file
// and CLASSQUIZ_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/classquiz/internal/api"
)

// Config holds all client configuration.
type Config struct {
	API api.Config `yaml:"api"`

	Auth AuthConfig `yaml:"auth"`

	Feedback FeedbackConfig `yaml:"feedback"`

	Log LogConfig `yaml:"log"`

	// DBPath overrides the local event database location.
	DBPath string `yaml:"db_path"`
}

// AuthConfig selects where the bearer and CSRF tokens come from.
type AuthConfig struct {
	AccessToken string `yaml:"access_token"`
	// TokenFile is read when AccessToken is empty.
	TokenFile string `yaml:"token_file"`
	CSRFToken string `yaml:"csrf_token"`
}

// FeedbackConfig lists the media cues played after an answer.
type FeedbackConfig struct {
	Correct []string `yaml:"correct"`
	Wrong   []string `yaml:"wrong"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Mode string `yaml:"mode"` // "dev" or "prod"
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: api.DefaultConfig(),
		Log: LogConfig{Mode: "dev"},
	}
}

// DefaultPath returns $CLASSQUIZ_CONFIG, or
// $XDG_CONFIG_HOME/classquiz/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("CLASSQUIZ_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "classquiz", "config.yaml")
}

// DefaultLogPath returns $XDG_STATE_HOME/classquiz/classquiz.log.
func DefaultLogPath() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "classquiz", "classquiz.log")
}

// Load builds a Config from defaults, then the YAML file at path (a
// missing file is not an error), then environment variables.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	applyEnv(&cfg)
	return cfg
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("CLASSQUIZ_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := envDuration("CLASSQUIZ_TIMEOUT"); v > 0 {
		cfg.API.Timeout = v
	}
	if v := envInt("CLASSQUIZ_RETRY_ATTEMPTS"); v > 0 {
		cfg.API.Retry.MaxAttempts = v
	}

	if v := os.Getenv("CLASSQUIZ_ACCESS_TOKEN"); v != "" {
		cfg.Auth.AccessToken = v
	}
	if v := os.Getenv("CLASSQUIZ_TOKEN_FILE"); v != "" {
		cfg.Auth.TokenFile = v
	}
	if v := os.Getenv("CLASSQUIZ_CSRF_TOKEN"); v != "" {
		cfg.Auth.CSRFToken = v
	}

	if v := csv("CLASSQUIZ_CORRECT_MEDIA"); len(v) > 0 {
		cfg.Feedback.Correct = v
	}
	if v := csv("CLASSQUIZ_WRONG_MEDIA"); len(v) > 0 {
		cfg.Feedback.Wrong = v
	}

	if v := os.Getenv("CLASSQUIZ_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := os.Getenv("CLASSQUIZ_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("CLASSQUIZ_DB"); v != "" {
		cfg.DBPath = v
	}
}

// Validate checks the settings needed to reach the server.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute URL", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url scheme %q is not http or https", u.Scheme)
	}
	if c.API.Retry.MaxAttempts < 1 {
		return fmt.Errorf("api.retry.max_attempts must be at least 1")
	}
	if c.API.Retry.Multiplier < 1 {
		return fmt.Errorf("api.retry.multiplier must be at least 1")
	}
	if c.Auth.AccessToken == "" && c.Auth.TokenFile == "" {
		return fmt.Errorf("CLASSQUIZ_ACCESS_TOKEN or auth.token_file is required")
	}
	return nil
}

// Credentials builds the API credentials described by the auth section.
func (c Config) Credentials() *api.TokenCredentials {
	if c.Auth.AccessToken != "" {
		return api.StaticCredentials(c.Auth.AccessToken, c.Auth.CSRFToken)
	}
	return api.FileCredentials(c.Auth.TokenFile, c.Auth.CSRFToken)
}

func envInt(key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0
	}
	return v
}

func envDuration(key string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0
	}
	return d
}

func csv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
