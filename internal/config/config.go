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

	"gopkg.in/yaml.v3"

	"github.com/imkarma/taskdeck/internal/gateway"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// FileName is the config file inside the config dir.
	FileName = "config.yaml"

	// EnvBaseURL overrides base_url when set.
	EnvBaseURL = "TASKDECK_BASE_URL"

	// JournalOff disables the activity journal.
	JournalOff = "off"

	DefaultParallel    = 4
	DefaultSandboxAddr = "127.0.0.1:3000"
)

// Config is the root taskdeck configuration.
type Config struct {
	Version    int     `yaml:"version"`
	BaseURL    string  `yaml:"base_url"`
	TimeoutSec int     `yaml:"timeout_sec,omitempty"` // 0 = no client-side timeout
	LogLevel   string  `yaml:"log_level,omitempty"`   // debug, info, warn, error
	LogFormat  string  `yaml:"log_format,omitempty"`  // text (default) or json
	Journal    string  `yaml:"journal,omitempty"`     // sqlite path, "off" to disable
	Parallel   int     `yaml:"parallel,omitempty"`    // batch worker width (0 = default 4)
	Sandbox    Sandbox `yaml:"sandbox"`
}

// Sandbox configures the local reference backend.
type Sandbox struct {
	Addr string `yaml:"addr"`
	DB   string `yaml:"db,omitempty"`
}

// LogJSON reports whether diagnostics should be written as JSON lines.
func (c *Config) LogJSON() bool {
	return strings.EqualFold(c.LogFormat, "json")
}

// Timeout returns the per-request timeout, zero meaning none.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// Workers returns the effective batch width.
func (c *Config) Workers() int {
	if c.Parallel > 0 {
		return c.Parallel
	}
	return DefaultParallel
}

// JournalEnabled reports whether gateway calls should be journaled.
func (c *Config) JournalEnabled() bool {
	return c.Journal != JournalOff
}

// JournalPath returns the journal database path. A relative path is
// resolved against dir.
func (c *Config) JournalPath(dir string) string {
	return resolve(dir, c.Journal, "journal.db")
}

// SandboxDB returns the sandbox database path. A relative path is resolved
// against dir.
func (c *Config) SandboxDB(dir string) string {
	return resolve(dir, c.Sandbox.DB, "sandbox.db")
}

func resolve(dir, path, fallback string) string {
	switch {
	case path == "":
		return filepath.Join(dir, fallback)
	case filepath.IsAbs(path):
		return path
	}
	return filepath.Join(dir, path)
}

// DefaultDir returns the config directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultPath returns the config file path inside DefaultDir.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), FileName)
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields DefaultConfig.
// The bool reports whether the file existed.
func LoadOrDefault(path string) (*Config, bool, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, true, nil
}

// ApplyEnv overlays environment overrides onto cfg.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
		return c.Validate()
	}
	return nil
}

// Save writes the config to the given path, creating its directory.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultConfig returns a starter config pointing at the local backend.
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		BaseURL:  gateway.DefaultBaseURL,
		LogLevel: "info",
		Parallel: DefaultParallel,
		Sandbox:  Sandbox{Addr: DefaultSandboxAddr},
	}
}

// Validate checks field ranges and the base URL.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url: must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.TimeoutSec < 0 {
		return fmt.Errorf("timeout_sec: must not be negative, got %d", c.TimeoutSec)
	}
	if c.Parallel < 0 {
		return fmt.Errorf("parallel: must not be negative, got %d", c.Parallel)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level: unknown level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format: want text or json, got %q", c.LogFormat)
	}
	return nil
}
