package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/imkarma/taskdeck/internal/gateway"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BaseURL != gateway.DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", cfg.BaseURL)
	}
	if cfg.Timeout() != 0 {
		t.Fatalf("expected no timeout by default, got %v", cfg.Timeout())
	}
	if cfg.Workers() != DefaultParallel {
		t.Fatalf("expected %d workers, got %d", DefaultParallel, cfg.Workers())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, FileName)
	data := `version: 1
base_url: http://tasks.internal:8080/
timeout_sec: 15
log_level: debug
journal: off
parallel: 8
sandbox:
  addr: 127.0.0.1:4000
`
	os.WriteFile(p, []byte(data), 0644)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "http://tasks.internal:8080/" {
		t.Fatalf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.Timeout() != 15*time.Second {
		t.Fatalf("expected 15s timeout, got %v", cfg.Timeout())
	}
	if cfg.JournalEnabled() {
		t.Fatal("expected journal disabled")
	}
	if cfg.Workers() != 8 {
		t.Fatalf("expected 8 workers, got %d", cfg.Workers())
	}
	if cfg.Sandbox.Addr != "127.0.0.1:4000" {
		t.Fatalf("unexpected sandbox addr %q", cfg.Sandbox.Addr)
	}
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(p, []byte("timeout_sec: 3\n"), 0644)

	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != gateway.DefaultBaseURL || cfg.Sandbox.Addr != DefaultSandboxAddr {
		t.Fatalf("expected defaults kept, got %+v", cfg)
	}
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(p, []byte("base_url: localhost:3000\n"), 0644)

	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for scheme-less base url")
	}
}

func TestLoad_NegativeTimeout(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(p, []byte("timeout_sec: -1\n"), 0644)

	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for negative timeout")
	}
}

func TestLoad_UnknownLogLevel(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(p, []byte("log_level: chatty\n"), 0644)

	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for unknown log level")
	}
}

func TestLoad_LogFormat(t *testing.T) {
	p := filepath.Join(t.TempDir(), FileName)
	os.WriteFile(p, []byte("log_format: JSON\n"), 0644)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.LogJSON() {
		t.Fatal("expected json log format")
	}

	os.WriteFile(p, []byte("log_format: xml\n"), 0644)
	if _, err := Load(p); err == nil {
		t.Fatal("expected validation error for unknown log format")
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	cfg, found, err := LoadOrDefault(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found {
		t.Fatal("expected found=false")
	}
	if cfg.BaseURL != gateway.DefaultBaseURL {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestSave_And_Reload(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := DefaultConfig()
	cfg.BaseURL = "https://example.com"
	cfg.TimeoutSec = 30
	cfg.Sandbox.DB = "/tmp/sb.db"

	if err := Save(p, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(p)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.BaseURL != "https://example.com" || loaded.TimeoutSec != 30 {
		t.Fatalf("fields lost after round-trip: %+v", loaded)
	}
	if loaded.SandboxDB("ignored") != "/tmp/sb.db" {
		t.Fatalf("sandbox db lost: %q", loaded.SandboxDB("ignored"))
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvBaseURL, "http://override:9000")
	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.BaseURL != "http://override:9000" {
		t.Fatalf("expected env override, got %q", cfg.BaseURL)
	}

	t.Setenv(EnvBaseURL, "not a url")
	if err := DefaultConfig().ApplyEnv(); err == nil {
		t.Fatal("expected invalid override rejected")
	}
}

func TestDefaultDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultDir(); got != filepath.Join("/xdg", AppName) {
		t.Fatalf("unexpected dir %q", got)
	}
	if got := DefaultPath(); got != filepath.Join("/xdg", AppName, FileName) {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestDerivedPaths(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.JournalPath("/cfg"); got != filepath.Join("/cfg", "journal.db") {
		t.Fatalf("unexpected journal path %q", got)
	}
	if got := cfg.SandboxDB("/cfg"); got != filepath.Join("/cfg", "sandbox.db") {
		t.Fatalf("unexpected sandbox path %q", got)
	}
	if !cfg.JournalEnabled() {
		t.Fatal("journal should be on by default")
	}
}

func TestDerivedPaths_RelativeToConfigDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Journal = "data/journal.db"
	cfg.Sandbox.DB = "/abs/sandbox.db"
	if got := cfg.JournalPath("/cfg"); got != filepath.Join("/cfg", "data", "journal.db") {
		t.Fatalf("relative journal should resolve against the config dir, got %q", got)
	}
	if got := cfg.SandboxDB("/cfg"); got != "/abs/sandbox.db" {
		t.Fatalf("absolute sandbox db should be kept, got %q", got)
	}
}
