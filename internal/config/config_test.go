package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvToken, EnvUserID, EnvAPIURL} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if !strings.HasPrefix(cfg.DataDir, home) {
		t.Fatalf("DataDir = %q, want it under HOME %q", cfg.DataDir, home)
	}
	if cfg.Store != "file" || cfg.RefreshInterval() != 30*time.Second || cfg.RequestTimeout() != 5*time.Second {
		t.Fatalf("cfg = %+v, want file store, 30s refresh, 5s timeout", cfg)
	}
	if !cfg.Credential().Anonymous() {
		t.Fatal("default credential is not anonymous")
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := writeConfig(t, `
api_url = "  10.0.0.5:9999  "
data_dir = "  ~/ramyun-data  "
store = "SQLite"
log_dir = "~/logs"
metrics_addr = "127.0.0.1:9464"
token = " abc "
user_id = "u-7"
refresh_seconds = 0
request_timeout_seconds = 12
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.5:9999" {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, "http://10.0.0.5:9999")
	}
	if cfg.DataDir != filepath.Join(home, "ramyun-data") {
		t.Fatalf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Store != "sqlite" || cfg.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("Store/MetricsAddr = %q/%q", cfg.Store, cfg.MetricsAddr)
	}
	if cfg.RefreshInterval() != 0 {
		t.Fatalf("RefreshInterval = %v, want 0 (disabled)", cfg.RefreshInterval())
	}
	if cfg.RequestTimeout() != 12*time.Second {
		t.Fatalf("RequestTimeout = %v, want 12s", cfg.RequestTimeout())
	}
	cred := cfg.Credential()
	if cred.Token != "abc" || cred.UserID != "u-7" {
		t.Fatalf("credential = %+v", cred)
	}
	if cfg.LogPath() != filepath.Join(home, "logs", "ramyun.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
api_url = "http://file.example:1"
token = "from-file"
`)
	t.Setenv(EnvToken, "from-env")
	t.Setenv(EnvUserID, "env-user")
	t.Setenv(EnvAPIURL, "https://api.example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Token != "from-env" || cfg.UserID != "env-user" || cfg.APIURL != "https://api.example.com" {
		t.Fatalf("cfg = %+v, want env values", cfg)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cases := map[string]string{
		"unknown store":     `store = "etcd"`,
		"redis without url": `store = "redis"`,
		"bad metrics addr":  `metrics_addr = "not a port"`,
		"timeout too large": `request_timeout_seconds = 999`,
		"negative refresh":  `refresh_seconds = -5`,
		"unparseable toml":  `api_url = `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("Load(%q) returned nil error", body)
			}
		})
	}
}

func TestLoad_RedisWithURL(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	clearEnv(t)

	cfg, err := Load(writeConfig(t, "store = \"redis\"\nredis_url = \"redis://localhost:6379/0\"\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Store != "redis" || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestExpandPath_HomeAndRelative(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/x/y")
	if err != nil || got != filepath.Join(home, "x", "y") {
		t.Fatalf("ExpandPath(~/x/y) = %q, %v", got, err)
	}
	if _, err := ExpandPath("  "); err == nil {
		t.Fatal("ExpandPath(blank) returned nil error")
	}
}
