package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/ramyun/internal/session"
)

// Config holds ramyun's settings after defaults, environment overrides and
// validation have been applied.
type Config struct {
	APIURL                string `validate:"required,url"`
	DataDir               string `validate:"required"`
	Store                 string `validate:"oneof=file sqlite redis memory"`
	RedisURL              string `validate:"required_if=Store redis"`
	LogDir                string `validate:"required"`
	MetricsAddr           string `validate:"omitempty,hostname_port"`
	Token                 string
	UserID                string
	RefreshSeconds        int `validate:"gte=0,lte=3600"`
	RequestTimeoutSeconds int `validate:"gte=1,lte=120"`
	Debug                 bool
}

const (
	defaultConfigPath     = "~/.config/ramyun/config.toml"
	defaultAPIURL         = "http://127.0.0.1:8080"
	defaultDataDir        = "~/.local/share/ramyun"
	defaultLogDir         = "~/.local/state/ramyun"
	defaultStore          = "file"
	defaultRefreshSeconds = 30
	defaultRequestTimeout = 5
)

// Environment variables that override the file.
const (
	EnvToken  = "RAMYUN_TOKEN"
	EnvUserID = "RAMYUN_USER_ID"
	EnvAPIURL = "RAMYUN_API_URL"
)

var validate = validator.New()

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the config file at path (or the default path), falling back to
// defaults when it is missing, then applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIURL                string `toml:"api_url"`
		DataDir               string `toml:"data_dir"`
		Store                 string `toml:"store"`
		RedisURL              string `toml:"redis_url"`
		LogDir                string `toml:"log_dir"`
		MetricsAddr           string `toml:"metrics_addr"`
		Token                 string `toml:"token"`
		UserID                string `toml:"user_id"`
		RefreshSeconds        *int   `toml:"refresh_seconds"`
		RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
		Debug                 bool   `toml:"debug"`
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	cfg := Config{
		APIURL:                orDefault(raw.APIURL, defaultAPIURL),
		DataDir:               mustExpand(orDefault(raw.DataDir, defaultDataDir)),
		Store:                 strings.ToLower(orDefault(raw.Store, defaultStore)),
		RedisURL:              strings.TrimSpace(raw.RedisURL),
		LogDir:                mustExpand(orDefault(raw.LogDir, defaultLogDir)),
		MetricsAddr:           strings.TrimSpace(raw.MetricsAddr),
		Token:                 strings.TrimSpace(raw.Token),
		UserID:                strings.TrimSpace(raw.UserID),
		RefreshSeconds:        defaultRefreshSeconds,
		RequestTimeoutSeconds: raw.RequestTimeoutSeconds,
		Debug:                 raw.Debug,
	}
	if raw.RefreshSeconds != nil {
		cfg.RefreshSeconds = *raw.RefreshSeconds
	}
	if cfg.RequestTimeoutSeconds == 0 {
		cfg.RequestTimeoutSeconds = defaultRequestTimeout
	}

	applyEnv(&cfg)
	cfg.APIURL = normalizeURL(cfg.APIURL)

	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvToken); ok {
		cfg.Token = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvUserID); ok {
		cfg.UserID = strings.TrimSpace(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		cfg.APIURL = v
	}
}

// Credential builds the session credential from the configured token and
// user id.
func (c Config) Credential() session.Credential {
	return session.New(c.Token, c.UserID)
}

// RefreshInterval is the background refresh period; zero disables it.
func (c Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshSeconds) * time.Second
}

// RequestTimeout bounds each HTTP request.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LogPath returns the active log file path.
func (c Config) LogPath() string {
	return filepath.Join(c.LogDir, "ramyun.log")
}

func orDefault(v, def string) string {
	if trimmed := strings.TrimSpace(v); trimmed != "" {
		return trimmed
	}
	return def
}

func normalizeURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return "http://" + raw
	}
	return raw
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
