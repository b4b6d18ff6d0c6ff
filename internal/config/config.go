package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds storefront client settings.
type Config struct {
	APIBase        string
	CatalogFile    string
	Storage        string
	DataDir        string
	LogFile        string
	SearchDebounce time.Duration
	SearchMinChars int
	CatalogRefresh time.Duration
	Currency       string
}

const (
	defaultConfigPath       = "~/.config/nurye/config.toml"
	defaultAPIBase          = "127.0.0.1:3000"
	defaultStorage          = "file"
	defaultDataDir          = "~/.local/share/nurye"
	defaultLogName          = "nurye.log"
	defaultSearchDebounceMS = 300
	defaultSearchMinChars   = 2
	defaultCatalogRefreshS  = 60
	defaultCurrency         = "ETB"
)

// Environment variables that override file values.
const (
	EnvAPIBase     = "NURYE_API_BASE"
	EnvStorage     = "NURYE_STORAGE"
	EnvCatalogFile = "NURYE_CATALOG_FILE"
)

type rawConfig struct {
	APIBase          string `toml:"api_base"`
	CatalogFile      string `toml:"catalog_file"`
	Storage          string `toml:"storage"`
	DataDir          string `toml:"data_dir"`
	LogFile          string `toml:"log_file"`
	SearchDebounceMS int    `toml:"search_debounce_ms"`
	SearchMinChars   int    `toml:"search_min_chars"`
	CatalogRefreshS  int    `toml:"catalog_refresh_s"`
	Currency         string `toml:"currency"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg, _ := build(rawConfig{})
	return cfg
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when it
// is missing. Environment overrides are applied last.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&raw)
	return build(raw)
}

func applyEnvOverrides(raw *rawConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		raw.APIBase = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorage)); v != "" {
		raw.Storage = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCatalogFile)); v != "" {
		raw.CatalogFile = v
	}
}

func build(raw rawConfig) (Config, error) {
	cfg := Config{
		APIBase:  strings.TrimSpace(raw.APIBase),
		Storage:  strings.ToLower(strings.TrimSpace(raw.Storage)),
		Currency: strings.ToUpper(strings.TrimSpace(raw.Currency)),
	}
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	if cfg.Storage == "" {
		cfg.Storage = defaultStorage
	}
	switch cfg.Storage {
	case "file", "sqlite", "memory":
	default:
		return Config{}, fmt.Errorf("invalid storage %q: want file, sqlite or memory", raw.Storage)
	}
	if cfg.Currency == "" {
		cfg.Currency = defaultCurrency
	}

	dataDir := strings.TrimSpace(raw.DataDir)
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	cfg.DataDir = mustExpand(dataDir)

	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	} else {
		cfg.LogFile = filepath.Join(cfg.DataDir, defaultLogName)
	}
	if catalogFile := strings.TrimSpace(raw.CatalogFile); catalogFile != "" {
		cfg.CatalogFile = mustExpand(catalogFile)
	}

	debounceMS := raw.SearchDebounceMS
	if debounceMS <= 0 {
		debounceMS = defaultSearchDebounceMS
	}
	cfg.SearchDebounce = time.Duration(debounceMS) * time.Millisecond

	cfg.SearchMinChars = raw.SearchMinChars
	if cfg.SearchMinChars <= 0 {
		cfg.SearchMinChars = defaultSearchMinChars
	}

	refreshS := raw.CatalogRefreshS
	if refreshS <= 0 {
		refreshS = defaultCatalogRefreshS
	}
	cfg.CatalogRefresh = time.Duration(refreshS) * time.Second

	return cfg, nil
}

// UsesFixture reports whether the catalog is served from a local file.
func (c Config) UsesFixture() bool {
	return strings.TrimSpace(c.CatalogFile) != ""
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
