package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all fundburn configuration.
type Config struct {
	Data       DataConfig       `toml:"data"`
	Rates      RatesConfig      `toml:"rates"`
	Targets    TargetOverrides  `toml:"targets"`
	Exclusions ExclusionsConfig `toml:"exclusions"`
	Server     ServerConfig     `toml:"server"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// DataConfig locates the raw record snapshots and the cache.
type DataConfig struct {
	ProjectDir   string `toml:"project_dir,omitempty"`
	PaymentsPath string `toml:"payments_path"`
	PledgesPath  string `toml:"pledges_path"`
	CacheDir     string `toml:"cache_dir,omitempty"`
}

// RatesConfig holds exchange-rate service settings.
type RatesConfig struct {
	BaseURL        string `toml:"base_url"`
	Workers        int    `toml:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// ExclusionsConfig lists portfolios treated as internal transfers.
type ExclusionsConfig struct {
	InternalPortfolios []string `toml:"internal_portfolios"`
}

// ServerConfig holds settings for the JSON API.
type ServerConfig struct {
	Addr           string `toml:"addr"`
	RefreshMinutes int    `toml:"refresh_minutes"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultRatesURL is the historical exchange-rate service.
const DefaultRatesURL = "https://api.frankfurter.dev/v1"

// DefaultInternalPortfolios are the organization's own operating funds.
var DefaultInternalPortfolios = []string{
	"One for the World Discretionary Fund",
	"One for the World Operating Costs",
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Data: DataConfig{
			PaymentsPath: "one-for-the-world-payments.json",
			PledgesPath:  "one-for-the-world-pledges.json",
		},
		Rates: RatesConfig{
			BaseURL:        DefaultRatesURL,
			Workers:        10,
			TimeoutSeconds: 10,
		},
		Exclusions: ExclusionsConfig{
			InternalPortfolios: append([]string(nil), DefaultInternalPortfolios...),
		},
		Server: ServerConfig{
			Addr:           "127.0.0.1:8790",
			RefreshMinutes: 60,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "fundburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "fundburn")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// CacheDir returns the cache directory, honoring an explicit override.
func (c Config) CacheDir() string {
	if c.Data.CacheDir != "" {
		return c.Data.CacheDir
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fundburn")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "fundburn")
}

// CachePath returns the SQLite cache database path.
func (c Config) CachePath() string {
	return filepath.Join(c.CacheDir(), "fundburn.db")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is the user's own config location
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Rates.Workers <= 0 {
		cfg.Rates.Workers = 10
	}
	if cfg.Rates.TimeoutSeconds <= 0 {
		cfg.Rates.TimeoutSeconds = 10
	}
	if cfg.Rates.BaseURL == "" {
		cfg.Rates.BaseURL = DefaultRatesURL
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is the user's own config location
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// GetRatesURL returns the rate service URL from env var or config, in that order.
func GetRatesURL(cfg Config) string {
	if u := os.Getenv("FUNDBURN_RATES_URL"); u != "" {
		return u
	}
	return cfg.Rates.BaseURL
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
