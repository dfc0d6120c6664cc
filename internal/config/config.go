package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Config holds all budgetwise configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Ledger     LedgerConfig     `toml:"ledger"`
	Server     ServerConfig     `toml:"server"`
	Adjuster   AdjusterConfig   `toml:"adjuster"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	MonthlyIncome float64 `toml:"monthly_income,omitempty"`
	CatalogPath   string  `toml:"catalog_path,omitempty"`
}

// LedgerConfig holds transaction ledger settings.
type LedgerConfig struct {
	DBPath string `toml:"db_path,omitempty"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty"`
}

// AdjusterConfig controls which categories the adjuster may cut.
type AdjusterConfig struct {
	ReductionOrder []string `toml:"reduction_order"`
	MaxCycles      int      `toml:"max_cycles,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// Environment variables that override the config file.
const (
	EnvAddr   = "BUDGETWISE_ADDR"
	EnvIncome = "BUDGETWISE_INCOME"
	EnvDB     = "BUDGETWISE_DB"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:8790",
		},
		Adjuster: AdjusterConfig{
			ReductionOrder: []string{"Wants", "Needs"},
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetwise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "budgetwise")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// DataDir returns the XDG-compliant data directory.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "budgetwise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "budgetwise")
}

// LedgerPath returns the ledger database path, defaulting into DataDir.
func (c Config) LedgerPath() string {
	if c.Ledger.DBPath != "" {
		return c.Ledger.DBPath
	}
	return filepath.Join(DataDir(), "ledger.db")
}

// Income returns the configured monthly income.
func (c Config) Income() decimal.Decimal {
	return decimal.NewFromFloat(c.General.MonthlyIncome)
}

// Load reads the default config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // config path is chosen by the local user
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

// SaveTo writes the config to path.
func SaveTo(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // see LoadFrom
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// LoadDotEnv loads KEY=value pairs from each existing file into the
// process environment. Variables that are already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from the environment.
func ApplyEnv(cfg *Config) error {
	if addr := os.Getenv(EnvAddr); addr != "" {
		cfg.Server.Addr = addr
	}
	if db := os.Getenv(EnvDB); db != "" {
		cfg.Ledger.DBPath = db
	}
	if raw := os.Getenv(EnvIncome); raw != "" {
		income, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvIncome, err)
		}
		if !income.IsPositive() {
			return errors.New(EnvIncome + " must be positive")
		}
		cfg.General.MonthlyIncome = income.InexactFloat64()
	}
	return nil
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}
