package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default values for configuration fields.
const (
	DefaultDriver        = "sqlite"
	DefaultTable         = "migrations"
	DefaultMigrationsDir = "./migrations"
	DefaultFormat        = FormatText
)

// Output formats accepted by the status command.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidConfig indicates a configuration value failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration loaded from file, environment, and flags.
type Config struct {
	Driver        string
	DatabaseURL   string
	Table         string
	MigrationsDir string
	Format        string
}

// yamlConfig is the raw YAML file representation.
type yamlConfig struct {
	Driver        string `yaml:"driver"`
	DatabaseURL   string `yaml:"database_url"`
	Table         string `yaml:"table"`
	MigrationsDir string `yaml:"migrations_dir"`
	Format        string `yaml:"format"`
}

// New returns a Config populated with default values.
func New() *Config {
	return &Config{
		Driver:        DefaultDriver,
		Table:         DefaultTable,
		MigrationsDir: DefaultMigrationsDir,
		Format:        DefaultFormat,
	}
}

// Load reads a YAML configuration file and returns a Config.
// If allowMissing is true and the file does not exist, defaults are returned.
func Load(path string, allowMissing bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && allowMissing {
			return New(), nil
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw yamlConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return fromYAML(&raw), nil
}

// fromYAML converts the raw YAML representation to a Config with defaults applied.
func fromYAML(raw *yamlConfig) *Config {
	cfg := New()

	override(&cfg.Driver, raw.Driver)
	override(&cfg.DatabaseURL, raw.DatabaseURL)
	override(&cfg.Table, raw.Table)
	override(&cfg.MigrationsDir, raw.MigrationsDir)
	override(&cfg.Format, raw.Format)

	return cfg
}

// MergeEnv overrides config fields from LEDGER_* environment variables.
func MergeEnv(cfg *Config) {
	override(&cfg.Driver, os.Getenv("LEDGER_DRIVER"))
	override(&cfg.DatabaseURL, os.Getenv("LEDGER_DATABASE_URL"))
	override(&cfg.Table, os.Getenv("LEDGER_TABLE"))
	override(&cfg.MigrationsDir, os.Getenv("LEDGER_MIGRATIONS_DIR"))
	override(&cfg.Format, os.Getenv("LEDGER_FORMAT"))
}

// Validate checks fields that have a fixed set of legal values.
// Driver names are checked when the database is opened.
func (c *Config) Validate() error {
	if c.Table == "" {
		return fmt.Errorf("%w: table must not be empty", ErrInvalidConfig)
	}

	if c.Format != FormatText && c.Format != FormatJSON {
		return fmt.Errorf("%w: format %q (want %s or %s)", ErrInvalidConfig, c.Format, FormatText, FormatJSON)
	}

	return nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
