package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Import  ImportConfig  `yaml:"import" envconfig:"IMPORT"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// ImportConfig contains default values applied to import requests that
// leave the corresponding option unset. DecimalDot false means numeric
// fields use ',' as decimal separator.
type ImportConfig struct {
	Delimiter      string `yaml:"delimiter" envconfig:"DELIMITER"`
	DecimalDot     bool   `yaml:"decimal_dot" envconfig:"DECIMAL_DOT"`
	DatetimeFormat string `yaml:"datetime_format" envconfig:"DATETIME_FORMAT"`
	Timezone       string `yaml:"timezone" envconfig:"TIMEZONE"`
}

// Load loads configuration with precedence env > config file > built-in
// defaults.
func Load() (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process("STATIMPORT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	// Load from config file if exists
	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	if envConfig.Logging.Level == "" {
		envConfig.Logging.Level = fileConfig.Logging.Level
	}
	if envConfig.Logging.Format == "" {
		envConfig.Logging.Format = fileConfig.Logging.Format
	}
	if envConfig.Logging.Output == "" {
		envConfig.Logging.Output = fileConfig.Logging.Output
	}
	if envConfig.Logging.FilePath == "" {
		envConfig.Logging.FilePath = fileConfig.Logging.FilePath
	}
	if envConfig.Import.Delimiter == "" {
		envConfig.Import.Delimiter = fileConfig.Import.Delimiter
	}
	if envConfig.Import.DatetimeFormat == "" {
		envConfig.Import.DatetimeFormat = fileConfig.Import.DatetimeFormat
	}
	if envConfig.Import.Timezone == "" {
		envConfig.Import.Timezone = fileConfig.Import.Timezone
	}
	envConfig.Import.DecimalDot = envConfig.Import.DecimalDot || fileConfig.Import.DecimalDot
	envConfig.Logging.Development = envConfig.Logging.Development || fileConfig.Logging.Development

	return envConfig
}

// applyDefaults fills remaining unset fields with built-in defaults
func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "console"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/statimport.log"
	}
	if c.Import.Delimiter == "" {
		c.Import.Delimiter = ";"
	}
	if c.Import.DatetimeFormat == "" {
		c.Import.DatetimeFormat = "%d.%m.%Y %H:%M"
	}
}

// getConfigFilePath returns the config file location, overridable via env
func getConfigFilePath() string {
	if path := os.Getenv("STATIMPORT_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks the configuration for invalid values
func (c *Config) validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format: %s", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %s", c.Logging.Output)
	}

	if len([]rune(c.Import.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Import.Delimiter)
	}

	return nil
}
