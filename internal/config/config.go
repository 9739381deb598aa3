package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"goeda/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. GOEDA_ENGINE_Z_THRESHOLD
const EnvPrefix = "GOEDA"

// Config represents the complete application configuration
type Config struct {
	Engine   EngineConfig `mapstructure:"engine" yaml:"engine"`
	Input    InputConfig  `mapstructure:"input" yaml:"input"`
	Server   ServerConfig `mapstructure:"server" yaml:"server"`
	LogLevel string       `mapstructure:"log_level" yaml:"log_level"`
}

// EngineConfig holds the statistical thresholds
type EngineConfig struct {
	ZThreshold      float64 `mapstructure:"z_threshold" yaml:"z_threshold"`
	IQRMultiplier   float64 `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier"`
	ConfidenceLevel float64 `mapstructure:"confidence_level" yaml:"confidence_level"`
	Clusters        int     `mapstructure:"clusters" yaml:"clusters"`
	MaxIterations   int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	// ReplacementIncludesOutliers makes mean/median outlier replacement use every value
	ReplacementIncludesOutliers bool `mapstructure:"replacement_includes_outliers" yaml:"replacement_includes_outliers"`
}

// InputConfig holds file parsing settings
type InputConfig struct {
	ColumnSeparator  string `mapstructure:"column_separator" yaml:"column_separator"`
	DecimalSeparator string `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	Sheet            string `mapstructure:"sheet" yaml:"sheet"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
}

// Default returns the built-in configuration without reading files or the environment
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			ZThreshold:                  3,
			IQRMultiplier:               1.5,
			ConfidenceLevel:             0.95,
			Clusters:                    2,
			MaxIterations:               100,
			ReplacementIncludesOutliers: true,
		},
		Input: InputConfig{
			ColumnSeparator:  ";",
			DecimalSeparator: ",",
			Sheet:            "Sheet1",
		},
		Server:   ServerConfig{Port: "8080"},
		LogLevel: "INFO",
	}
}

// Load reads configuration from defaults, an optional YAML file and the environment.
// Precedence: env > config file > defaults. A .env file in the working directory is loaded first.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "failed to load .env")
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", cfgFile)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, err)
	}

	// Unprefixed variables shared with other tooling
	cfg.LogLevel = getEnvOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.Server.Port = getEnvOrDefault("PORT", cfg.Server.Port)

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("engine.z_threshold", d.Engine.ZThreshold)
	v.SetDefault("engine.iqr_multiplier", d.Engine.IQRMultiplier)
	v.SetDefault("engine.confidence_level", d.Engine.ConfidenceLevel)
	v.SetDefault("engine.clusters", d.Engine.Clusters)
	v.SetDefault("engine.max_iterations", d.Engine.MaxIterations)
	v.SetDefault("engine.replacement_includes_outliers", d.Engine.ReplacementIncludesOutliers)
	v.SetDefault("input.column_separator", d.Input.ColumnSeparator)
	v.SetDefault("input.decimal_separator", d.Input.DecimalSeparator)
	v.SetDefault("input.sheet", d.Input.Sheet)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("log_level", d.LogLevel)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Engine.ZThreshold <= 0 {
		return errors.ConfigInvalid("engine.z_threshold must be positive")
	}
	if c.Engine.IQRMultiplier <= 0 {
		return errors.ConfigInvalid("engine.iqr_multiplier must be positive")
	}
	if c.Engine.ConfidenceLevel <= 0 || c.Engine.ConfidenceLevel >= 1 {
		return errors.ConfigInvalid("engine.confidence_level must be between 0 and 1")
	}
	if c.Engine.Clusters < 1 {
		return errors.ConfigInvalid("engine.clusters must be at least 1")
	}
	if c.Engine.MaxIterations < 1 {
		return errors.ConfigInvalid("engine.max_iterations must be at least 1")
	}
	if len([]rune(c.Input.ColumnSeparator)) != 1 {
		return errors.ConfigInvalid("input.column_separator must be a single character")
	}
	if c.Input.DecimalSeparator != "." && c.Input.DecimalSeparator != "," {
		return errors.ConfigInvalid("input.decimal_separator must be '.' or ','")
	}
	if c.Input.ColumnSeparator == c.Input.DecimalSeparator {
		return errors.ConfigInvalid("column and decimal separators must differ")
	}
	if _, err := strconv.Atoi(c.Server.Port); err != nil {
		return errors.ConfigInvalid("server.port must be numeric")
	}
	return nil
}

// YAML renders the configuration as YAML
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
