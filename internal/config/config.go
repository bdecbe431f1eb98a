// Package config loads the YAML configuration shared by all commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"quote-lab/internal/logging"
	"quote-lab/internal/svm"
)

// Config is the root configuration.
type Config struct {
	Log     logging.Config `yaml:"log"`
	SVM     svm.Config     `yaml:"svm"`
	Plot    PlotConfig     `yaml:"plot"`
	Storage StorageConfig  `yaml:"storage"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// PlotConfig controls the quote plot pipeline.
type PlotConfig struct {
	Columns      []string `yaml:"columns" default:"[\"BidPrice\",\"AskPrice\"]" validate:"min=1,dive,oneof=BidPrice AskPrice VWAP"`
	Trend        bool     `yaml:"trend"`
	Output       string   `yaml:"output" default:"quotes.png" validate:"required"`
	Title        string   `yaml:"title"`
	WidthInches  float64  `yaml:"width_inches" default:"10" validate:"gt=0"`
	HeightInches float64  `yaml:"height_inches" default:"6" validate:"gt=0"`
	OnAllMissing string   `yaml:"on_all_missing" default:"fail" validate:"oneof=fail skip"`
}

// StorageConfig selects the quote sample store. At most one DSN may be set.
type StorageConfig struct {
	PostgresDSN    string        `yaml:"postgres_dsn" validate:"omitempty,excluded_with=ClickhouseDSN"`
	ClickhouseDSN  string        `yaml:"clickhouse_dsn"`
	MaxConns       int32         `yaml:"max_conns" default:"4" validate:"min=1"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" default:"10s" validate:"gt=0"`
	Migrate        bool          `yaml:"migrate"`
}

// MetricsConfig controls run metrics publication.
type MetricsConfig struct {
	Pushgateway string `yaml:"pushgateway" validate:"omitempty,url"`
	Job         string `yaml:"job" default:"quote-lab" validate:"required"`
}

var validate = validator.New()

// Default returns the configuration with every default applied.
func Default() *Config {
	var c Config
	if err := defaults.Set(&c); err != nil {
		// Tags are static; a failure here is a programming error.
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return &c
}

// Load reads and parses a YAML configuration file over the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("QUOTE_LAB_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("QUOTE_LAB_POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("QUOTE_LAB_CLICKHOUSE_DSN"); v != "" {
		c.Storage.ClickhouseDSN = v
	}
	if v := os.Getenv("QUOTE_LAB_PUSHGATEWAY"); v != "" {
		c.Metrics.Pushgateway = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msgs = append(msgs, errorMessage(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func errorMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "eq":
		return fmt.Sprintf("%s must equal %s", field, fe.Param())
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "excluded_with":
		return fmt.Sprintf("%s cannot be combined with %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
