// Package config provides configuration management for cxxpp.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
	"gopkg.in/yaml.v3"
)

// Config holds the cxxpp configuration.
type Config struct {
	// Source encoding label, "auto" to detect. Empty means UTF-8.
	Encoding string `yaml:"encoding,omitempty"`
	// Predefined object like macros, name to replacement text.
	Defines map[string]string `yaml:"defines,omitempty"`
	// Output format, "debug" or "text".
	Format string `yaml:"format,omitempty"`
	// Output file, empty or "-" for stdout.
	Output  string `yaml:"output,omitempty"`
	Debug   bool   `yaml:"debug,omitempty"`
	NoColor bool   `yaml:"no_color,omitempty"`
}

const (
	FormatDebug = "debug"
	FormatText  = "text"
)

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Format {
	case "", FormatDebug, FormatText:
	default:
		return errors.Errorf("format must be %q or %q, not %q", FormatDebug, FormatText, c.Format)
	}

	switch enc := strings.ToLower(strings.TrimSpace(c.Encoding)); enc {
	case "", "auto", "utf-8", "utf8":
	default:
		if e, _ := charset.Lookup(enc); e == nil {
			return errors.Errorf("unknown encoding %q", c.Encoding)
		}
	}

	for name := range c.Defines {
		if !isIdentifier(name) {
			return errors.Errorf("macro name %q is not an identifier", name)
		}
	}

	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// OutputFormat returns the configured format, defaulting to debug.
func (c *Config) OutputFormat() string {
	if c.Format == "" {
		return FormatDebug
	}
	return c.Format
}

// AddDefine records a -D style definition, NAME or NAME=VALUE.
// A bare NAME is defined to 1.
func (c *Config) AddDefine(def string) {
	name, value, ok := strings.Cut(def, "=")
	if !ok {
		value = "1"
	}
	if c.Defines == nil {
		c.Defines = make(map[string]string)
	}
	c.Defines[name] = value
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables override existing values only if set and non-empty.
func (c *Config) LoadFromEnv() {
	if enc := os.Getenv("CXXPP_ENCODING"); enc != "" {
		c.Encoding = enc
	}
	if out := os.Getenv("CXXPP_OUTPUT"); out != "" {
		c.Output = out
	}
	if format := os.Getenv("CXXPP_FORMAT"); format != "" {
		c.Format = format
	}
	if debug := os.Getenv("CXXPP_DEBUG"); debug != "" {
		if v, err := strconv.ParseBool(debug); err == nil {
			c.Debug = v
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.NoColor = true
	}
}

// DefaultConfigPath returns the default configuration file path.
func DefaultConfigPath() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "cxxpp", "config.yml")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".cxxpp", "config.yml")
	}

	return filepath.Join(home, ".config", "cxxpp", "config.yml")
}

// Save writes the configuration to the specified path.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// Load reads the configuration from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}

	return &cfg, nil
}

// LoadWithEnv loads configuration from file and overrides with environment variables.
// A missing file is not an error, a malformed one is.
func LoadWithEnv(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}
		cfg = &Config{}
	}

	cfg.LoadFromEnv()
	return cfg, nil
}
