// Package config loads modernize settings from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Rules struct {
		File string `yaml:"file"` // "" uses the built-in rules
	} `yaml:"rules"`

	Output struct {
		DryRun bool `yaml:"dry_run"`
		Diff   bool `yaml:"diff"`
	} `yaml:"output"`

	Report struct {
		Format string `yaml:"format"` // "text"|"json"
	} `yaml:"report"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func Default() Config {
	var c Config
	c.Report.Format = "text"
	c.Logging.Format = "text"
	c.Logging.Level = "info"
	return c
}

// Load reads path over the defaults and applies MODERNIZE_* environment
// overrides. An empty path means no file; a named file that is missing or
// malformed is an error.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if v := os.Getenv("MODERNIZE_RULES_FILE"); v != "" {
		c.Rules.File = v
	}
	if v := os.Getenv("MODERNIZE_DRY_RUN"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.DryRun = b
		}
	}
	if v := os.Getenv("MODERNIZE_DIFF"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Output.Diff = b
		}
	}
	if v := os.Getenv("MODERNIZE_REPORT_FORMAT"); v != "" {
		c.Report.Format = v
	}
	if v := os.Getenv("MODERNIZE_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("MODERNIZE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}
