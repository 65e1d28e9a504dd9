package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/academydays/hubby/internal/lang"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (HUBBY_*). Nested keys use a double
// underscore: HUBBY_SOURCE__MODE -> source.mode.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider("HUBBY_", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.applyDefaults()

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, "HUBBY_"))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	switch c.Source.Mode {
	case SourceStatic:
		if c.Source.StaticPath == "" {
			return fmt.Errorf("source.static_path is required in static mode")
		}
	case SourceSpreadsheet:
		if c.Source.SpreadsheetURL == "" {
			return fmt.Errorf("source.spreadsheet_url is required in spreadsheet mode")
		}
	default:
		return fmt.Errorf("invalid source.mode %q: must be one of static, spreadsheet", c.Source.Mode)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.TypingDelayMS < 0 {
		return fmt.Errorf("typing_delay_ms must be non-negative")
	}
	if !lang.Valid(c.DefaultLanguage) {
		return fmt.Errorf("invalid default_language %q: must be fr or en", c.DefaultLanguage)
	}
	for _, l := range lang.All {
		if _, ok := c.UI[string(l)]; !ok {
			return fmt.Errorf("ui text for %q is required", l)
		}
	}

	if len(c.Days) == 0 {
		return fmt.Errorf("at least one day is required")
	}
	seen := map[string]bool{}
	for _, d := range c.Days {
		if d.ID == "" {
			return fmt.Errorf("day id is required")
		}
		if seen[d.ID] {
			return fmt.Errorf("duplicate day id %q", d.ID)
		}
		seen[d.ID] = true
	}

	if len(c.Actions) == 0 {
		return fmt.Errorf("at least one action is required")
	}
	seen = map[string]bool{}
	for _, a := range c.Actions {
		if a.ID == "" {
			return fmt.Errorf("action id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate action id %q", a.ID)
		}
		seen[a.ID] = true
	}

	return nil
}

// TypingDelay returns the artificial delay before a bot bubble is shown.
func (c *Config) TypingDelay() time.Duration {
	return time.Duration(c.TypingDelayMS) * time.Millisecond
}
