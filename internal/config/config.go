package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type ServerConfig struct {
	Port         string   `toml:"port"`
	AllowOrigins []string `toml:"allow_origins"`
}

// EngineConfig holds the tunable constants of the resolve and merge
// engines. Defaults are applied by Load when a field is zero.
type EngineConfig struct {
	// DefaultYear is assumed for year-less absolute dates when no term
	// anchor is available.
	DefaultYear int `toml:"default_year"`
	// MaxTermWeeks bounds "Week N" references; larger week numbers
	// resolve to unresolved rather than a fabricated date.
	MaxTermWeeks int `toml:"max_term_weeks"`
	// WeightSplitTolerance is the percentage-point gap at which two
	// alias-merged members are split back into distinct events.
	WeightSplitTolerance float64 `toml:"weight_split_tolerance"`
	// UntilConflictToleranceDays is how far two recurrence end dates
	// may disagree before a conflict note is recorded.
	UntilConflictToleranceDays int `toml:"until_conflict_tolerance_days"`
}

type ExtractionConfig struct {
	// Prompt overrides the built-in extraction prompt when non-empty.
	Prompt string `toml:"prompt"`
}

type ConcurrencyConfig struct {
	// Normalize bounds the number of records normalized in parallel
	// within one request.
	Normalize int `toml:"normalize"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Server      ServerConfig      `toml:"server"`
	Engine      EngineConfig      `toml:"engine"`
	Extraction  ExtractionConfig  `toml:"extraction"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	// RulesPath points to an optional YAML file overriding the
	// built-in alias and classifier tables.
	RulesPath string `toml:"rules_path"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if len(c.Server.AllowOrigins) == 0 {
		c.Server.AllowOrigins = []string{"*"}
	}
	if c.Engine.DefaultYear == 0 {
		c.Engine.DefaultYear = 2026
	}
	if c.Engine.MaxTermWeeks == 0 {
		c.Engine.MaxTermWeeks = 26
	}
	if c.Engine.WeightSplitTolerance == 0 {
		c.Engine.WeightSplitTolerance = 5.0
	}
	if c.Engine.UntilConflictToleranceDays == 0 {
		c.Engine.UntilConflictToleranceDays = 7
	}
	if c.Concurrency.Normalize == 0 {
		c.Concurrency.Normalize = 8
	}
}

// Load reads a TOML config file and fills in defaults for unset fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}
