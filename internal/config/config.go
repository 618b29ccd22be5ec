package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "researchblocks.yaml"

var (
	ErrInvalidProvider = errors.New("invalid AI provider")
	ErrInvalidFormat   = errors.New("invalid output format")
	ErrInvalidLevel    = errors.New("invalid log level")
)

var (
	ValidProviders = []string{"off", "gemini"}
	ValidFormats   = []string{"json", "markdown", "terminal"}
	ValidLevels    = []string{"debug", "info", "warn", "error"}
)

// Config holds all researchblocks configuration.
type Config struct {
	AI      AIConfig      `yaml:"ai"`
	Report  ReportConfig  `yaml:"report"`
	Render  RenderConfig  `yaml:"render"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// AIConfig configures the report generator.
type AIConfig struct {
	Provider string `yaml:"provider"` // off, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type ReportConfig struct {
	OutDir        string `yaml:"out_dir"`
	MaxPages      int    `yaml:"max_pages"`      // 0 = all pages
	DetectColumns bool   `yaml:"detect_columns"` // rewrite space-aligned columns as tables
}

type RenderConfig struct {
	Format   string `yaml:"format"` // json, markdown, terminal
	Style    string `yaml:"style"`  // glamour style name or auto
	WordWrap int    `yaml:"word_wrap"`
}

type CacheConfig struct {
	Size int `yaml:"size"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider: "off",
			Model:    "gemini-2.5-flash",
		},
		Report: ReportConfig{
			OutDir:        ".",
			DetectColumns: true,
		},
		Render: RenderConfig{
			Format:   "json",
			Style:    "auto",
			WordWrap: 100,
		},
		Cache: CacheConfig{
			Size: 128,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	// GEMINI_API_KEY wins over GOOGLE_API_KEY.
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.AI.APIKey = key
	}
	if model := os.Getenv("RESEARCHBLOCKS_MODEL"); model != "" {
		c.AI.Model = model
	}
	if dir := os.Getenv("RESEARCHBLOCKS_OUT"); dir != "" {
		c.Report.OutDir = dir
	}
}

func (c *Config) Validate() error {
	if !contains(ValidProviders, c.AI.Provider) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidProvider, c.AI.Provider, ValidProviders)
	}
	if !contains(ValidFormats, c.Render.Format) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidFormat, c.Render.Format, ValidFormats)
	}
	if !contains(ValidLevels, c.Logging.Level) {
		return fmt.Errorf("%w: %q (valid: %v)", ErrInvalidLevel, c.Logging.Level, ValidLevels)
	}
	if c.Report.MaxPages < 0 {
		return fmt.Errorf("report.max_pages must not be negative, got %d", c.Report.MaxPages)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
