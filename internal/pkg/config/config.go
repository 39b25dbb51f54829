package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Cache     CacheConfig     `yaml:"cache"`
	Health    HealthConfig    `yaml:"health"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json (stdout)
	File   string `yaml:"file"`   // optional JSON log file, appended
}

type ExtractorConfig struct {
	Source        string        `yaml:"source"`         // auto, pdf, pdftotext, text
	PDFBackend    string        `yaml:"pdf_backend"`    // backend used by "auto" for .pdf files
	PdftotextPath string        `yaml:"pdftotext_path"` // path to the pdftotext binary
	MinOdds       float64       `yaml:"min_odds"`
	MaxOdds       float64       `yaml:"max_odds"`
	DefaultMarket string        `yaml:"default_market"`
	AliasesFile   string        `yaml:"aliases_file"` // optional YAML with extra team/league aliases
	Workers       int           `yaml:"workers"`      // parallel inputs
	InputTimeout  time.Duration `yaml:"input_timeout"`
}

type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	RedisAddr string        `yaml:"redis_addr"` // empty = in-memory cache
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
	KeyPrefix string        `yaml:"key_prefix"`
}

type HealthConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	MaxUploadBytes    int64         `yaml:"max_upload_bytes"`
}

type AnalysisConfig struct {
	Bankroll        float64 `yaml:"bankroll"`
	KellyFraction   float64 `yaml:"kelly_fraction"`    // 0.25 = quarter Kelly
	MaxStakePercent float64 `yaml:"max_stake_percent"` // cap per bet, percent of bankroll
	MinValuePercent float64 `yaml:"min_value_percent"` // 0 reports every positive-value outcome
	FlatStake       float64 `yaml:"flat_stake"` // backtest flat stake, 0 = 1% of bankroll
	EstimatesFile   string  `yaml:"estimates_file"`
}

// DefaultMinValuePercent applies when min_value_percent is absent; an
// explicit 0 is kept.
const DefaultMinValuePercent = 5.0

// Default returns a config usable without any file.
func Default() *Config {
	cfg := newConfig()
	cfg.applyDefaults()
	return cfg
}

// newConfig presets the fields whose zero value is a valid setting.
func newConfig() *Config {
	return &Config{Analysis: AnalysisConfig{MinValuePercent: DefaultMinValuePercent}}
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := newConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	e := &c.Extractor
	if e.Source == "" {
		e.Source = "auto"
	}
	if e.PDFBackend == "" {
		e.PDFBackend = "pdf"
	}
	if e.PdftotextPath == "" {
		e.PdftotextPath = "pdftotext"
	}
	if e.MinOdds <= 0 {
		e.MinOdds = 1.01
	}
	if e.MaxOdds <= 0 {
		e.MaxOdds = 50.0
	}
	if e.DefaultMarket == "" {
		e.DefaultMarket = "Main market"
	}
	if e.Workers <= 0 {
		e.Workers = 4
	}
	if e.InputTimeout <= 0 {
		e.InputTimeout = 60 * time.Second
	}

	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "tippmix:extract"
	}

	if c.Health.ReadHeaderTimeout <= 0 {
		c.Health.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Health.MaxUploadBytes <= 0 {
		c.Health.MaxUploadBytes = 20 << 20
	}

	a := &c.Analysis
	if a.Bankroll <= 0 {
		a.Bankroll = 10000
	}
	if a.KellyFraction <= 0 {
		a.KellyFraction = 0.25
	}
	if a.MaxStakePercent <= 0 {
		a.MaxStakePercent = 5
	}
}

func (c *Config) validate() error {
	if c.Extractor.MinOdds >= c.Extractor.MaxOdds {
		return fmt.Errorf("extractor.min_odds (%.2f) must be below extractor.max_odds (%.2f)", c.Extractor.MinOdds, c.Extractor.MaxOdds)
	}
	switch c.Extractor.Source {
	case "auto", "pdf", "pdftotext", "text":
	default:
		return fmt.Errorf("unknown extractor.source %q", c.Extractor.Source)
	}
	if c.Analysis.MinValuePercent < 0 {
		return fmt.Errorf("analysis.min_value_percent must not be negative, got %.2f", c.Analysis.MinValuePercent)
	}
	if c.Analysis.KellyFraction > 1 {
		return fmt.Errorf("analysis.kelly_fraction must be in (0, 1], got %.2f", c.Analysis.KellyFraction)
	}
	return nil
}
