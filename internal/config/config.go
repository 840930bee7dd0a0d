package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DataDir     string            `yaml:"data_dir"`
	Dataset     DatasetConfig     `yaml:"dataset"`
	Query       QueryConfig       `yaml:"query"`
	Progression ProgressionConfig `yaml:"progression"`
}

// DatasetConfig points the catalog loader at an alternative dataset
// directory. Empty means the embedded dataset.
type DatasetConfig struct {
	Dir string `yaml:"dir"`
}

type QueryConfig struct {
	// SearchThreshold is the fuzzy-match cutoff on a 0..1 scale; lower is
	// stricter. Zero means the default.
	SearchThreshold float64 `yaml:"search_threshold"`
	// PageSize is the default result page length.
	PageSize int `yaml:"page_size"`
}

// ProgressionConfig names the autoregulation factors so they live in the
// configuration surface rather than as inline constants.
type ProgressionConfig struct {
	// IncreaseFactor multiplies the weight after full completion at
	// moderate-or-lower effort.
	IncreaseFactor float64 `yaml:"increase_factor"`
	// DeloadFactor multiplies the weight after a significant rep shortfall
	// or maximal effort.
	DeloadFactor float64 `yaml:"deload_factor"`
	// LowRepRatio is the rep ratio below which a session counts as a
	// significant shortfall.
	LowRepRatio float64 `yaml:"low_rep_ratio"`
}

// Defaults for the tunables above.
const (
	DefaultSearchThreshold = 0.4
	DefaultPageSize        = 20
	DefaultIncreaseFactor  = 1.05
	DefaultDeloadFactor    = 0.95
	DefaultLowRepRatio     = 0.8
)

// Default returns the built-in configuration used when no config file is
// given.
func Default() *Config {
	return &Config{
		Query: QueryConfig{
			SearchThreshold: DefaultSearchThreshold,
			PageSize:        DefaultPageSize,
		},
		Progression: ProgressionConfig{
			IncreaseFactor: DefaultIncreaseFactor,
			DeloadFactor:   DefaultDeloadFactor,
			LowRepRatio:    DefaultLowRepRatio,
		},
	}
}

// Load reads config from a YAML file, fills unset fields with defaults, then
// applies environment variable overrides. An empty path yields the defaults.
// Env vars use the prefix LIFTLOG_:
//
//	LIFTLOG_DATA_DIR, LIFTLOG_DATASET_DIR,
//	LIFTLOG_QUERY_THRESHOLD, LIFTLOG_QUERY_PAGE_SIZE
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.Query.SearchThreshold == 0 {
		cfg.Query.SearchThreshold = def.Query.SearchThreshold
	}
	if cfg.Query.PageSize == 0 {
		cfg.Query.PageSize = def.Query.PageSize
	}
	if cfg.Progression.IncreaseFactor == 0 {
		cfg.Progression.IncreaseFactor = def.Progression.IncreaseFactor
	}
	if cfg.Progression.DeloadFactor == 0 {
		cfg.Progression.DeloadFactor = def.Progression.DeloadFactor
	}
	if cfg.Progression.LowRepRatio == 0 {
		cfg.Progression.LowRepRatio = def.Progression.LowRepRatio
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LIFTLOG_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("LIFTLOG_DATASET_DIR"); v != "" {
		cfg.Dataset.Dir = v
	}
	if v := os.Getenv("LIFTLOG_QUERY_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Query.SearchThreshold = f
		}
	}
	if v := os.Getenv("LIFTLOG_QUERY_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Query.PageSize = n
		}
	}
}

func (c *Config) validate() error {
	if c.Query.SearchThreshold < 0 || c.Query.SearchThreshold > 1 {
		return fmt.Errorf("query.search_threshold must be within 0..1")
	}
	if c.Query.PageSize <= 0 {
		return fmt.Errorf("query.page_size must be positive")
	}
	if c.Progression.IncreaseFactor < 1 {
		return fmt.Errorf("progression.increase_factor must be >= 1")
	}
	if c.Progression.DeloadFactor <= 0 || c.Progression.DeloadFactor > 1 {
		return fmt.Errorf("progression.deload_factor must be within (0, 1]")
	}
	if c.Progression.LowRepRatio <= 0 || c.Progression.LowRepRatio >= 1 {
		return fmt.Errorf("progression.low_rep_ratio must be within (0, 1)")
	}
	return nil
}
