package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/RowanDark/cipherkit/internal/analysis"
)

// Config captures the cipherkit configuration resolved from defaults, optional
// files, and environment overrides.
type Config struct {
	HTTPAddr   string         `yaml:"http_addr"`
	GRPCAddr   string         `yaml:"grpc_addr"`
	LogLevel   string         `yaml:"log_level"`
	LogFile    string         `yaml:"log_file"`
	RecipesDir string         `yaml:"recipes_dir"`
	Analysis   AnalysisConfig `yaml:"analysis"`
	Tracing    TracingConfig  `yaml:"tracing"`
}

// TracingConfig controls span sampling and the JSONL span file of cipherd.
type TracingConfig struct {
	SampleRatio float64 `yaml:"sample_ratio"`
	File        string  `yaml:"file"`
}

// AnalysisConfig tunes the cryptanalysis routines.
type AnalysisConfig struct {
	Workers              int  `yaml:"workers"`
	MaxKeyLength         int  `yaml:"max_key_length"`
	LetterIndexedColumns bool `yaml:"letter_indexed_columns"`
}

// Default returns the built-in configuration. Zero workers means one per CPU.
func Default() Config {
	return Config{
		HTTPAddr:   "127.0.0.1:8420",
		GRPCAddr:   "127.0.0.1:8421",
		LogLevel:   "info",
		LogFile:    "",
		RecipesDir: "",
		Analysis: AnalysisConfig{
			Workers:              0,
			MaxKeyLength:         20,
			LetterIndexedColumns: false,
		},
		Tracing: TracingConfig{SampleRatio: 0},
	}
}

// Load resolves the configuration using defaults, configuration files, and
// environment overrides. Files are applied in order:
//  1. ~/.cipherkit/config.yaml
//  2. ./cipherkit.yaml
//
// Environment variables prefixed with CIPHERKIT_ have the highest precedence.
func Load() (Config, error) {
	cfg := Default()

	if err := loadHomeConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadLocalConfig(&cfg); err != nil {
		return Config{}, err
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFile resolves the configuration from defaults, the file at path and the
// environment, skipping the standard file locations.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(&cfg, data); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects values the analyzer and servers cannot use.
func (c Config) Validate() error {
	if c.Analysis.Workers < 0 {
		return fmt.Errorf("analysis.workers must not be negative, got %d", c.Analysis.Workers)
	}
	if c.Analysis.MaxKeyLength < 1 {
		return fmt.Errorf("analysis.max_key_length must be positive, got %d", c.Analysis.MaxKeyLength)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("tracing.sample_ratio must be within [0,1], got %g", c.Tracing.SampleRatio)
	}
	return nil
}

func loadHomeConfig(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("determine home directory: %w", err)
	}
	return loadOptionalFile(cfg, filepath.Join(home, ".cipherkit", "config.yaml"))
}

func loadLocalConfig(cfg *Config) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determine working directory: %w", err)
	}
	return loadOptionalFile(cfg, filepath.Join(wd, "cipherkit.yaml"))
}

func loadOptionalFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := applyFileConfig(cfg, data); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// fileConfig uses pointers so that keys absent from a file leave earlier
// values alone.
type fileConfig struct {
	HTTPAddr   *string             `yaml:"http_addr"`
	GRPCAddr   *string             `yaml:"grpc_addr"`
	LogLevel   *string             `yaml:"log_level"`
	LogFile    *string             `yaml:"log_file"`
	RecipesDir *string             `yaml:"recipes_dir"`
	Analysis   *fileAnalysisConfig `yaml:"analysis"`
	Tracing    *fileTracingConfig  `yaml:"tracing"`
}

type fileTracingConfig struct {
	SampleRatio *float64 `yaml:"sample_ratio"`
	File        *string  `yaml:"file"`
}

type fileAnalysisConfig struct {
	Workers              *int  `yaml:"workers"`
	MaxKeyLength         *int  `yaml:"max_key_length"`
	LetterIndexedColumns *bool `yaml:"letter_indexed_columns"`
}

func applyFileConfig(cfg *Config, data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return err
	}

	if fc.HTTPAddr != nil {
		cfg.HTTPAddr = strings.TrimSpace(*fc.HTTPAddr)
	}
	if fc.GRPCAddr != nil {
		cfg.GRPCAddr = strings.TrimSpace(*fc.GRPCAddr)
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.TrimSpace(*fc.LogLevel)
	}
	if fc.LogFile != nil {
		cfg.LogFile = strings.TrimSpace(*fc.LogFile)
	}
	if fc.RecipesDir != nil {
		cfg.RecipesDir = strings.TrimSpace(*fc.RecipesDir)
	}
	if fc.Analysis != nil {
		if fc.Analysis.Workers != nil {
			cfg.Analysis.Workers = *fc.Analysis.Workers
		}
		if fc.Analysis.MaxKeyLength != nil {
			cfg.Analysis.MaxKeyLength = *fc.Analysis.MaxKeyLength
		}
		if fc.Analysis.LetterIndexedColumns != nil {
			cfg.Analysis.LetterIndexedColumns = *fc.Analysis.LetterIndexedColumns
		}
	}
	if fc.Tracing != nil {
		if fc.Tracing.SampleRatio != nil {
			cfg.Tracing.SampleRatio = *fc.Tracing.SampleRatio
		}
		if fc.Tracing.File != nil {
			cfg.Tracing.File = strings.TrimSpace(*fc.Tracing.File)
		}
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_HTTP_ADDR")); val != "" {
		cfg.HTTPAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_GRPC_ADDR")); val != "" {
		cfg.GRPCAddr = val
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_LOG_LEVEL")); val != "" {
		cfg.LogLevel = val
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_LOG_FILE")); val != "" {
		cfg.LogFile = val
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_RECIPES_DIR")); val != "" {
		cfg.RecipesDir = val
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_TRACE_FILE")); val != "" {
		cfg.Tracing.File = val
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_TRACE_SAMPLE_RATIO")); val != "" {
		ratio, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("CIPHERKIT_TRACE_SAMPLE_RATIO: %w", err)
		}
		cfg.Tracing.SampleRatio = ratio
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_WORKERS")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("CIPHERKIT_WORKERS: %w", err)
		}
		cfg.Analysis.Workers = n
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_MAX_KEY_LENGTH")); val != "" {
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("CIPHERKIT_MAX_KEY_LENGTH: %w", err)
		}
		cfg.Analysis.MaxKeyLength = n
	}
	if val := strings.TrimSpace(os.Getenv("CIPHERKIT_LETTER_INDEXED_COLUMNS")); val != "" {
		parsed, err := parseBool(val)
		if err != nil {
			return fmt.Errorf("CIPHERKIT_LETTER_INDEXED_COLUMNS: %w", err)
		}
		cfg.Analysis.LetterIndexedColumns = parsed
	}
	return nil
}

func parseBool(val string) (bool, error) {
	v := strings.TrimSpace(strings.ToLower(val))
	switch v {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean: %s", val)
	}
}

// AnalyzerOptions translates the analysis section into analyzer options.
func (a AnalysisConfig) AnalyzerOptions(logger *zap.Logger) []analysis.Option {
	opts := []analysis.Option{
		analysis.WithWorkers(a.Workers),
		analysis.WithMaxKeyLength(a.MaxKeyLength),
		analysis.WithLogger(logger),
	}
	if a.LetterIndexedColumns {
		opts = append(opts, analysis.WithLetterIndexedColumns())
	}
	return opts
}

// RecipesPath returns RecipesDir, or ~/.cipherkit/recipes when it is unset.
func (c Config) RecipesPath() (string, error) {
	if c.RecipesDir != "" {
		return c.RecipesDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determine home directory: %w", err)
	}
	return filepath.Join(home, ".cipherkit", "recipes"), nil
}
