package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for auspex.
type Config struct {
	// Thresholds for quality analysis
	Thresholds ThresholdConfig `koanf:"thresholds"`

	// Limits caps file reading and scanning
	Limits LimitConfig `koanf:"limits"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// ThresholdConfig defines quality-analysis thresholds.
type ThresholdConfig struct {
	ComplexityReport    int `koanf:"complexity_report"`     // files scoring below are omitted from the table
	DeadCommentMinLines int `koanf:"dead_comment_min_lines"`
	OversizedFileLines  int `koanf:"oversized_file_lines"`
	RecentDays          int `koanf:"recent_days"` // tree view annotates files modified within this window
}

// LimitConfig caps per-file work.
type LimitConfig struct {
	MaxFileBytes int64 `koanf:"max_file_bytes"` // content read ceiling
	MaxScanBytes int   `koanf:"max_scan_bytes"` // reference-scan ceiling per file
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns"` // doublestar globs against the relative path
	Dirs      []string `koanf:"dirs"`     // folder name substrings
	Gitignore bool     `koanf:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdConfig{
			ComplexityReport:    10,
			DeadCommentMinLines: 8,
			OversizedFileLines:  600,
			RecentDays:          7,
		},
		Limits: LimitConfig{
			MaxFileBytes: 5 * 1024 * 1024,
			MaxScanBytes: 1024 * 1024,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"**/*.min.*",
				"**/*.map",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".auspex",
				"dist",
				"build",
				"coverage",
				"storage/framework",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file, layering it over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault tries standard config locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"auspex.toml",
		"auspex.yaml",
		"auspex.yml",
		"auspex.json",
		".auspex.toml",
		".auspex.yaml",
		".auspex.yml",
		".auspex.json",
	}

	searchDirs := []string{".", ".auspex"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// ShouldExclude checks if a relative path should be excluded from analysis.
func (c *Config) ShouldExclude(relPath string) bool {
	slashed := filepath.ToSlash(relPath)

	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(slashed, "/"+dir+"/") || strings.HasPrefix(slashed, dir+"/") || slashed == dir {
			return true
		}
	}

	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(slashed)); matched {
			return true
		}
	}

	return false
}
