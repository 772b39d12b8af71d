package analysis

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the full analysis service configuration.
type Config struct {
	Listen             string        `yaml:"listen"`
	APIKey             string        `yaml:"api_key"`
	Model              string        `yaml:"model"` // preferred generation model
	AuditDB            string        `yaml:"audit_db"`
	MaxFileMB          int           `yaml:"max_file_mb"`
	MinTextChars       int           `yaml:"min_text_chars"`       // below this the upload is rejected
	MaxTextChars       int           `yaml:"max_text_chars"`       // extraction prompt text cap
	ScoringSampleChars int           `yaml:"scoring_sample_chars"` // scoring prompt text cap
	SnippetCount       int           `yaml:"snippet_count"`
	RequestBudget      time.Duration `yaml:"request_budget"` // wall-clock cap per analysis
}

// DefaultConfig returns sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:             ":8080",
		AuditDB:            "inkscore_audit.db",
		MaxFileMB:          25,
		MinTextChars:       100,
		MaxTextChars:       30000,
		ScoringSampleChars: 3000,
		SnippetCount:       6,
		RequestBudget:      55 * time.Second,
	}
}

// LoadConfig reads and parses a YAML config file. Returns DefaultConfig merged with the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that required fields are present and values are sane.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.MaxFileMB <= 0 {
		return fmt.Errorf("max_file_mb must be > 0")
	}
	if c.MinTextChars <= 0 {
		return fmt.Errorf("min_text_chars must be > 0")
	}
	if c.MaxTextChars < c.MinTextChars {
		return fmt.Errorf("max_text_chars must be >= min_text_chars")
	}
	if c.ScoringSampleChars <= 0 || c.ScoringSampleChars > c.MaxTextChars {
		return fmt.Errorf("scoring_sample_chars must be in (0, max_text_chars]")
	}
	if c.SnippetCount <= 0 {
		return fmt.Errorf("snippet_count must be > 0")
	}
	if c.RequestBudget <= 0 {
		return fmt.Errorf("request_budget must be > 0")
	}
	return nil
}

// MaxFileBytes returns max upload size in bytes.
func (c *Config) MaxFileBytes() int64 { return int64(c.MaxFileMB) * 1024 * 1024 }
