package config

import (
	"fmt"
	"time"
)

// Config represents a seedbank.yaml configuration file.
// All values are optional and act as defaults for command flags.
// CLI flags always override config values.
type Config struct {
	APIURL     string           `yaml:"api_url"`
	Timeout    Duration         `yaml:"timeout"`
	Verbose    bool             `yaml:"verbose"`
	LogFormat  string           `yaml:"log_format"`
	Auth       AuthConfig       `yaml:"auth"`
	Activities ActivitiesConfig `yaml:"activities"`
	Reactions  ReactionsConfig  `yaml:"reactions"`
	Questions  QuestionsConfig  `yaml:"questions"`
	Content    ContentConfig    `yaml:"content"`
	Notify     NotifyConfig     `yaml:"notify"`
	Ledger     LedgerConfig     `yaml:"ledger"`
}

// AuthConfig holds authentication defaults.
type AuthConfig struct {
	// Enabled is nil when omitted so that an explicit false is distinguishable.
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Mode     string `yaml:"mode"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// AuthEnabled reports whether authentication is on. Omitted means on.
func (a AuthConfig) AuthEnabled() bool {
	return a.Enabled == nil || *a.Enabled
}

// ActivitiesConfig holds activity upload defaults. The counts are nil when
// omitted so that an explicit 0 still reaches validation.
type ActivitiesConfig struct {
	ChunkSize      *int `yaml:"chunk_size,omitempty"`
	DescriptionLen *int `yaml:"description_len,omitempty"`
	SourceLen      *int `yaml:"source_len,omitempty"`
	AllowNegative  bool `yaml:"allow_negative"`
	WithImages     bool `yaml:"with_images"`
}

// ReactionsConfig holds reaction upload defaults.
type ReactionsConfig struct {
	Dir  string `yaml:"dir"`
	File string `yaml:"file"`
}

// QuestionsConfig holds question generation defaults.
type QuestionsConfig struct {
	MultipleChoice *int `yaml:"multiple_choice,omitempty"`
}

// ContentConfig holds content bank location defaults.
type ContentConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// NotifyConfig holds completion notifier defaults.
type NotifyConfig struct {
	Type    string            `yaml:"type"`
	URL     string            `yaml:"url"`
	Channel string            `yaml:"channel,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Timeout Duration          `yaml:"timeout,omitempty"`
}

// LedgerConfig holds run ledger defaults. An empty path disables the ledger.
type LedgerConfig struct {
	Backend     string `yaml:"backend"`
	Path        string `yaml:"path"`
	Region      string `yaml:"region"`
	Endpoint    string `yaml:"endpoint"`
	S3PathStyle bool   `yaml:"s3_path_style"`
}

// Duration wraps time.Duration for YAML string parsing (e.g. "10s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses a duration string like "10s" or "5m30s".
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}
