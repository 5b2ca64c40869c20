package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StorageBackend identifies where the knowledge base blob is kept.
type StorageBackend string

const (
	StorageFile   StorageBackend = "file"
	StorageSQLite StorageBackend = "sqlite"
	StorageBolt   StorageBackend = "bolt"
	StorageMemory StorageBackend = "memory"
)

// StorageConfig holds settings for the blob store behind the knowledge base.
type StorageConfig struct {
	// Backend selects the storage: file, sqlite, bolt, or memory.
	Backend StorageBackend `json:"backend" yaml:"backend" mapstructure:"backend" validate:"required,oneof=file sqlite bolt memory"`

	// Path is the file or database path. Unused by the memory backend.
	Path string `json:"path" yaml:"path" mapstructure:"path" validate:"required_unless=Backend memory"`

	// Key names the blob inside sqlite and bolt databases (default "knowledge_base").
	Key string `json:"key" yaml:"key" mapstructure:"key"`

	// MaxBytes caps the serialized size of a write; larger writes fail the
	// way a full browser storage quota does. Zero means unlimited.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes" mapstructure:"max_bytes" validate:"gte=0"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal panic"`

	// Format is json or console.
	Format string `json:"format" yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console pretty"`

	// Output is stdout or stderr.
	Output string `json:"output" yaml:"output" mapstructure:"output" validate:"omitempty,oneof=stdout stderr"`
}

// KnowledgeBaseConfig holds settings for the knowledge base store.
type KnowledgeBaseConfig struct {
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`

	// MaxResults is the default limit for filtered article listings (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results" validate:"gte=0"`

	// PruneThreshold is the default relevance cut-off for prune (default 20).
	PruneThreshold int `json:"prune_threshold" yaml:"prune_threshold" mapstructure:"prune_threshold"`
}

// Config groups all settings of the litreview CLI.
type Config struct {
	KnowledgeBase KnowledgeBaseConfig `json:"knowledge_base" yaml:"knowledge_base" mapstructure:"knowledge_base"`
	Logging       LoggingConfig       `json:"logging" yaml:"logging" mapstructure:"logging"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		KnowledgeBase: KnowledgeBaseConfig{
			Storage: StorageConfig{
				Backend: StorageFile,
				Path:    "knowledge/knowledge_base.json",
				Key:     "knowledge_base",
			},
			MaxResults:     50,
			PruneThreshold: 20,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
			Output: "stderr",
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for unsupported values.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
