package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"sqlite", func(c *Config) { c.KnowledgeBase.Storage.Backend = StorageSQLite }, false},
		{"bolt", func(c *Config) { c.KnowledgeBase.Storage.Backend = StorageBolt }, false},
		{"memory without path", func(c *Config) {
			c.KnowledgeBase.Storage.Backend = StorageMemory
			c.KnowledgeBase.Storage.Path = ""
		}, false},
		{"file without path", func(c *Config) { c.KnowledgeBase.Storage.Path = "" }, true},
		{"unknown backend", func(c *Config) { c.KnowledgeBase.Storage.Backend = "localStorage" }, true},
		{"empty backend", func(c *Config) { c.KnowledgeBase.Storage.Backend = "" }, true},
		{"negative quota", func(c *Config) { c.KnowledgeBase.Storage.MaxBytes = -1 }, true},
		{"negative max results", func(c *Config) { c.KnowledgeBase.MaxResults = -5 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"empty logging", func(c *Config) { c.Logging = LoggingConfig{} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
