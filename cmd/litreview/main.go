// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the litreview CLI. It exposes the
// knowledge base of saved research reports and author profiles: listing
// the de-duplicated articles, tagging, pruning, merging, and moving
// entries in and out through JSON or YAML files.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litreview/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the litreview CLI.
var rootCmd = &cobra.Command{
	Use:   "litreview",
	Short: "Manage a local literature-review knowledge base",
	Long: `litreview keeps the research reports and author profiles you save while
reviewing the literature. Articles found by several reports are shown once,
with the best-scored copy winning.

The knowledge base lives in a single blob on disk (JSON file, SQLite, or
BoltDB). Settings come from litreview.yaml, LITREVIEW_* environment
variables, and flags, in increasing order of precedence.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	defaults := types.DefaultConfig()
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./litreview.yaml or ~/.config/litreview/litreview.yaml)")
	flags.String("storage", string(defaults.KnowledgeBase.Storage.Backend), "storage backend: file, sqlite, bolt, or memory")
	flags.String("kb-path", defaults.KnowledgeBase.Storage.Path, "path of the knowledge base file or database")
	flags.Int64("max-bytes", 0, "reject knowledge base writes larger than this many bytes (0 = unlimited)")
	flags.String("log-level", defaults.Logging.Level, "log level: trace, debug, info, warn, error")
	flags.String("log-format", defaults.Logging.Format, "log format: json or console")

	for key, flag := range map[string]string{
		"knowledge_base.storage.backend":   "storage",
		"knowledge_base.storage.path":      "kb-path",
		"knowledge_base.storage.max_bytes": "max-bytes",
		"logging.level":                    "log-level",
		"logging.format":                   "log-format",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("litreview")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "litreview"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("LITREVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment variables are
// picked up even when no config file mentions them.
func setDefaults(cfg types.Config) {
	kb := cfg.KnowledgeBase
	viper.SetDefault("knowledge_base.storage.backend", string(kb.Storage.Backend))
	viper.SetDefault("knowledge_base.storage.path", kb.Storage.Path)
	viper.SetDefault("knowledge_base.storage.key", kb.Storage.Key)
	viper.SetDefault("knowledge_base.storage.max_bytes", kb.Storage.MaxBytes)
	viper.SetDefault("knowledge_base.max_results", kb.MaxResults)
	viper.SetDefault("knowledge_base.prune_threshold", kb.PruneThreshold)
	viper.SetDefault("logging.level", cfg.Logging.Level)
	viper.SetDefault("logging.format", cfg.Logging.Format)
	viper.SetDefault("logging.output", cfg.Logging.Output)
}

// loadConfig decodes the merged viper settings and validates them.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
