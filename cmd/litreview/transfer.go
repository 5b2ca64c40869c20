// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/internal/knowledge"
	"github.com/pdiddy/litreview/pkg/types"
)

// readDocument decodes a JSON or YAML file into v. JSON is read through
// the YAML decoder, which accepts it.
func readDocument(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// --- save subcommands ---

var kbSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Save a research report or author profile from a file",
	Long: `Save appends a new entry built from a JSON or YAML document. A research
document has "input" and "report" keys; an author document has "input" and
"profile" keys, shaped like the entries written by export.`,
}

var kbSaveResearchCmd = &cobra.Command{
	Use:   "research <file>",
	Short: "Save a research report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc struct {
			Input  types.ResearchInput  `yaml:"input"`
			Report types.ResearchReport `yaml:"report"`
		}
		if err := readDocument(args[0], &doc); err != nil {
			return err
		}
		if strings.TrimSpace(doc.Input.Topic) == "" {
			return fmt.Errorf("%s: input.topic is required", args[0])
		}
		return withSession(cmd, func(s *session) error {
			s.store.SaveReport(doc.Input, doc.Report)
			return nil
		})
	},
}

var kbSaveAuthorCmd = &cobra.Command{
	Use:   "author <file>",
	Short: "Save an author profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var doc struct {
			Input   types.AuthorInput   `yaml:"input"`
			Profile types.AuthorProfile `yaml:"profile"`
		}
		if err := readDocument(args[0], &doc); err != nil {
			return err
		}
		if strings.TrimSpace(doc.Input.AuthorName) == "" {
			return fmt.Errorf("%s: input.author_name is required", args[0])
		}
		return withSession(cmd, func(s *session) error {
			s.store.SaveAuthorProfile(doc.Input, doc.Profile)
			return nil
		})
	},
}

// --- add-article subcommand ---

var kbAddArticleCmd = &cobra.Command{
	Use:   "add-article <file>",
	Short: "Add a single article as an entry of its own",
	Long: `Add-article reads one ranked article from a JSON or YAML file and saves
it as a minimal research entry titled after the article.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var article types.RankedArticle
		if err := readDocument(args[0], &article); err != nil {
			return err
		}
		if article.PMID == "" {
			return fmt.Errorf("%s: pmid is required", args[0])
		}
		return withSession(cmd, func(s *session) error {
			s.store.AddSingleArticleReport(article)
			return nil
		})
	},
}

// --- import subcommand ---

var kbImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append entries from a JSON or YAML export",
	Long: `Import appends the entries of a file written by export (or any JSON
array / YAML sequence of entries). Items without a known type are skipped.
Existing entries are never replaced.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		items, err := knowledge.ReadImportFile(args[0])
		if err != nil {
			return err
		}
		return withSession(cmd, func(s *session) error {
			if n := s.store.AddKnowledgeBaseEntries(items); n < len(items) {
				s.log.Warn().Int("skipped", len(items)-n).Str("file", args[0]).Msg("some items were not imported")
			}
			return nil
		})
	},
}

// --- export subcommand ---

var kbExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export the knowledge base to YAML or JSON",
	Long: `Export writes every entry to a file that import can read back. The
format follows the file extension unless --format is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			format = formatFromPath(path)
		}

		return withSession(cmd, func(s *session) error {
			switch format {
			case "yaml":
				if err := s.store.ExportYAML(path); err != nil {
					return err
				}
			case "json":
				if err := s.store.ExportJSON(path); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported format %q: use yaml or json", format)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", s.store.Len(), path)
			return nil
		})
	},
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func init() {
	kbExportCmd.Flags().String("format", "", "export format: yaml or json (default from file extension)")

	kbSaveCmd.AddCommand(kbSaveResearchCmd)
	kbSaveCmd.AddCommand(kbSaveAuthorCmd)

	kbCmd.AddCommand(kbSaveCmd)
	kbCmd.AddCommand(kbAddArticleCmd)
	kbCmd.AddCommand(kbImportCmd)
	kbCmd.AddCommand(kbExportCmd)
}
