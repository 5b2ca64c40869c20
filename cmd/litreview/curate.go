// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// --- tag subcommand ---

var kbTagCmd = &cobra.Command{
	Use:   "tag <pmid> [tag...]",
	Short: "Replace the custom tags of an article",
	Long: `Tag sets the custom tags of every saved copy of the article. The given
tags replace the existing ones; with no tags the article is left untagged.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			if _, ok := s.store.Article(args[0]); !ok {
				return fmt.Errorf("no article with PMID %q in the knowledge base", args[0])
			}
			tags := args[1:]
			s.store.UpdateTags(args[0], tags)
			if len(tags) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared tags of %s.\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s: %s\n", args[0], strings.Join(tags, ", "))
			return nil
		})
	},
}

// --- delete subcommand ---

var kbDeleteCmd = &cobra.Command{
	Use:   "delete <pmid>...",
	Short: "Delete articles from every entry",
	Long: `Delete removes every copy of the given articles. Entries left with no
articles are removed as well.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			s.store.DeleteArticles(args)
			return nil
		})
	},
}

// --- merge subcommand ---

var kbMergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Keep each duplicated article only in the entry with its best copy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			s.store.MergeDuplicates()
			return nil
		})
	},
}

// --- prune subcommand ---

var kbPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove articles scored below a threshold",
	Long: `Prune removes every article copy whose relevance score is strictly below
the threshold. Articles scored exactly at the threshold are kept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			threshold := s.cfg.KnowledgeBase.PruneThreshold
			if cmd.Flags().Changed("threshold") {
				threshold, _ = cmd.Flags().GetInt("threshold")
			}
			s.store.PruneByRelevance(threshold)
			return nil
		})
	},
}

// --- rename subcommand ---

var kbRenameCmd = &cobra.Command{
	Use:   "rename <entry-id> <title>",
	Short: "Rename the topic or author of an entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			id, title := args[0], strings.Join(args[1:], " ")
			if _, ok := s.store.Entry(id); !ok {
				return fmt.Errorf("no entry with ID %q", id)
			}
			s.store.UpdateEntryTitle(id, title)
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q.\n", id, title)
			return nil
		})
	},
}

// --- clear subcommand ---

var kbClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every entry from the knowledge base",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("clear cannot be undone: pass --yes to confirm")
		}
		return withSession(cmd, func(s *session) error {
			s.store.ClearKnowledgeBase()
			return nil
		})
	},
}

func init() {
	kbPruneCmd.Flags().Int("threshold", 0, "minimum relevance score to keep (default from config)")
	kbClearCmd.Flags().Bool("yes", false, "confirm clearing the knowledge base")

	kbCmd.AddCommand(kbTagCmd)
	kbCmd.AddCommand(kbDeleteCmd)
	kbCmd.AddCommand(kbMergeCmd)
	kbCmd.AddCommand(kbPruneCmd)
	kbCmd.AddCommand(kbRenameCmd)
	kbCmd.AddCommand(kbClearCmd)
}
