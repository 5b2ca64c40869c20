// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/knowledge"
	"github.com/pdiddy/litreview/internal/notify"
	"github.com/pdiddy/litreview/internal/observability"
	"github.com/pdiddy/litreview/internal/storage"
	"github.com/pdiddy/litreview/pkg/types"
)

var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "Inspect and curate the knowledge base",
	Long: `Kb works on the saved research reports and author profiles. Read
commands (list, entries, stats, tags) print the current state; the others
change it and write the whole knowledge base back to storage.`,
}

// session is an open store together with what the command needs to close
// it and report on it.
type session struct {
	cfg     types.Config
	store   *knowledge.Store
	backend storage.Backend
	log     zerolog.Logger
}

func (s *session) Close() error {
	return s.backend.Close()
}

// openSession loads the configuration and the knowledge base. Store
// notifications are printed to the command's output.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := observability.NewLogger(cfg.Logging).With().Str("command", cmd.Name()).Logger()

	backend, err := storage.Open(cfg.KnowledgeBase.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s storage: %w", cfg.KnowledgeBase.Storage.Backend, err)
	}

	notifier := notify.Multi(
		notify.Writer{W: cmd.OutOrStdout()},
		notify.Log{Logger: log},
	)
	log.Debug().
		Str("backend", string(cfg.KnowledgeBase.Storage.Backend)).
		Str("path", cfg.KnowledgeBase.Storage.Path).
		Msg("opening knowledge base")

	return &session{
		cfg:     cfg,
		store:   knowledge.NewStore(cfg.KnowledgeBase, backend, notifier, log),
		backend: backend,
		log:     log,
	}, nil
}

// withSession runs fn against an open store and closes it afterwards.
func withSession(cmd *cobra.Command, fn func(s *session) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- list subcommand ---

var kbListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List the de-duplicated articles",
	Long: `List prints one row per article across all saved entries. When an
article appears in several entries, the copy with the highest relevance
score is shown along with the entry it came from.

A query matches title, summary, authors, journal, and keywords.`,
	RunE: runKBList,
}

func runKBList(cmd *cobra.Command, args []string) error {
	return withSession(cmd, func(s *session) error {
		opts := listOptsFromFlags(cmd, args)
		results := s.store.Filter(opts)

		jsonOutput, _ := cmd.Flags().GetBool("json")
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), results)
		}
		return formatArticles(cmd.OutOrStdout(), results)
	})
}

func listOptsFromFlags(cmd *cobra.Command, args []string) knowledge.QueryOptions {
	tags, _ := cmd.Flags().GetStringSlice("tag")
	minScore, _ := cmd.Flags().GetInt("min-score")
	openAccess, _ := cmd.Flags().GetBool("open-access")
	source, _ := cmd.Flags().GetString("source")
	sorted, _ := cmd.Flags().GetBool("sort")
	limit, _ := cmd.Flags().GetInt("limit")

	return knowledge.QueryOptions{
		Query:           strings.Join(args, " "),
		Tags:            tags,
		MinScore:        minScore,
		OpenAccessOnly:  openAccess,
		SourceID:        source,
		SortByRelevance: sorted,
		MaxResults:      limit,
	}
}

func formatArticles(w io.Writer, articles []types.AggregatedArticle) error {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No articles found.")
		return nil
	}

	fmt.Fprintf(w, "%-10s  %-5s  %-50s  %-24s  %s\n", "PMID", "Score", "Title", "Source", "Tags")
	fmt.Fprintln(w, strings.Repeat("-", 110))
	for _, a := range articles {
		fmt.Fprintf(w, "%-10s  %-5d  %-50s  %-24s  %s\n",
			a.PMID, a.RelevanceScore, truncate(a.Title, 50), truncate(a.SourceTitle, 24),
			strings.Join(a.CustomTags, ","))
	}
	fmt.Fprintf(w, "\n%d articles\n", len(articles))
	return nil
}

// --- entries subcommand ---

var kbEntriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List the saved research reports and author profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			entries := s.store.Entries()

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			return formatEntries(cmd.OutOrStdout(), entries)
		})
	},
}

func formatEntries(w io.Writer, entries []types.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "The knowledge base is empty.")
		return nil
	}

	fmt.Fprintf(w, "%-16s  %-8s  %-8s  %s\n", "ID", "Type", "Articles", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, e := range entries {
		fmt.Fprintf(w, "%-16s  %-8s  %-8d  %s\n", e.ID, e.Type(), len(e.Articles()), truncate(e.Title(), 60))
	}
	return nil
}

// --- stats subcommand ---

var kbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			st := s.store.Stats()

			jsonOutput, _ := cmd.Flags().GetBool("json")
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), st)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Entries:            %d (%d research, %d author)\n", st.Entries, st.ResearchEntries, st.AuthorEntries)
			fmt.Fprintf(w, "Article copies:     %d\n", st.ArticleInstances)
			fmt.Fprintf(w, "Unique articles:    %d\n", st.UniqueArticles)
			fmt.Fprintf(w, "Duplicated PMIDs:   %d\n", st.DuplicatePMIDs)
			return nil
		})
	},
}

// --- tags subcommand ---

var kbTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the custom tags in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd, func(s *session) error {
			for _, t := range s.store.AllTags() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		})
	},
}

func init() {
	kbListCmd.Flags().StringSlice("tag", nil, "only articles carrying every given tag")
	kbListCmd.Flags().Int("min-score", 0, "only articles scored at least this much")
	kbListCmd.Flags().Bool("open-access", false, "only open-access articles")
	kbListCmd.Flags().String("source", "", "only articles whose best copy came from this entry ID")
	kbListCmd.Flags().Bool("sort", false, "sort by relevance score, highest first")
	kbListCmd.Flags().Int("limit", 0, "maximum results (0 = configured default, -1 = all)")
	kbListCmd.Flags().Bool("json", false, "output results as JSON")

	kbEntriesCmd.Flags().Bool("json", false, "output entries as JSON")
	kbStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbEntriesCmd)
	kbCmd.AddCommand(kbStatsCmd)
	kbCmd.AddCommand(kbTagsCmd)

	rootCmd.AddCommand(kbCmd)
}
