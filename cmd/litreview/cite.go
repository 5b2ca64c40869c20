// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/litreview/internal/bibliography"
)

var kbCiteCmd = &cobra.Command{
	Use:   "cite [query]",
	Short: "Write a bibliography of the de-duplicated articles",
	Long: `Cite renders the articles selected by the same filters as list as
CSL-YAML (for Pandoc and reference managers) or BibTeX. Citation keys are
AuthorYear, with a letter suffix when two articles would collide.`,
	RunE: runKBCite,
}

func runKBCite(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	var render func([]bibliography.Reference, io.Writer) error
	switch format {
	case "csl", "yaml", "":
		render = bibliography.FormatCSL
	case "bibtex", "bib":
		render = bibliography.FormatBibTeX
	default:
		return fmt.Errorf("unsupported format %q: use csl or bibtex", format)
	}

	return withSession(cmd, func(s *session) error {
		opts := listOptsFromFlags(cmd, args)
		refs := bibliography.References(s.store.Filter(opts))

		if output == "" {
			return render(refs, cmd.OutOrStdout())
		}
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		if err := render(refs, f); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", output, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d references to %s\n", len(refs), output)
		return nil
	})
}

func init() {
	kbCiteCmd.Flags().String("format", "csl", "bibliography format: csl or bibtex")
	kbCiteCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
	kbCiteCmd.Flags().StringSlice("tag", nil, "only articles carrying every given tag")
	kbCiteCmd.Flags().Int("min-score", 0, "only articles scored at least this much")
	kbCiteCmd.Flags().Bool("open-access", false, "only open-access articles")
	kbCiteCmd.Flags().String("source", "", "only articles whose best copy came from this entry ID")
	kbCiteCmd.Flags().Bool("sort", false, "sort by relevance score, highest first")
	kbCiteCmd.Flags().Int("limit", -1, "maximum references (-1 = all)")

	kbCmd.AddCommand(kbCiteCmd)
}
