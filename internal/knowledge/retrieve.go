// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"sort"
	"strings"

	"github.com/pdiddy/litreview/pkg/types"
)

// QueryOptions holds parameters for filtering the de-duplicated articles.
type QueryOptions struct {
	// Query is a case-insensitive substring matched against title, summary,
	// authors, journal, and keywords.
	Query string

	// Tags filters by one or more custom tags with AND semantics.
	Tags []string

	// MinScore keeps articles scored at least this much. Zero disables it.
	MinScore int

	// OpenAccessOnly keeps open-access articles only.
	OpenAccessOnly bool

	// SourceID keeps articles whose winning copy came from this entry.
	SourceID string

	// SortByRelevance orders results by descending score instead of
	// first-seen order.
	SortByRelevance bool

	// MaxResults limits result count. Zero uses the store default; a
	// negative value means no limit.
	MaxResults int
}

// IsEmpty reports whether the options select every article.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && len(q.Tags) == 0 && q.MinScore == 0 && !q.OpenAccessOnly && q.SourceID == ""
}

// Filter returns the de-duplicated articles matching opts.
func (s *Store) Filter(opts QueryOptions) []types.AggregatedArticle {
	s.mu.Lock()
	all := Aggregate(s.entries)
	maxResults := s.maxResults
	s.mu.Unlock()

	if opts.MaxResults != 0 {
		maxResults = opts.MaxResults
	}

	needle := strings.ToLower(strings.TrimSpace(opts.Query))
	results := make([]types.AggregatedArticle, 0, len(all))
	for _, a := range all {
		if matches(a, needle, opts) {
			results = append(results, a)
		}
	}

	if opts.SortByRelevance {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].RelevanceScore > results[j].RelevanceScore
		})
	}

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func matches(a types.AggregatedArticle, needle string, opts QueryOptions) bool {
	if opts.MinScore != 0 && a.RelevanceScore < opts.MinScore {
		return false
	}
	if opts.OpenAccessOnly && !a.IsOpenAccess {
		return false
	}
	if opts.SourceID != "" && a.SourceID != opts.SourceID {
		return false
	}
	for _, tag := range opts.Tags {
		if !a.HasTag(tag) {
			return false
		}
	}
	if needle == "" {
		return true
	}

	fields := []string{a.Title, a.Summary, a.Authors, a.Journal}
	fields = append(fields, a.Keywords...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// AllTags returns the sorted, distinct custom tags used across the
// de-duplicated articles.
func (s *Store) AllTags() []string {
	s.mu.Lock()
	all := Aggregate(s.entries)
	s.mu.Unlock()

	seen := make(map[string]bool)
	tags := make([]string, 0)
	for _, a := range all {
		for _, t := range a.CustomTags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

// Stats summarizes the collection.
type Stats struct {
	Entries          int `json:"entries" yaml:"entries"`
	ResearchEntries  int `json:"research_entries" yaml:"research_entries"`
	AuthorEntries    int `json:"author_entries" yaml:"author_entries"`
	ArticleInstances int `json:"article_instances" yaml:"article_instances"`
	UniqueArticles   int `json:"unique_articles" yaml:"unique_articles"`
	DuplicatePMIDs   int `json:"duplicate_pmids" yaml:"duplicate_pmids"`
}

// Stats counts entries and articles in the collection.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Entries:        len(s.entries),
		UniqueArticles: len(Aggregate(s.entries)),
	}
	for _, e := range s.entries {
		switch e.Type() {
		case types.EntryResearch:
			st.ResearchEntries++
		case types.EntryAuthor:
			st.AuthorEntries++
		}
		st.ArticleInstances += len(e.Articles())
	}

	count, _ := occurrences(s.entries)
	for _, n := range count {
		if n > 1 {
			st.DuplicatePMIDs++
		}
	}
	return st
}
