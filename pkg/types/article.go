// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the knowledge base,
// its storage backends, and the CLI: ranked articles, the research and
// author entries that own them, and configuration.
package types

// RankedArticle is a scientific paper as scored by the AI ranking step.
// Two articles with the same PMID are the same paper regardless of the
// other fields; re-analysis can give the same paper a different score or
// summary in different reports.
type RankedArticle struct {
	// PMID is the PubMed identifier and the global key for an article.
	PMID string `json:"pmid" yaml:"pmid"`

	// PMCID is the optional PubMed Central identifier.
	PMCID string `json:"pmc_id,omitempty" yaml:"pmc_id,omitempty"`

	Title string `json:"title" yaml:"title"`

	// Authors is the author list as displayed (e.g. "Smith J, Doe A").
	Authors string `json:"authors" yaml:"authors"`

	Journal string `json:"journal" yaml:"journal"`

	// PubYear is the publication year as returned by PubMed.
	PubYear string `json:"pub_year" yaml:"pub_year"`

	// Summary is the AI-written summary of the abstract.
	Summary string `json:"summary" yaml:"summary"`

	// RelevanceScore is conventionally 0-100 but the range is not enforced.
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`

	RelevanceExplanation string `json:"relevance_explanation" yaml:"relevance_explanation"`

	// Keywords are the terms extracted from the article.
	Keywords []string `json:"keywords" yaml:"keywords"`

	IsOpenAccess bool `json:"is_open_access" yaml:"is_open_access"`

	// CustomTags are user-assigned labels. They are replaced wholesale by
	// tag updates, never merged.
	CustomTags []string `json:"custom_tags,omitempty" yaml:"custom_tags,omitempty"`
}

// Clone returns a copy of a that shares no slices with it.
func (a RankedArticle) Clone() RankedArticle {
	a.Keywords = cloneStrings(a.Keywords)
	a.CustomTags = cloneStrings(a.CustomTags)
	return a
}

// HasTag reports whether tag is one of the article's custom tags.
func (a RankedArticle) HasTag(tag string) bool {
	for _, t := range a.CustomTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AggregatedArticle is an article from the de-duplicated view together
// with the entry it was taken from. SourceID is provenance only.
type AggregatedArticle struct {
	RankedArticle `yaml:",inline"`

	SourceTitle string `json:"source_title" yaml:"source_title"`
	SourceID    string `json:"source_id" yaml:"source_id"`
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
