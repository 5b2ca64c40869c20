// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResearchInput is the query a research report was generated from.
type ResearchInput struct {
	// Topic is the research question. It doubles as the entry title.
	Topic string `json:"topic" yaml:"topic"`

	// DateRange is the publication window, e.g. "5" for the last five years
	// or "any".
	DateRange string `json:"date_range,omitempty" yaml:"date_range,omitempty"`

	ArticleTypes   []string `json:"article_types,omitempty" yaml:"article_types,omitempty"`
	SynthesisFocus string   `json:"synthesis_focus,omitempty" yaml:"synthesis_focus,omitempty"`

	// MaxArticlesToScan and TopNToSynthesize bound the PubMed fetch and the
	// synthesis step respectively.
	MaxArticlesToScan int `json:"max_articles_to_scan,omitempty" yaml:"max_articles_to_scan,omitempty"`
	TopNToSynthesize  int `json:"top_n_to_synthesize,omitempty" yaml:"top_n_to_synthesize,omitempty"`
}

// Insight is one question/answer pair from a report synthesis.
type Insight struct {
	Question           string   `json:"question" yaml:"question"`
	Answer             string   `json:"answer" yaml:"answer"`
	SupportingArticles []string `json:"supporting_articles,omitempty" yaml:"supporting_articles,omitempty"`
}

// KeywordFrequency is one row of a report's keyword table.
type KeywordFrequency struct {
	Keyword   string `json:"keyword" yaml:"keyword"`
	Frequency int    `json:"frequency" yaml:"frequency"`
}

// ResearchReport is the full output of a research run.
type ResearchReport struct {
	GeneratedQueries    []string           `json:"generated_queries,omitempty" yaml:"generated_queries,omitempty"`
	RankedArticles      []RankedArticle    `json:"ranked_articles" yaml:"ranked_articles"`
	SynthesizedSummary  string             `json:"synthesized_summary" yaml:"synthesized_summary"`
	AIGeneratedInsights []Insight          `json:"ai_generated_insights,omitempty" yaml:"ai_generated_insights,omitempty"`
	AggregatedKeywords  []KeywordFrequency `json:"aggregated_keywords,omitempty" yaml:"aggregated_keywords,omitempty"`
}

// AuthorInput is the query an author profile was generated from.
type AuthorInput struct {
	// AuthorName doubles as the entry title.
	AuthorName  string `json:"author_name" yaml:"author_name"`
	Affiliation string `json:"affiliation,omitempty" yaml:"affiliation,omitempty"`
	Context     string `json:"context,omitempty" yaml:"context,omitempty"`
}

// AuthorProfile summarizes an author's career and lists their publications.
type AuthorProfile struct {
	Name             string          `json:"name" yaml:"name"`
	Affiliations     []string        `json:"affiliations,omitempty" yaml:"affiliations,omitempty"`
	PublicationCount int             `json:"publication_count" yaml:"publication_count"`
	CareerSummary    string          `json:"career_summary" yaml:"career_summary"`
	CoreConcepts     []string        `json:"core_concepts,omitempty" yaml:"core_concepts,omitempty"`
	Publications     []RankedArticle `json:"publications" yaml:"publications"`
}
