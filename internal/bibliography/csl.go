// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form.
// Field names follow the CSL-JSON/CSL-YAML schema so output is consumable
// by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty"`
	Keyword        string    `yaml:"keyword,omitempty"`
	PMID           string    `yaml:"PMID,omitempty"`
	PMCID          string    `yaml:"PMCID,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL form using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

const pubmedURL = "https://pubmed.ncbi.nlm.nih.gov/"

// ToCSL converts a reference to a CSL item keyed by its citation key.
func ToCSL(ref Reference) CSLItem {
	a := ref.Article
	item := CSLItem{
		ID:             ref.Key,
		Type:           "article-journal",
		Title:          a.Title,
		Author:         ParseAuthors(a.Authors),
		ContainerTitle: a.Journal,
		Abstract:       a.Summary,
		Keyword:        strings.Join(a.Keywords, ", "),
		PMID:           a.PMID,
		PMCID:          a.PMCID,
	}
	if a.PMID != "" {
		item.URL = pubmedURL + a.PMID + "/"
	}
	if y, ok := Year(a.PubYear); ok {
		item.Issued = &CSLDate{DateParts: [][]int{{y}}}
	}
	return item
}

// FormatCSL writes refs as a CSL-YAML list to w.
func FormatCSL(refs []Reference, w io.Writer) error {
	items := make([]CSLItem, len(refs))
	for i, r := range refs {
		items[i] = ToCSL(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}
