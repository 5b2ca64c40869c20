// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography turns knowledge base articles into citable
// references: stable AuthorYear citation keys, CSL-YAML for Pandoc and
// reference managers, and BibTeX.
package bibliography

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/litreview/pkg/types"
)

// Reference is one article prepared for citation.
type Reference struct {
	Key     string
	Article types.RankedArticle
}

// References assigns citation keys to articles in order. Keys are the first
// author's family name followed by the publication year ("Smith2023").
// Repeated keys get a letter suffix ("Smith2023a", "Smith2023b"). Articles
// without a usable author fall back to "PMID<pmid>".
func References(articles []types.AggregatedArticle) []Reference {
	refs := make([]Reference, 0, len(articles))
	used := make(map[string]int)

	for _, a := range articles {
		base := baseKey(a.RankedArticle)
		key := base
		if n := used[base]; n > 0 {
			key = base + suffix(n)
		}
		used[base]++
		refs = append(refs, Reference{Key: key, Article: a.RankedArticle.Clone()})
	}
	return refs
}

func baseKey(a types.RankedArticle) string {
	names := ParseAuthors(a.Authors)
	family := ""
	if len(names) > 0 {
		family = names[0].Family
		if family == "" {
			family = names[0].Literal
		}
	}
	family = keySafe(family)
	if family == "" {
		return "PMID" + keySafe(a.PMID)
	}
	if year, ok := Year(a.PubYear); ok {
		return family + strconv.Itoa(year)
	}
	return family
}

// suffix maps 1 to "a", 26 to "z", 27 to "aa".
func suffix(n int) string {
	s := ""
	for n > 0 {
		n--
		s = string(rune('a'+n%26)) + s
		n /= 26
	}
	return s
}

// keySafe keeps letters, digits, hyphens, and underscores.
func keySafe(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Year extracts the four-digit year from a PubMed year field such as
// "2023" or "2023 Mar".
func Year(pubYear string) (int, bool) {
	for _, f := range strings.Fields(pubYear) {
		if len(f) == 4 {
			if y, err := strconv.Atoi(f); err == nil {
				return y, true
			}
		}
	}
	return 0, false
}

// ParseAuthors splits a PubMed author list ("Smith J, Doe AB") into CSL
// names. PubMed puts the family name first and the initials last; a
// single-token name is kept as a literal.
func ParseAuthors(authors string) []CSLName {
	var names []CSLName
	for _, part := range strings.Split(authors, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.EqualFold(part, "et al") || strings.EqualFold(part, "et al.") {
			continue
		}
		idx := strings.LastIndex(part, " ")
		if idx < 0 {
			names = append(names, CSLName{Literal: part})
			continue
		}
		names = append(names, CSLName{
			Family: part[:idx],
			Given:  part[idx+1:],
		})
	}
	return names
}
