// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibliography

import (
	"fmt"
	"io"
	"strings"
)

var bibtexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	"{", `\{`,
	"}", `\}`,
	"&", `\&`,
	"%", `\%`,
	"$", `\$`,
	"#", `\#`,
	"_", `\_`,
)

// FormatBibTeX writes refs as BibTeX @article entries to w.
func FormatBibTeX(refs []Reference, w io.Writer) error {
	var b strings.Builder
	for _, r := range refs {
		a := r.Article
		fmt.Fprintf(&b, "@article{%s,\n", r.Key)
		field(&b, "title", a.Title)
		if names := ParseAuthors(a.Authors); len(names) > 0 {
			authors := make([]string, len(names))
			for i, n := range names {
				authors[i] = bibtexName(n)
			}
			fmt.Fprintf(&b, "  author = {%s},\n", strings.Join(authors, " and "))
		}
		if y, ok := Year(a.PubYear); ok {
			fmt.Fprintf(&b, "  year = {%d},\n", y)
		}
		field(&b, "journal", a.Journal)
		field(&b, "pmid", a.PMID)
		field(&b, "keywords", strings.Join(a.Keywords, ", "))
		b.WriteString("}\n\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func field(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "  %s = {%s},\n", name, bibtexEscaper.Replace(value))
}

// bibtexName escapes the name parts before bracing a literal name, so the
// protecting braces survive as BibTeX grouping.
func bibtexName(n CSLName) string {
	if n.Literal != "" {
		return "{" + bibtexEscaper.Replace(n.Literal) + "}"
	}
	return bibtexEscaper.Replace(n.Family) + ", " + bibtexEscaper.Replace(n.Given)
}
