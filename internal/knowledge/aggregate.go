// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import "github.com/pdiddy/litreview/pkg/types"

// Aggregate builds the de-duplicated article view of entries. For each
// PMID it keeps the copy with the strictly highest relevance score; on a
// tie the copy from the earlier entry wins. Articles appear in the order
// their PMID was first seen. The result shares no memory with entries.
//
// The view is rebuilt from scratch on every call, which is fine for
// hundreds of articles. A much larger collection would want an index kept
// up to date by each mutation instead.
func Aggregate(entries []types.Entry) []types.AggregatedArticle {
	out := make([]types.AggregatedArticle, 0)
	index := make(map[string]int)

	for _, e := range entries {
		for _, a := range e.Articles() {
			i, seen := index[a.PMID]
			if seen && a.RelevanceScore <= out[i].RelevanceScore {
				continue
			}
			agg := types.AggregatedArticle{
				RankedArticle: a.Clone(),
				SourceTitle:   e.Title(),
				SourceID:      e.ID,
			}
			if seen {
				out[i] = agg
				continue
			}
			index[a.PMID] = len(out)
			out = append(out, agg)
		}
	}
	return out
}

// UniqueArticles returns the de-duplicated view of the current collection.
func (s *Store) UniqueArticles() []types.AggregatedArticle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Aggregate(s.entries)
}

// Article returns the winning copy of the article with the given PMID.
func (s *Store) Article(pmid string) (types.AggregatedArticle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range Aggregate(s.entries) {
		if a.PMID == pmid {
			return a, true
		}
	}
	return types.AggregatedArticle{}, false
}

// occurrences counts, for every PMID, how many distinct entries contain it,
// and picks the index of the entry holding its winning copy under the same
// rule as Aggregate.
func occurrences(entries []types.Entry) (count map[string]int, winner map[string]int) {
	count = make(map[string]int)
	winner = make(map[string]int)
	best := make(map[string]int)

	for i, e := range entries {
		inEntry := make(map[string]bool)
		for _, a := range e.Articles() {
			if !inEntry[a.PMID] {
				inEntry[a.PMID] = true
				count[a.PMID]++
			}
			if _, ok := winner[a.PMID]; !ok || a.RelevanceScore > best[a.PMID] {
				winner[a.PMID] = i
				best[a.PMID] = a.RelevanceScore
			}
		}
	}
	return count, winner
}
