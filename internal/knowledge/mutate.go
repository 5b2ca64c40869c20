// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"github.com/pdiddy/litreview/pkg/types"
)

// filterArticles returns a new collection in which each entry keeps only
// the articles for which keep returns true. Entries left without articles
// are dropped. Untouched entries are shared with the input; changed ones
// are cloned. changed reports whether the result differs from entries.
func filterArticles(entries []types.Entry, keep func(entryIndex int, a types.RankedArticle) bool) (next []types.Entry, changed bool) {
	next = make([]types.Entry, 0, len(entries))

	for i, e := range entries {
		articles := e.Articles()
		kept := make([]types.RankedArticle, 0, len(articles))
		for _, a := range articles {
			if keep(i, a) {
				kept = append(kept, a)
			}
		}

		switch {
		case len(kept) == 0:
			changed = true
		case len(kept) == len(articles):
			next = append(next, e)
		default:
			c := e.Clone()
			c.SetArticles(cloneAll(kept))
			next = append(next, c)
			changed = true
		}
	}
	return next, changed
}

func cloneAll(articles []types.RankedArticle) []types.RankedArticle {
	out := make([]types.RankedArticle, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}

// UpdateTags replaces the custom tags of every copy of the article with
// the given PMID, in every entry. The tags are replaced, not merged.
func (s *Store) UpdateTags(pmid string, tags []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]types.Entry, len(s.entries))
	changed := false
	for i, e := range s.entries {
		next[i] = e
		articles := e.Articles()

		hit := false
		for _, a := range articles {
			if a.PMID == pmid {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}

		c := e.Clone()
		updated := c.Articles()
		for j := range updated {
			if updated[j].PMID == pmid {
				updated[j].CustomTags = copyTags(tags)
			}
		}
		c.SetArticles(updated)
		next[i] = c
		changed = true
	}

	if !changed {
		return
	}
	s.entries = next
	s.persist()
}

func copyTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	return append(make([]string, 0, len(tags)), tags...)
}

// DeleteArticles removes every article whose PMID is in pmids from every
// entry and drops entries left empty. It returns the number of articles
// that disappeared from the de-duplicated view.
func (s *Store) DeleteArticles(pmids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	remove := make(map[string]bool, len(pmids))
	for _, p := range pmids {
		remove[p] = true
	}

	before := len(Aggregate(s.entries))
	next, changed := filterArticles(s.entries, func(_ int, a types.RankedArticle) bool {
		return !remove[a.PMID]
	})
	if changed {
		s.entries = next
		s.persist()
	}
	deleted := before - len(Aggregate(s.entries))

	if deleted == 0 {
		s.notifySuccess("No matching articles found in the knowledge base.")
		return 0
	}
	s.notifySuccess("Deleted %d article(s) from the knowledge base.", deleted)
	return deleted
}

// MergeDuplicates collapses every PMID found in more than one entry onto
// the entry holding its best-scored copy (the earliest entry on a tie).
// Each entry keeps the articles unique to it and the duplicates it won;
// entries left empty are dropped. It returns the number of distinct
// duplicate PMIDs merged.
func (s *Store) MergeDuplicates() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, winner := occurrences(s.entries)

	duplicates := 0
	for _, n := range count {
		if n > 1 {
			duplicates++
		}
	}
	if duplicates == 0 {
		s.notifySuccess("No duplicate articles found to merge.")
		return 0
	}

	next, _ := filterArticles(s.entries, func(i int, a types.RankedArticle) bool {
		return count[a.PMID] <= 1 || winner[a.PMID] == i
	})
	s.entries = next
	s.persist()

	s.log.Info().Int("duplicates", duplicates).Int("entries", len(next)).Msg("merged duplicate articles")
	s.notifySuccess("Merged %d duplicate article(s).", duplicates)
	return duplicates
}

// PruneByRelevance removes every article scored strictly below threshold
// and drops entries left empty. It returns the number of articles that
// disappeared from the de-duplicated view, which can be smaller than the
// number of copies removed.
func (s *Store) PruneByRelevance(threshold int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(Aggregate(s.entries))
	next, changed := filterArticles(s.entries, func(_ int, a types.RankedArticle) bool {
		return a.RelevanceScore >= threshold
	})
	if changed {
		s.entries = next
		s.persist()
	}
	pruned := before - len(Aggregate(s.entries))

	if pruned == 0 {
		s.notifySuccess("No articles found with a relevance score below %d.", threshold)
		return 0
	}
	s.notifySuccess("Pruned %d article(s) with a relevance score below %d.", pruned, threshold)
	return pruned
}
