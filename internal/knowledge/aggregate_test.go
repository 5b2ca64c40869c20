// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/pkg/types"
)

func scores(articles []types.AggregatedArticle) map[string]int {
	out := make(map[string]int, len(articles))
	for _, a := range articles {
		out[a.PMID] = a.RelevanceScore
	}
	return out
}

func pmids(articles []types.AggregatedArticle) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.PMID
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		entries    []types.Entry
		wantPMIDs  []string
		wantScore  map[string]int
		wantSource map[string]string
	}{
		{
			name:      "empty collection",
			entries:   nil,
			wantPMIDs: []string{},
		},
		{
			name: "higher score in later entry wins",
			entries: []types.Entry{
				researchEntry("A", "Topic A", article("100", 40)),
				researchEntry("B", "Topic B", article("100", 85)),
			},
			wantPMIDs:  []string{"100"},
			wantScore:  map[string]int{"100": 85},
			wantSource: map[string]string{"100": "B"},
		},
		{
			name: "tie keeps earliest entry",
			entries: []types.Entry{
				researchEntry("A", "Topic A", article("100", 60)),
				researchEntry("B", "Topic B", article("100", 60)),
			},
			wantPMIDs:  []string{"100"},
			wantScore:  map[string]int{"100": 60},
			wantSource: map[string]string{"100": "A"},
		},
		{
			name: "lower score in later entry loses",
			entries: []types.Entry{
				researchEntry("A", "Topic A", article("100", 90)),
				authorEntry("B", "Jane Roe", article("100", 10)),
			},
			wantPMIDs:  []string{"100"},
			wantScore:  map[string]int{"100": 90},
			wantSource: map[string]string{"100": "A"},
		},
		{
			name: "first-seen order survives replacement",
			entries: []types.Entry{
				researchEntry("A", "Topic A", article("1", 10), article("2", 20)),
				authorEntry("B", "Jane Roe", article("3", 30), article("1", 99)),
			},
			wantPMIDs:  []string{"1", "2", "3"},
			wantScore:  map[string]int{"1": 99, "2": 20, "3": 30},
			wantSource: map[string]string{"1": "B", "2": "A", "3": "B"},
		},
		{
			name: "duplicate within one entry",
			entries: []types.Entry{
				researchEntry("A", "Topic A", article("7", 5), article("7", 8)),
			},
			wantPMIDs:  []string{"7"},
			wantScore:  map[string]int{"7": 8},
			wantSource: map[string]string{"7": "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.entries)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantPMIDs, pmids(got))
			for pmid, want := range tt.wantScore {
				assert.Equal(t, want, scores(got)[pmid], "score of %s", pmid)
			}
			for _, a := range got {
				if want, ok := tt.wantSource[a.PMID]; ok {
					assert.Equal(t, want, a.SourceID, "source of %s", a.PMID)
				}
			}
		})
	}
}

func TestAggregateSourceTitle(t *testing.T) {
	got := Aggregate([]types.Entry{
		researchEntry("A", "Statins and CVD", article("1", 10)),
		authorEntry("B", "Jane Roe", article("2", 10)),
	})

	require.Len(t, got, 2)
	assert.Equal(t, "Statins and CVD", got[0].SourceTitle)
	assert.Equal(t, "Jane Roe", got[1].SourceTitle)
}

func TestAggregateIsPure(t *testing.T) {
	entries := []types.Entry{
		researchEntry("A", "A", article("1", 10), article("2", 50)),
		authorEntry("B", "B", article("2", 70), article("3", 30)),
	}

	first := Aggregate(entries)
	second := Aggregate(entries)
	assert.Equal(t, first, second)

	// Mutating the view must not leak back into the collection.
	first[0].RelevanceScore = 1000
	first[0].Keywords[0] = "changed"
	assert.Equal(t, second, Aggregate(entries))
}

func TestUniqueArticlesOnePerPMID(t *testing.T) {
	s, _, _ := seedStore(t,
		researchEntry("A", "A", article("1", 10), article("2", 20), article("3", 30)),
		researchEntry("B", "B", article("2", 25), article("3", 5)),
		authorEntry("C", "C", article("1", 10), article("4", 40)),
	)

	got := s.UniqueArticles()
	assert.Equal(t, []string{"1", "2", "3", "4"}, pmids(got))
	assert.Equal(t, map[string]int{"1": 10, "2": 25, "3": 30, "4": 40}, scores(got))
	assert.Equal(t, "A", got[0].SourceID)
}

func TestArticle(t *testing.T) {
	s, _, _ := seedStore(t,
		researchEntry("A", "A", article("1", 10), article("2", 20)),
		authorEntry("B", "B", article("2", 45)),
	)

	got, ok := s.Article("2")
	require.True(t, ok)
	assert.Equal(t, 45, got.RelevanceScore)
	assert.Equal(t, "B", got.SourceID)

	_, ok = s.Article("999")
	assert.False(t, ok)
}
