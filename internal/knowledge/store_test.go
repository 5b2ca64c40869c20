// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/internal/notify"
	"github.com/pdiddy/litreview/internal/storage"
	"github.com/pdiddy/litreview/pkg/types"
)

// --- test helpers ---

func article(pmid string, score int) types.RankedArticle {
	return types.RankedArticle{
		PMID:           pmid,
		Title:          "Article " + pmid,
		Authors:        "Smith J, Doe A",
		Journal:        "J Test Med",
		PubYear:        "2023",
		Summary:        "Summary of " + pmid,
		RelevanceScore: score,
		Keywords:       []string{"kw-" + pmid},
	}
}

func researchEntry(id, topic string, articles ...types.RankedArticle) types.Entry {
	return types.NewResearchEntry(id, 1700000000000, types.ResearchInput{Topic: topic},
		types.ResearchReport{RankedArticles: articles, SynthesizedSummary: "synthesis"})
}

func authorEntry(id, name string, articles ...types.RankedArticle) types.Entry {
	return types.NewAuthorEntry(id, 1700000000000, types.AuthorInput{AuthorName: name},
		types.AuthorProfile{Name: name, Publications: articles})
}

// seedStore persists entries to a memory backend and opens a store on it.
func seedStore(t *testing.T, entries ...types.Entry) (*Store, *storage.Memory, *notify.Recorder) {
	t.Helper()
	mem := storage.NewMemory(0)
	if len(entries) > 0 {
		data, err := json.Marshal(entries)
		require.NoError(t, err)
		require.NoError(t, mem.Save(data))
	}
	rec := &notify.Recorder{}
	s := NewStore(types.KnowledgeBaseConfig{}, mem, rec, zerolog.Nop())
	s.now = func() time.Time { return time.UnixMilli(1710000000000) }
	return s, mem, rec
}

// persisted decodes the collection currently stored in mem.
func persisted(t *testing.T, mem *storage.Memory) []types.Entry {
	t.Helper()
	data, err := mem.Load()
	require.NoError(t, err)
	var entries []types.Entry
	require.NoError(t, json.Unmarshal(data, &entries))
	return entries
}

func lastMessage(t *testing.T, rec *notify.Recorder) notify.Notification {
	t.Helper()
	n, ok := rec.Last()
	require.True(t, ok, "expected a notification")
	return n
}

func ids(entries []types.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

// --- load tests ---

func TestNewStoreEmptyBackend(t *testing.T) {
	s, _, _ := seedStore(t)
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.UniqueArticles())
}

func TestNewStoreLoadsEntriesInOrder(t *testing.T) {
	s, _, _ := seedStore(t,
		researchEntry("a", "Topic A", article("1", 10)),
		authorEntry("b", "Jane Roe", article("2", 20)),
	)

	entries := s.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, []string{"a", "b"}, ids(entries))
	assert.Equal(t, types.EntryAuthor, entries[1].Type())
	assert.Equal(t, "Jane Roe", entries[1].Title())
}

func TestNewStoreCorruptDataFallsBackToEmpty(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"malformed JSON", `[{"id": "1", "type": "research"`},
		{"not an array", `{"id": "1"}`},
		{"plain string", `"hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMemory(0)
			require.NoError(t, mem.Save([]byte(tt.blob)))

			s := NewStore(types.KnowledgeBaseConfig{}, mem, nil, zerolog.Nop())
			assert.Equal(t, 0, s.Len())
		})
	}
}

type failingLoad struct{ storage.Memory }

func (f *failingLoad) Load() ([]byte, error) { return nil, errors.New("read error") }

func TestNewStoreLoadErrorFallsBackToEmpty(t *testing.T) {
	s := NewStore(types.KnowledgeBaseConfig{}, &failingLoad{}, nil, zerolog.Nop())
	assert.Equal(t, 0, s.Len())
}

func TestNewStoreSynthesizesLegacyIDs(t *testing.T) {
	blob := `[
		{"type": "research", "timestamp": 1600000000000, "input": {"topic": "old"}, "report": {"ranked_articles": [{"pmid": "1", "relevance_score": 5}]}},
		{"id": 1650000000000, "type": "author", "timestamp": 1650000000000, "input": {"author_name": "Numeric Id"}, "profile": {"publications": [{"pmid": "2"}]}},
		{"type": "research", "input": {"topic": "no timestamp"}, "report": {"ranked_articles": [{"pmid": "3"}]}}
	]`
	mem := storage.NewMemory(0)
	require.NoError(t, mem.Save([]byte(blob)))

	s := NewStore(types.KnowledgeBaseConfig{}, mem, nil, zerolog.Nop())

	assert.Equal(t, []string{"1600000000000-0", "1650000000000", "0-2"}, ids(s.Entries()))
}

func TestNewStoreSkipsUnknownEntryTypes(t *testing.T) {
	blob := `[
		{"id": "a", "type": "research", "input": {"topic": "kept"}, "report": {"ranked_articles": [{"pmid": "1"}]}},
		{"id": "b", "type": "podcast"},
		{"id": "c", "type": "author", "input": {"author_name": "kept too"}, "profile": {"publications": [{"pmid": "2"}]}}
	]`
	mem := storage.NewMemory(0)
	require.NoError(t, mem.Save([]byte(blob)))

	s := NewStore(types.KnowledgeBaseConfig{}, mem, nil, zerolog.Nop())

	assert.Equal(t, []string{"a", "c"}, ids(s.Entries()))
}

// --- save tests ---

func TestSaveReport(t *testing.T) {
	s, mem, rec := seedStore(t)

	report := types.ResearchReport{
		RankedArticles:     []types.RankedArticle{article("100", 80)},
		SynthesizedSummary: "Statins reduce events.",
		GeneratedQueries:   []string{"statins[tiab]"},
	}
	ok := s.SaveReport(types.ResearchInput{Topic: "Statins"}, report)
	require.True(t, ok)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "1710000000000", entries[0].ID)
	assert.Equal(t, int64(1710000000000), entries[0].Timestamp)
	assert.Equal(t, types.EntryResearch, entries[0].Type())
	assert.Equal(t, "Statins", entries[0].Title())

	assert.Equal(t, ids(entries), ids(persisted(t, mem)))
	assert.Equal(t, notify.Success, lastMessage(t, rec).Kind)
}

func TestSaveLogsEntryContext(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	s := NewStore(types.KnowledgeBaseConfig{}, storage.NewMemory(0), nil, log)
	s.now = func() time.Time { return time.UnixMilli(1710000000000) }

	s.SaveAuthorProfile(types.AuthorInput{AuthorName: "Jane Roe"},
		types.AuthorProfile{Publications: []types.RankedArticle{article("7", 60), article("8", 10)}})

	out := buf.String()
	assert.Contains(t, out, `"message":"entry saved"`)
	assert.Contains(t, out, `"entry_id":"1710000000000"`)
	assert.Contains(t, out, `"entry_type":"author"`)
	assert.Contains(t, out, `"articles":2`)
}

func TestSaveReportDoesNotAliasCaller(t *testing.T) {
	s, _, _ := seedStore(t)

	articles := []types.RankedArticle{article("100", 80)}
	s.SaveReport(types.ResearchInput{Topic: "T"}, types.ResearchReport{RankedArticles: articles})
	articles[0].RelevanceScore = 1

	assert.Equal(t, 80, s.UniqueArticles()[0].RelevanceScore)
}

func TestSaveAuthorProfile(t *testing.T) {
	s, mem, rec := seedStore(t)

	ok := s.SaveAuthorProfile(types.AuthorInput{AuthorName: "Jane Roe"},
		types.AuthorProfile{Name: "Jane Roe", PublicationCount: 1, Publications: []types.RankedArticle{article("7", 60)}})
	require.True(t, ok)

	entries := persisted(t, mem)
	require.Len(t, entries, 1)
	assert.Equal(t, types.EntryAuthor, entries[0].Type())
	assert.Equal(t, "Jane Roe", entries[0].Title())
	assert.Contains(t, lastMessage(t, rec).Message, "Author profile saved")
}

func TestSaveGeneratesDistinctIDsWithinOneMillisecond(t *testing.T) {
	s, _, _ := seedStore(t)

	s.SaveReport(types.ResearchInput{Topic: "one"}, types.ResearchReport{RankedArticles: []types.RankedArticle{article("1", 1)}})
	s.SaveReport(types.ResearchInput{Topic: "two"}, types.ResearchReport{RankedArticles: []types.RankedArticle{article("2", 1)}})
	s.AddSingleArticleReport(article("3", 1))

	assert.Equal(t, []string{"1710000000000", "1710000000001", "1710000000002"}, ids(s.Entries()))
}

func TestAddSingleArticleReport(t *testing.T) {
	s, _, rec := seedStore(t)

	a := article("555", 70)
	a.Title = "Gut microbiome and depression"
	require.True(t, s.AddSingleArticleReport(a))

	entries := s.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, types.EntryResearch, e.Type())
	assert.Equal(t, "Article: Gut microbiome and depression", e.Title())
	require.Len(t, e.Articles(), 1)
	assert.Equal(t, "555", e.Articles()[0].PMID)

	p, ok := e.Payload.(*types.ResearchPayload)
	require.True(t, ok)
	assert.NotEmpty(t, p.Report.SynthesizedSummary)
	assert.Contains(t, lastMessage(t, rec).Message, "Gut microbiome and depression")
}

// --- persistence failure tests ---

func TestPersistFailureKeepsMemoryAndNotifies(t *testing.T) {
	s, mem, rec := seedStore(t, researchEntry("a", "A", article("1", 10)))
	mem.FailWith = &storage.QuotaError{Size: 10, Limit: 5}

	ok := s.SaveReport(types.ResearchInput{Topic: "B"}, types.ResearchReport{RankedArticles: []types.RankedArticle{article("2", 20)}})
	assert.True(t, ok)

	// The session keeps both entries even though the write failed.
	assert.Equal(t, 2, s.Len())
	assert.Len(t, persisted(t, mem), 1)

	all := rec.All()
	require.Len(t, all, 2)
	assert.Equal(t, notify.Error, all[0].Kind)
	assert.Contains(t, all[0].Message, "storage may be full")
	assert.Equal(t, notify.Success, all[1].Kind)
}

func TestPersistRealQuota(t *testing.T) {
	mem := storage.NewMemory(64)
	rec := &notify.Recorder{}
	s := NewStore(types.KnowledgeBaseConfig{}, mem, rec, zerolog.Nop())

	s.SaveReport(types.ResearchInput{Topic: "a topic long enough to blow a tiny quota"},
		types.ResearchReport{RankedArticles: []types.RankedArticle{article("1", 1)}})

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 0, mem.Saves())
	assert.Equal(t, notify.Error, rec.All()[0].Kind)
}

// --- clear and rename tests ---

func TestClearKnowledgeBase(t *testing.T) {
	s, mem, _ := seedStore(t,
		researchEntry("a", "A", article("1", 10)),
		authorEntry("b", "B", article("2", 20)),
	)

	s.ClearKnowledgeBase()

	assert.Equal(t, 0, s.Len())
	data, err := mem.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestUpdateEntryTitle(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantTitle map[string]string
		wantSaves int
	}{
		{"research topic", "a", map[string]string{"a": "New topic", "b": "Jane Roe"}, 1},
		{"author name", "b", map[string]string{"a": "Old topic", "b": "New topic"}, 1},
		{"unknown id is a no-op", "zzz", map[string]string{"a": "Old topic", "b": "Jane Roe"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mem, _ := seedStore(t,
				researchEntry("a", "Old topic", article("1", 10)),
				authorEntry("b", "Jane Roe", article("2", 20)),
			)
			saves := mem.Saves()

			s.UpdateEntryTitle(tt.id, "New topic")

			for _, e := range s.Entries() {
				assert.Equal(t, tt.wantTitle[e.ID], e.Title(), "entry %s", e.ID)
			}
			assert.Equal(t, tt.wantSaves, mem.Saves()-saves)
		})
	}
}

func TestUpdateEntryTitleRenamesAggregatedSource(t *testing.T) {
	s, _, _ := seedStore(t, researchEntry("a", "Old", article("1", 10)))

	s.UpdateEntryTitle("a", "Renamed")

	assert.Equal(t, "Renamed", s.UniqueArticles()[0].SourceTitle)
}

func TestEntriesReturnsCopies(t *testing.T) {
	s, _, _ := seedStore(t, researchEntry("a", "A", article("1", 10)))

	entries := s.Entries()
	entries[0].SetTitle("mutated")
	entries[0].Articles()[0].RelevanceScore = 99

	e, ok := s.Entry("a")
	require.True(t, ok)
	assert.Equal(t, "A", e.Title())
	assert.Equal(t, 10, e.Articles()[0].RelevanceScore)

	_, ok = s.Entry("missing")
	assert.False(t, ok)
}
