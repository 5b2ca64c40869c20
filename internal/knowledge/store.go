// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package knowledge is the knowledge base store: an ordered collection of
// saved research reports and author profiles, the de-duplicated article
// view derived from it, and the mutations that keep the two consistent.
//
// The collection is the unit of persistence. Every mutation builds a new
// collection, swaps it in, and writes the whole thing to the storage
// backend. A failed write is reported through the notifier and otherwise
// ignored: the in-memory collection stays authoritative for the session.
package knowledge

import (
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/litreview/internal/notify"
	"github.com/pdiddy/litreview/internal/observability"
	"github.com/pdiddy/litreview/internal/storage"
	"github.com/pdiddy/litreview/pkg/types"
)

const defaultMaxResults = 50

// Store owns the entry collection. It is safe for use from several
// goroutines, but it assumes it is the only writer of its backend.
type Store struct {
	mu         sync.Mutex
	entries    []types.Entry
	backend    storage.Backend
	notifier   notify.Notifier
	log        zerolog.Logger
	maxResults int
	now        func() time.Time
}

// NewStore loads the collection from backend and returns a store around
// it. Loading never fails: a missing or corrupt blob yields an empty
// collection.
func NewStore(cfg types.KnowledgeBaseConfig, backend storage.Backend, notifier notify.Notifier, log zerolog.Logger) *Store {
	if notifier == nil {
		notifier = notify.Discard
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		backend:    backend,
		notifier:   notifier,
		log:        log,
		maxResults: maxResults,
		now:        time.Now,
	}
	s.entries = s.load()
	return s
}

// load reads the persisted collection. Legacy entries without an id get
// "<timestamp>-<index>" so existing data is never dropped for lack of one.
func (s *Store) load() []types.Entry {
	data, err := s.backend.Load()
	if err != nil {
		s.log.Error().Err(err).Msg("reading knowledge base failed, starting empty")
		return []types.Entry{}
	}
	if len(data) == 0 {
		return []types.Entry{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Error().Err(err).Int("bytes", len(data)).Msg("knowledge base is corrupt, starting empty")
		return []types.Entry{}
	}

	entries := make([]types.Entry, 0, len(raw))
	for i, item := range raw {
		var e types.Entry
		if err := json.Unmarshal(item, &e); err != nil {
			s.log.Warn().Err(err).Int("index", i).Msg("skipping unreadable entry")
			continue
		}
		if e.ID == "" {
			e.ID = fmt.Sprintf("%d-%d", e.Timestamp, i)
		}
		entries = append(entries, e)
	}

	s.log.Debug().Int("entries", len(entries)).Msg("knowledge base loaded")
	return entries
}

// persist writes the whole collection. Callers hold s.mu.
func (s *Store) persist() {
	entries := s.entries
	if entries == nil {
		entries = []types.Entry{}
	}

	data, err := json.Marshal(entries)
	if err == nil {
		err = s.backend.Save(data)
	}
	if err != nil {
		s.log.Error().Err(err).
			Int("entries", len(entries)).
			Int("bytes", len(data)).
			Msg("persisting knowledge base failed")
		s.notifyError("Could not save the knowledge base; storage may be full. Changes are kept for this session only.")
	}
}

func (s *Store) notifySuccess(format string, args ...any) {
	s.notifier.Notify(notify.Notification{Message: fmt.Sprintf(format, args...), Kind: notify.Success})
}

func (s *Store) notifyError(format string, args ...any) {
	s.notifier.Notify(notify.Notification{Message: fmt.Sprintf(format, args...), Kind: notify.Error})
}

// nextID returns an id derived from the current time that is not used in
// entries, along with the creation timestamp.
func (s *Store) nextID(entries []types.Entry) (string, int64) {
	ts := s.now().UnixMilli()

	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		taken[e.ID] = true
	}

	n := ts
	for taken[strconv.FormatInt(n, 10)] {
		n++
	}
	return strconv.FormatInt(n, 10), ts
}

// appendEntry adds e with a fresh id and persists. Callers hold s.mu.
func (s *Store) appendEntry(e types.Entry) {
	e.ID, e.Timestamp = s.nextID(s.entries)

	next := make([]types.Entry, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	s.entries = append(next, e)
	s.persist()

	lg := observability.WithEntryContext(s.log, e.ID, e.Type())
	lg.Debug().
		Int("articles", len(e.Articles())).
		Msg("entry saved")
}

// Entries returns a deep copy of the collection in order.
func (s *Store) Entries() []types.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.Clone()
	}
	return out
}

// Entry returns a copy of the first entry with the given id.
func (s *Store) Entry(id string) (types.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e.Clone(), true
		}
	}
	return types.Entry{}, false
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// SaveReport appends a research entry for input and report.
func (s *Store) SaveReport(input types.ResearchInput, report types.ResearchReport) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := types.NewResearchEntry("", 0, input, report).Clone()
	s.appendEntry(e)
	s.notifySuccess("Report saved to the knowledge base.")
	return true
}

// SaveAuthorProfile appends an author entry for input and profile.
func (s *Store) SaveAuthorProfile(input types.AuthorInput, profile types.AuthorProfile) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := types.NewAuthorEntry("", 0, input, profile).Clone()
	s.appendEntry(e)
	s.notifySuccess("Author profile saved to the knowledge base.")
	return true
}

// AddSingleArticleReport promotes one article into the collection as a
// minimal research entry of its own.
func (s *Store) AddSingleArticleReport(article types.RankedArticle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	input := types.ResearchInput{Topic: "Article: " + article.Title}
	report := types.ResearchReport{
		RankedArticles:     []types.RankedArticle{article.Clone()},
		SynthesizedSummary: "Single article added to the knowledge base from a similar-article suggestion.",
	}
	s.appendEntry(types.NewResearchEntry("", 0, input, report))
	s.notifySuccess("Article %q added to the knowledge base.", article.Title)
	return true
}

// ClearKnowledgeBase removes every entry. There is no undo.
func (s *Store) ClearKnowledgeBase() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = []types.Entry{}
	s.persist()
	s.notifySuccess("Knowledge base cleared.")
}

// UpdateEntryTitle renames the topic of a research entry or the author
// name of an author entry. An unknown id is a no-op.
func (s *Store) UpdateEntryTitle(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ID != id {
			continue
		}
		renamed := e.Clone()
		renamed.SetTitle(title)

		next := make([]types.Entry, len(s.entries))
		copy(next, s.entries)
		next[i] = renamed
		s.entries = next
		s.persist()
		return
	}
}
