// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// EntryType is the discriminator of a knowledge base entry.
type EntryType string

const (
	EntryResearch EntryType = "research"
	EntryAuthor   EntryType = "author"
)

// Valid reports whether t is a recognized entry type.
func (t EntryType) Valid() bool {
	return t == EntryResearch || t == EntryAuthor
}

// ErrUnknownEntryType is returned when decoding an entry whose type
// discriminator is missing or unrecognized.
var ErrUnknownEntryType = errors.New("unknown entry type")

// EntryPayload is the variant part of an Entry. It is implemented only by
// *ResearchPayload and *AuthorPayload.
type EntryPayload interface {
	entryType() EntryType
}

// ResearchPayload is a saved research report and the query behind it.
type ResearchPayload struct {
	Input  ResearchInput
	Report ResearchReport
}

func (*ResearchPayload) entryType() EntryType { return EntryResearch }

// AuthorPayload is a saved author profile and the query behind it.
type AuthorPayload struct {
	Input   AuthorInput
	Profile AuthorProfile
}

func (*AuthorPayload) entryType() EntryType { return EntryAuthor }

// Entry is one user-saved unit of research output and the unit of
// persistence. It owns its articles through its payload.
type Entry struct {
	// ID is unique within a collection and derived from the creation time.
	ID string

	// Timestamp is the creation time in Unix milliseconds.
	Timestamp int64

	Payload EntryPayload
}

// NewResearchEntry builds a research entry.
func NewResearchEntry(id string, timestamp int64, input ResearchInput, report ResearchReport) Entry {
	return Entry{
		ID:        id,
		Timestamp: timestamp,
		Payload:   &ResearchPayload{Input: input, Report: report},
	}
}

// NewAuthorEntry builds an author entry.
func NewAuthorEntry(id string, timestamp int64, input AuthorInput, profile AuthorProfile) Entry {
	return Entry{
		ID:        id,
		Timestamp: timestamp,
		Payload:   &AuthorPayload{Input: input, Profile: profile},
	}
}

// Type returns the entry's discriminator, or "" when it has no payload.
func (e Entry) Type() EntryType {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.entryType()
}

// Articles returns the articles owned by the entry. A malformed entry
// yields nil rather than failing.
func (e Entry) Articles() []RankedArticle {
	switch p := e.Payload.(type) {
	case *ResearchPayload:
		if p == nil {
			return nil
		}
		return p.Report.RankedArticles
	case *AuthorPayload:
		if p == nil {
			return nil
		}
		return p.Profile.Publications
	default:
		return nil
	}
}

// SetArticles replaces the articles owned by the entry.
func (e *Entry) SetArticles(articles []RankedArticle) {
	switch p := e.Payload.(type) {
	case *ResearchPayload:
		if p != nil {
			p.Report.RankedArticles = articles
		}
	case *AuthorPayload:
		if p != nil {
			p.Profile.Publications = articles
		}
	}
}

// Title is the human label of the entry: the research topic or the
// searched author name.
func (e Entry) Title() string {
	switch p := e.Payload.(type) {
	case *ResearchPayload:
		if p != nil {
			return p.Input.Topic
		}
	case *AuthorPayload:
		if p != nil {
			return p.Input.AuthorName
		}
	}
	return ""
}

// SetTitle rewrites the field Title reads from.
func (e *Entry) SetTitle(title string) {
	switch p := e.Payload.(type) {
	case *ResearchPayload:
		if p != nil {
			p.Input.Topic = title
		}
	case *AuthorPayload:
		if p != nil {
			p.Input.AuthorName = title
		}
	}
}

// Clone returns a deep copy of e.
func (e Entry) Clone() Entry {
	out := Entry{ID: e.ID, Timestamp: e.Timestamp}
	switch p := e.Payload.(type) {
	case *ResearchPayload:
		if p == nil {
			break
		}
		cp := *p
		cp.Input.ArticleTypes = cloneStrings(p.Input.ArticleTypes)
		cp.Report.GeneratedQueries = cloneStrings(p.Report.GeneratedQueries)
		cp.Report.RankedArticles = cloneArticles(p.Report.RankedArticles)
		cp.Report.AIGeneratedInsights = append([]Insight(nil), p.Report.AIGeneratedInsights...)
		cp.Report.AggregatedKeywords = append([]KeywordFrequency(nil), p.Report.AggregatedKeywords...)
		out.Payload = &cp
	case *AuthorPayload:
		if p == nil {
			break
		}
		cp := *p
		cp.Profile.Affiliations = cloneStrings(p.Profile.Affiliations)
		cp.Profile.CoreConcepts = cloneStrings(p.Profile.CoreConcepts)
		cp.Profile.Publications = cloneArticles(p.Profile.Publications)
		out.Payload = &cp
	}
	return out
}

func cloneArticles(articles []RankedArticle) []RankedArticle {
	if articles == nil {
		return nil
	}
	out := make([]RankedArticle, len(articles))
	for i, a := range articles {
		out[i] = a.Clone()
	}
	return out
}

// researchDoc and authorDoc are the flattened wire forms of an Entry.
type researchDoc struct {
	ID        string         `json:"id" yaml:"id"`
	Type      EntryType      `json:"type" yaml:"type"`
	Timestamp int64          `json:"timestamp" yaml:"timestamp"`
	Input     ResearchInput  `json:"input" yaml:"input"`
	Report    ResearchReport `json:"report" yaml:"report"`
}

type authorDoc struct {
	ID        string        `json:"id" yaml:"id"`
	Type      EntryType     `json:"type" yaml:"type"`
	Timestamp int64         `json:"timestamp" yaml:"timestamp"`
	Input     AuthorInput   `json:"input" yaml:"input"`
	Profile   AuthorProfile `json:"profile" yaml:"profile"`
}

func (e Entry) doc() (any, error) {
	switch p := e.Payload.(type) {
	case *ResearchPayload:
		return researchDoc{ID: e.ID, Type: EntryResearch, Timestamp: e.Timestamp, Input: p.Input, Report: p.Report}, nil
	case *AuthorPayload:
		return authorDoc{ID: e.ID, Type: EntryAuthor, Timestamp: e.Timestamp, Input: p.Input, Profile: p.Profile}, nil
	default:
		return nil, fmt.Errorf("entry %s: %w", e.ID, ErrUnknownEntryType)
	}
}

// MarshalJSON writes the entry with its payload fields next to "type".
func (e Entry) MarshalJSON() ([]byte, error) {
	d, err := e.doc()
	if err != nil {
		return nil, err
	}
	return json.Marshal(d)
}

// UnmarshalJSON reads an entry written by MarshalJSON. Legacy numeric ids
// are accepted and kept in their decimal form; a missing id is left empty
// for the caller to fill in.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var head struct {
		ID        json.RawMessage `json:"id"`
		Type      EntryType       `json:"type"`
		Timestamp int64           `json:"timestamp"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	id, err := decodeID(head.ID)
	if err != nil {
		return fmt.Errorf("decoding entry id: %w", err)
	}

	switch head.Type {
	case EntryResearch:
		var body struct {
			Input  ResearchInput  `json:"input"`
			Report ResearchReport `json:"report"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("decoding research entry: %w", err)
		}
		*e = NewResearchEntry(id, head.Timestamp, body.Input, body.Report)
	case EntryAuthor:
		var body struct {
			Input   AuthorInput   `json:"input"`
			Profile AuthorProfile `json:"profile"`
		}
		if err := json.Unmarshal(data, &body); err != nil {
			return fmt.Errorf("decoding author entry: %w", err)
		}
		*e = NewAuthorEntry(id, head.Timestamp, body.Input, body.Profile)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntryType, head.Type)
	}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// MarshalYAML writes the same flattened form as MarshalJSON.
func (e Entry) MarshalYAML() (any, error) {
	return e.doc()
}

// UnmarshalYAML reads an entry written by MarshalYAML.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	var head struct {
		ID        string    `yaml:"id"`
		Type      EntryType `yaml:"type"`
		Timestamp int64     `yaml:"timestamp"`
	}
	if err := node.Decode(&head); err != nil {
		return err
	}

	switch head.Type {
	case EntryResearch:
		var d researchDoc
		if err := node.Decode(&d); err != nil {
			return fmt.Errorf("decoding research entry: %w", err)
		}
		*e = NewResearchEntry(head.ID, head.Timestamp, d.Input, d.Report)
	case EntryAuthor:
		var d authorDoc
		if err := node.Decode(&d); err != nil {
			return fmt.Errorf("decoding author entry: %w", err)
		}
		*e = NewAuthorEntry(head.ID, head.Timestamp, d.Input, d.Profile)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEntryType, head.Type)
	}
	return nil
}
