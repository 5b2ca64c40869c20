// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litreview/pkg/types"
)

// importEnvelope is the part of an imported item checked before it is
// admitted into the collection.
type importEnvelope struct {
	Type string `json:"type" validate:"required,oneof=research author"`
}

var validate = validator.New()

// AddKnowledgeBaseEntries appends externally supplied entries, such as
// those read from an import file. Items without a recognized type, or that
// do not decode as an entry of that type, are dropped; the rest are
// appended in their original order. Items without an id get a fresh one.
// It returns the number of entries added.
func (s *Store) AddKnowledgeBaseEntries(items []json.RawMessage) int {
	admitted := make([]types.Entry, 0, len(items))
	for i, item := range items {
		e, err := decodeImportItem(item)
		if err != nil {
			s.log.Debug().Err(err).Int("index", i).Msg("dropping import item")
			continue
		}
		admitted = append(admitted, e)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(admitted) == 0 {
		s.notifyError("No valid entries found to import.")
		return 0
	}

	next := make([]types.Entry, len(s.entries), len(s.entries)+len(admitted))
	copy(next, s.entries)
	for _, e := range admitted {
		if e.ID == "" {
			id, ts := s.nextID(next)
			e.ID = id
			if e.Timestamp == 0 {
				e.Timestamp = ts
			}
		}
		next = append(next, e)
	}
	s.entries = next
	s.persist()

	s.log.Info().
		Int("admitted", len(admitted)).
		Int("dropped", len(items)-len(admitted)).
		Msg("imported entries")
	s.notifySuccess("Imported %d entries into the knowledge base.", len(admitted))
	return len(admitted)
}

func decodeImportItem(item json.RawMessage) (types.Entry, error) {
	var env importEnvelope
	if err := json.Unmarshal(item, &env); err != nil {
		return types.Entry{}, fmt.Errorf("reading envelope: %w", err)
	}
	if err := validate.Struct(env); err != nil {
		return types.Entry{}, fmt.Errorf("%w: %v", types.ErrUnknownEntryType, err)
	}

	var e types.Entry
	if err := json.Unmarshal(item, &e); err != nil {
		return types.Entry{}, err
	}
	return e, nil
}

// ReadImportFile reads candidate entries from a JSON array or, for .yaml
// and .yml files, a YAML sequence. Items are returned undecoded so the
// store can validate each one on its own.
func ReadImportFile(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLItems(data)
	default:
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parsing %s: expected a JSON array of entries: %w", path, err)
		}
		return items, nil
	}
}

// parseYAMLItems converts each element of a YAML sequence to JSON so YAML
// and JSON imports go through the same validation. Elements that decode as
// an entry are re-encoded from the typed value, so scalars such as an
// unquoted pmid keep their string form. Anything else is converted as is
// and left for the store to reject.
func parseYAMLItems(data []byte) ([]json.RawMessage, error) {
	var seq []yaml.Node
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, fmt.Errorf("parsing YAML: expected a sequence of entries: %w", err)
	}

	items := make([]json.RawMessage, 0, len(seq))
	for i := range seq {
		b, err := yamlItemJSON(&seq[i])
		if err != nil {
			return nil, fmt.Errorf("converting item %d: %w", i, err)
		}
		items = append(items, b)
	}
	return items, nil
}

func yamlItemJSON(node *yaml.Node) (json.RawMessage, error) {
	var e types.Entry
	if err := node.Decode(&e); err == nil {
		return json.Marshal(e)
	}

	var v any
	if err := node.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
