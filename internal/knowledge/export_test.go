// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litreview/pkg/types"
)

func TestExportRoundTrip(t *testing.T) {
	tagged := article("2", 55)
	tagged.CustomTags = []string{"keep"}
	tagged.IsOpenAccess = true

	src, _, _ := seedStore(t,
		researchEntry("A", "Round trip", article("1", 10), tagged),
		authorEntry("B", "Jane Roe", article("2", 80)),
	)

	for _, name := range []string{"export.json", "nested/export.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			var err error
			if filepath.Ext(name) == ".json" {
				err = src.ExportJSON(path)
			} else {
				err = src.ExportYAML(path)
			}
			require.NoError(t, err)

			items, err := ReadImportFile(path)
			require.NoError(t, err)

			dst, _, _ := seedStore(t)
			require.Equal(t, 2, dst.AddKnowledgeBaseEntries(items))

			assert.Equal(t, ids(src.Entries()), ids(dst.Entries()))
			assert.Equal(t, src.UniqueArticles(), dst.UniqueArticles())
			assert.Equal(t, src.Stats(), dst.Stats())
		})
	}
}

func TestExportEmpty(t *testing.T) {
	s, _, _ := seedStore(t)
	path := filepath.Join(t.TempDir(), "empty.json")

	require.NoError(t, s.ExportJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestExportToUnwritablePath(t *testing.T) {
	s, _, _ := seedStore(t, researchEntry("A", "A", article("1", 10)))
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	assert.Error(t, s.ExportJSON(filepath.Join(blocker, "out.json")))
	assert.Error(t, s.ExportYAML(filepath.Join(blocker, "out.yaml")))
}

func TestExportPreservesEntryTypes(t *testing.T) {
	s, _, _ := seedStore(t,
		researchEntry("A", "A", article("1", 10)),
		authorEntry("B", "B", article("2", 20)),
	)
	path := filepath.Join(t.TempDir(), "kb.yml")
	require.NoError(t, s.ExportYAML(path))

	items, err := ReadImportFile(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	var e types.Entry
	require.NoError(t, e.UnmarshalJSON(items[1]))
	assert.Equal(t, types.EntryAuthor, e.Type())
	assert.Equal(t, "B", e.Title())
}
