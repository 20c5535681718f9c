package adapter

import (
	"testing"

	"github.com/nao1215/bundle-advisor/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustDecode decodes a JSON literal into a Document.
func mustDecode(t *testing.T, data string) Document {
	t.Helper()
	doc, err := Decode([]byte(data))
	require.NoError(t, err)
	return doc
}

// assertConsistent checks that module chunk lists only reference emitted
// chunks and never repeat an ID.
func assertConsistent(t *testing.T, input *model.AnalysisInput) {
	t.Helper()

	chunkIDs := make(map[string]bool, len(input.Chunks))
	for _, c := range input.Chunks {
		assert.False(t, chunkIDs[c.ID], "duplicate chunk id %q", c.ID)
		chunkIDs[c.ID] = true
	}

	moduleIDs := make(map[string]bool, len(input.Modules))
	for _, m := range input.Modules {
		assert.False(t, moduleIDs[m.ID], "duplicate module id %q", m.ID)
		moduleIDs[m.ID] = true

		seen := make(map[string]bool)
		for _, c := range m.Chunks {
			assert.True(t, chunkIDs[c], "module %q references unknown chunk %q", m.ID, c)
			assert.False(t, seen[c], "module %q lists chunk %q twice", m.ID, c)
			seen[c] = true
		}
	}

	for _, c := range input.Chunks {
		for _, id := range c.Modules {
			assert.True(t, moduleIDs[id], "chunk %q references unknown module %q", c.ID, id)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("decodes object", func(t *testing.T) {
		t.Parallel()
		doc, err := Decode([]byte(` {"chunks": [], "modules": null} `))
		require.NoError(t, err)
		assert.True(t, doc.Has("chunks"))
		assert.False(t, doc.Has("modules"))
		assert.False(t, doc.Has("assets"))
		assert.True(t, doc.IsArray("chunks"))
	})

	t.Run("non-object root decodes to an empty document", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"[]", "42", `"stats"`, "null", `[{"modules": []}]`} {
			doc, err := Decode([]byte(input))
			require.NoError(t, err, "input %q", input)
			assert.NotNil(t, doc, "input %q", input)
			assert.Empty(t, doc, "input %q", input)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"", "   ", `{"chunks": [`, "{not json", "[1,"} {
			_, err := Decode([]byte(input))
			require.Error(t, err, "input %q", input)
			assert.Contains(t, err.Error(), "invalid JSON", "input %q", input)
		}
	})
}

func TestDetect(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		doc      string
		expected string
	}{
		{
			name:     "webpack with empty arrays",
			doc:      `{"chunks": [], "modules": []}`,
			expected: "webpack stats.json",
		},
		{
			name:     "webpack with module records",
			doc:      `{"modules": [{"id": 1, "name": "./src/index.js", "size": 10}]}`,
			expected: "webpack stats.json",
		},
		{
			name:     "webpack with assets only",
			doc:      `{"assets": [{"name": "main.js", "size": 10}]}`,
			expected: "webpack stats.json",
		},
		{
			name:     "bundle-stats with empty arrays",
			doc:      `{"modules": [], "assets": [], "packages": []}`,
			expected: "bundle-stats.json (Rollup/Vite)",
		},
		{
			name:     "bundle-stats with runs",
			doc:      `{"modules": [{"key": "a", "runs": [{"name": "./a.js", "value": 1}]}]}`,
			expected: "bundle-stats.json (Rollup/Vite)",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a, err := Detect("stats.json", mustDecode(t, tc.doc))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, a.Name())
		})
	}

	t.Run("unrecognized format lists supported formats", func(t *testing.T) {
		t.Parallel()
		_, err := Detect("stats.json", mustDecode(t, `{"version": "5.0.0", "chunks": null}`))
		require.ErrorIs(t, err, ErrUnrecognizedFormat)
		assert.Contains(t, err.Error(), "webpack stats.json")
		assert.Contains(t, err.Error(), "bundle-stats.json")
	})

	t.Run("non-object root is an unrecognized format", func(t *testing.T) {
		t.Parallel()
		for _, input := range []string{"[]", "null", `[{"modules": []}]`} {
			_, err := Detect("stats.json", mustDecode(t, input))
			require.ErrorIs(t, err, ErrUnrecognizedFormat, "input %q", input)
			assert.Contains(t, err.Error(), "supported formats: bundle-stats.json (Rollup/Vite), webpack stats.json")
		}
	})

	t.Run("explicit adapter list", func(t *testing.T) {
		t.Parallel()
		_, err := Detect("stats.json", mustDecode(t, `{"modules": []}`), NewWebpackAdapter())
		require.NoError(t, err)
	})
}
