// Tests for JSONL persistence in the SQLite backend.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

func TestJSONLFilesCreatedOnAttach(t *testing.T) {
	b := setupBackend(t)

	for _, name := range jsonlFiles {
		info, err := os.Stat(filepath.Join(b.DataDir(), name))
		require.NoError(t, err, "%s must exist after Attach", name)
		assert.Zero(t, info.Size())
	}
}

func TestJSONLExistingFileKept(t *testing.T) {
	dir := t.TempDir()
	line := `{"id":7,"name":"Kept","price":1,"stock":1,"created_at":"2025-01-15T10:30:00Z","updated_at":"2025-01-15T10:30:00Z"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, productsJSONL), []byte(line), 0o644))

	require.NoError(t, initJSONLFiles(dir))

	data, err := os.ReadFile(filepath.Join(dir, productsJSONL))
	require.NoError(t, err)
	assert.Equal(t, line, string(data))
}

func TestJSONLWrittenOnEveryWrite(t *testing.T) {
	b := setupBackend(t)
	table := productsOf(t, b)
	path := filepath.Join(b.DataDir(), productsJSONL)

	first, err := table.Set("", &types.Product{Name: "One"})
	require.NoError(t, err)
	_, err = table.Set("", &types.Product{Name: "Two"})
	require.NoError(t, err)

	lines := readLines(t, path)
	require.Len(t, lines, 2)
	var p types.Product
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &p))
	assert.Equal(t, int64(1), p.ID)
	assert.Equal(t, "One", p.Name)

	require.NoError(t, table.Delete(first))
	lines = readLines(t, path)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"Two"`)
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	content := "{\"a\":1}\n\nnot json\n{\"b\":2}\n{broken\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	records, err := readJSONL(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.JSONEq(t, `{"a":1}`, string(records[0]))
	assert.JSONEq(t, `{"b":2}`, string(records[1]))
}

func TestReadJSONLMissingFile(t *testing.T) {
	_, err := readJSONL(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestWriteJSONLAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))

	records := []json.RawMessage{json.RawMessage(`{"x":1}`), json.RawMessage(`{"x":2}`)}
	require.NoError(t, writeJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"x\":1}\n{\"x\":2}\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "\n")
}
