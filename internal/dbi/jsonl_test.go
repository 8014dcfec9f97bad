package dbi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadJSONLSkipsMalformedLines(t *testing.T) {
	path := writeFile(t, "in.jsonl", "{\"a\":1}\n\nnot json\n  {\"b\":2}  \n{broken\n")
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

func TestImportJSONL(t *testing.T) {
	b := openTestBackend(t)
	path := writeFile(t, "users.jsonl",
		`{"name":"Dave","email":"dave@example.com","shoe_size":44}`+"\n"+
			`[1,2,3]`+"\n"+
			`{"id":10,"name":"Eve","bio":{"likes":["sql"]}}`+"\n")

	n, err := b.ImportJSONL("", "users", path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	src, err := b.Query("", "SELECT id, bio FROM users WHERE name = 'Eve'")
	require.NoError(t, err)
	defer src.Close()
	row, err := src.FetchRow()
	require.NoError(t, err)
	assert.Equal(t, int64(10), row[0])
	bio, _ := row[1].(string)
	assert.JSONEq(t, `{"likes":["sql"]}`, bio)
}

func TestImportJSONLRollsBackOnConstraintViolation(t *testing.T) {
	b := openTestBackend(t)
	path := writeFile(t, "users.jsonl",
		`{"name":"Frank"}`+"\n"+
			`{"email":"no-name@example.com"}`+"\n")

	_, err := b.ImportJSONL("", "users", path)
	require.Error(t, err)

	src, err := b.Query("", "SELECT COUNT(*) FROM users WHERE name = 'Frank'")
	require.NoError(t, err)
	defer src.Close()
	row, err := src.FetchRow()
	require.NoError(t, err)
	assert.Equal(t, int64(0), row[0])
}

func TestImportJSONLUnknownTable(t *testing.T) {
	b := openTestBackend(t)
	path := writeFile(t, "x.jsonl", `{"a":1}`+"\n")
	_, err := b.ImportJSONL("", "ghosts", path)
	assert.Error(t, err)
}
