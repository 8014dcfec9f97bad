package theme

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPCookies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pma_theme", Value: "metro"})
	rec := httptest.NewRecorder()
	jar := HTTPCookies{Request: req, Writer: rec, MaxAge: 3600}

	v, ok := jar.Get("pma_theme")
	require.True(t, ok)
	assert.Equal(t, "metro", v)
	_, ok = jar.Get("other")
	assert.False(t, ok)

	require.NoError(t, jar.Set("pma_theme", "original", "pmahomme"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "original", cookies[0].Value)
	assert.Equal(t, 3600, cookies[0].MaxAge)
	assert.Equal(t, "/", cookies[0].Path)
}

func TestHTTPCookiesDefaultRemoves(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "pma_theme", Value: "metro"})
	rec := httptest.NewRecorder()
	jar := HTTPCookies{Request: req, Writer: rec}

	require.NoError(t, jar.Set("pma_theme", "pmahomme", "pmahomme"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	rec = httptest.NewRecorder()
	jar = HTTPCookies{Request: httptest.NewRequest(http.MethodGet, "/", nil), Writer: rec}
	require.NoError(t, jar.Set("pma_theme", "pmahomme", "pmahomme"))
	assert.Empty(t, rec.Result().Cookies(), "nothing to remove")
}

func TestFileJar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.yaml")
	jar := FileJar{Path: path}

	_, ok := jar.Get("pma_theme")
	assert.False(t, ok, "missing file is an empty jar")

	require.NoError(t, jar.Set("pma_theme", "metro", "pmahomme"))
	require.NoError(t, jar.Set("other", "x", ""))
	v, ok := jar.Get("pma_theme")
	require.True(t, ok)
	assert.Equal(t, "metro", v)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "pma_theme: metro")

	require.NoError(t, jar.Set("pma_theme", "pmahomme", "pmahomme"))
	_, ok = jar.Get("pma_theme")
	assert.False(t, ok)
	v, _ = jar.Get("other")
	assert.Equal(t, "x", v)
}

func TestFileJarCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[not: a map"), 0o644))
	jar := FileJar{Path: path}

	_, ok := jar.Get("pma_theme")
	assert.False(t, ok)
	assert.Error(t, jar.Set("pma_theme", "metro", ""))
}

func TestJSONLoader(t *testing.T) {
	root := t.TempDir()
	writeTheme(t, root, "metro", "Metro", "2.9")

	th, err := JSONLoader{}.Load("./themes/metro", filepath.Join(root, "metro"), "metro")
	require.NoError(t, err)
	assert.Equal(t, "metro", th.ID)
	assert.Equal(t, "2.9", th.Version)

	_, err = JSONLoader{}.Load("", filepath.Join(root, "nope"), "nope")
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(root, "metro", MetadataFile), []byte("{"), 0o644))
	_, err = JSONLoader{}.Load("", filepath.Join(root, "metro"), "metro")
	assert.ErrorIs(t, err, ErrInvalidMetadata)
}
