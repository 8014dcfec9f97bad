package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// writeTheme creates root/id/theme.json. An empty name writes an invalid
// metadata file.
func writeTheme(t *testing.T, root, id, name, version string) {
	t.Helper()
	dir := filepath.Join(root, id)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	body := `{"name":"` + name + `","version":"` + version + `","description":"` + id + ` theme"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetadataFile), []byte(body), 0o644))
}

// memJar is an in-memory CookieJar.
type memJar map[string]string

func (j memJar) Get(name string) (string, bool) {
	v, ok := j[name]
	return v, ok
}

func (j memJar) Set(name, value, def string) error {
	if value == "" || value == def {
		delete(j, name)
		return nil
	}
	j[name] = value
	return nil
}

func standardThemes(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTheme(t, root, "pmahomme", "pmahomme", "5.2")
	writeTheme(t, root, "original", "Original", "5.2")
	writeTheme(t, root, "metro", "Metro", "2.9")
	return root
}

func newObserved(cfg Config) (*Manager, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewManager(cfg, WithLogger(zap.New(core))), logs
}

func TestLoadThemesSortedByKey(t *testing.T) {
	root := standardThemes(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("not a theme"), 0o644))

	m := NewManager(Config{Dirs: []string{root}})
	require.NoError(t, m.LoadThemes())

	var ids []string
	for _, s := range m.Themes() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"metro", "original", "pmahomme"}, ids)

	th, ok := m.Theme("original")
	require.True(t, ok)
	assert.Equal(t, "Original", th.Name)
	assert.Equal(t, "original theme", th.Description)
	assert.Equal(t, "./themes/original", th.URLPath)
	assert.Equal(t, filepath.Join(root, "original"), th.FsPath)
}

func TestLoadThemesSkipsInvalidDirectories(t *testing.T) {
	root := standardThemes(t)
	writeTheme(t, root, "broken", "", "1.0")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	m, logs := newObserved(Config{Dirs: []string{root}})
	err := m.LoadThemes()
	require.Error(t, err, "skipped themes are reported")
	assert.ErrorIs(t, err, ErrInvalidMetadata)

	assert.Len(t, m.Themes(), 3)
	assert.False(t, m.CheckTheme("broken"))
	assert.False(t, m.CheckTheme("empty"))
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len(), "skipping a theme is silent")
}

func TestLoadThemesFirstRootWins(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeTheme(t, first, "metro", "Metro One", "1.0")
	writeTheme(t, second, "metro", "Metro Two", "2.0")
	writeTheme(t, second, "blueberry", "Blueberry", "1.0")

	m := NewManager(Config{Dirs: []string{first, second}})
	require.NoError(t, m.LoadThemes())

	th, ok := m.Theme("metro")
	require.True(t, ok)
	assert.Equal(t, "Metro One", th.Name)
	assert.Len(t, m.Themes(), 2)
}

func TestLoadThemesResetsRegistry(t *testing.T) {
	root := standardThemes(t)
	m := NewManager(Config{Dirs: []string{root}})
	require.NoError(t, m.LoadThemes())
	require.NoError(t, os.RemoveAll(filepath.Join(root, "metro")))
	require.NoError(t, m.LoadThemes())
	assert.False(t, m.CheckTheme("metro"))
	assert.Len(t, m.Themes(), 2)
}

func TestLoadThemesUnreadableRoot(t *testing.T) {
	m, logs := newObserved(Config{Dirs: []string{filepath.Join(t.TempDir(), "missing")}})
	require.NoError(t, m.LoadThemes())
	assert.Empty(t, m.Themes())

	warns := logs.FilterMessage("cannot open themes folder").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
}

func TestSetActiveTheme(t *testing.T) {
	m, logs := newObserved(Config{Dirs: []string{standardThemes(t)}})
	require.NoError(t, m.LoadThemes())

	assert.Equal(t, FallbackTheme, m.ActiveID(), "placeholder before activation")

	require.True(t, m.SetActiveTheme("metro"))
	assert.Equal(t, "metro", m.ActiveID())
	assert.Equal(t, "Metro", m.Active().Name)

	assert.False(t, m.SetActiveTheme("nope"))
	assert.Equal(t, "metro", m.ActiveID(), "unknown names leave the active theme alone")
	warns := logs.FilterMessage("theme not found").All()
	require.Len(t, warns, 1)
	assert.Equal(t, zapcore.WarnLevel, warns[0].Level)
	assert.Equal(t, "nope", warns[0].ContextMap()["theme"])

	active := 0
	for _, s := range m.Themes() {
		if s.IsActive {
			active++
			assert.Equal(t, "metro", s.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestInitializeResolution(t *testing.T) {
	tests := []struct {
		name      string
		def       string
		cookie    string
		want      string
		wantDflt  string
		wantError bool
	}{
		{name: "cookie wins", def: "original", cookie: "metro", want: "metro", wantDflt: "original"},
		{name: "invalid cookie falls to default", def: "original", cookie: "gone", want: "original", wantDflt: "original"},
		{name: "no cookie uses default", def: "original", want: "original", wantDflt: "original"},
		{name: "missing default uses fallback", def: "darkmode", want: FallbackTheme, wantDflt: FallbackTheme, wantError: true},
		{name: "empty default is the fallback", want: FallbackTheme, wantDflt: FallbackTheme},
		{name: "cookie beats missing default", def: "darkmode", cookie: "metro", want: "metro", wantDflt: FallbackTheme, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, logs := newObserved(Config{Dirs: []string{standardThemes(t)}, Default: tt.def})
			jar := memJar{}
			if tt.cookie != "" {
				jar[DefaultCookieName] = tt.cookie
			}
			got := m.Initialize(jar)
			assert.Equal(t, tt.want, got.ID)
			assert.Equal(t, tt.want, m.ActiveID())
			assert.Equal(t, tt.wantDflt, m.Default())
			assert.Equal(t, tt.wantError, logs.FilterMessage("default theme not found").Len() == 1)
		})
	}
}

func TestInitializeWithoutThemes(t *testing.T) {
	m := NewManager(Config{Dirs: []string{t.TempDir()}, Default: "original"})
	got := m.Initialize(nil)
	assert.Equal(t, FallbackTheme, got.ID, "the placeholder stays active")
	assert.Empty(t, m.Themes())
}

func TestCookieName(t *testing.T) {
	assert.Equal(t, "pma_theme", NewManager(Config{}).CookieName())
	assert.Equal(t, "pma_theme", NewManager(Config{Server: "2"}).CookieName())
	assert.Equal(t, "pma_theme-2", NewManager(Config{PerServer: true, Server: "2"}).CookieName())
	assert.Equal(t, "skin-1", NewManager(Config{CookieName: "skin", PerServer: true, Server: "1"}).CookieName())
}

func TestSaveThemeCookie(t *testing.T) {
	m := NewManager(Config{Dirs: []string{standardThemes(t)}, Default: "original", PerServer: true, Server: "3"})
	jar := memJar{}
	m.Initialize(jar)

	require.True(t, m.SetActiveTheme("metro"))
	require.NoError(t, m.SaveThemeCookie(jar))
	assert.Equal(t, memJar{"pma_theme-3": "metro"}, jar)

	require.True(t, m.SetActiveTheme("original"))
	require.NoError(t, m.SaveThemeCookie(jar))
	assert.Empty(t, jar, "choosing the default removes the cookie")
}
