// Package theme keeps the registry of installed UI themes and resolves the
// active one from the client cookie, the configured default and a fixed
// fallback.
package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Defaults.
const (
	FallbackTheme     = "pmahomme"
	DefaultCookieName = "pma_theme"
	DefaultURLDir     = "./themes/"
)

// Config configures a Manager.
type Config struct {
	// Dirs are the theme roots, searched in order. A theme name found in
	// an earlier root hides the same name in later ones.
	Dirs       []string
	URLDir     string
	Default    string
	CookieName string
	PerServer  bool
	Server     string
}

// Summary is the listing form of a registered theme.
type Summary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	IsActive bool   `json:"is_active"`
}

// Manager is the theme registry. It is not safe for concurrent use.
type Manager struct {
	cfg       Config
	loader    Loader
	log       *zap.Logger
	themes    map[string]*types.Theme
	ids       []string
	active    *types.Theme
	themeDflt string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLoader replaces the theme.json loader.
func WithLoader(l Loader) Option {
	return func(m *Manager) { m.loader = l }
}

// WithLogger sets the logger for registry warnings and errors.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// NewManager returns an empty registry. Until a theme is activated the
// active theme is a placeholder carrying the fallback ID.
func NewManager(cfg Config, opts ...Option) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.URLDir == "" {
		cfg.URLDir = DefaultURLDir
	}
	if cfg.Default == "" {
		cfg.Default = FallbackTheme
	}
	m := &Manager{
		cfg:       cfg,
		loader:    JSONLoader{},
		log:       zap.NewNop(),
		themes:    map[string]*types.Theme{},
		active:    &types.Theme{ID: FallbackTheme},
		themeDflt: FallbackTheme,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// LoadThemes rebuilds the registry from the theme roots. Directories that
// fail to load are skipped; their errors are returned together for
// reporting but do not stop the scan. An unreadable root is logged and
// skipped.
func (m *Manager) LoadThemes() error {
	m.themes = map[string]*types.Theme{}
	m.ids = nil

	var skipped *multierror.Error
	for _, root := range m.cfg.Dirs {
		entries, err := os.ReadDir(root)
		if err != nil {
			m.log.Warn("cannot open themes folder", zap.String("dir", root), zap.Error(err))
			continue
		}
		for _, e := range entries {
			id := e.Name()
			fsPath := filepath.Join(root, id)
			if fi, err := os.Stat(fsPath); err != nil || !fi.IsDir() {
				continue
			}
			if _, ok := m.themes[id]; ok {
				continue
			}
			th, err := m.loader.Load(m.urlPath(id), fsPath, id)
			if err != nil {
				skipped = multierror.Append(skipped, err)
				continue
			}
			m.themes[id] = th
			m.ids = append(m.ids, id)
		}
	}
	slices.Sort(m.ids)
	return skipped.ErrorOrNil()
}

func (m *Manager) urlPath(id string) string {
	return strings.TrimSuffix(m.cfg.URLDir, "/") + "/" + id
}

// CheckTheme reports whether name is registered.
func (m *Manager) CheckTheme(name string) bool {
	_, ok := m.themes[name]
	return ok
}

// SetActiveTheme activates a registered theme. It returns false and keeps
// the current theme for unknown names.
func (m *Manager) SetActiveTheme(name string) bool {
	th, ok := m.themes[name]
	if !ok {
		m.log.Warn("theme not found", zap.String("theme", name))
		return false
	}
	m.active = th
	return true
}

// Active returns the active theme.
func (m *Manager) Active() types.Theme { return *m.active }

// ActiveID returns the ID of the active theme.
func (m *Manager) ActiveID() string { return m.active.ID }

// Default returns the default theme in effect: the configured one when it
// is registered, otherwise the fallback.
func (m *Manager) Default() string { return m.themeDflt }

// Theme returns the registered theme id.
func (m *Manager) Theme(id string) (types.Theme, bool) {
	th, ok := m.themes[id]
	if !ok {
		return types.Theme{}, false
	}
	return *th, true
}

// Themes lists the registry in key order.
func (m *Manager) Themes() []Summary {
	out := make([]Summary, 0, len(m.ids))
	for _, id := range m.ids {
		th := m.themes[id]
		out = append(out, Summary{
			ID:       th.ID,
			Name:     th.Name,
			Version:  th.Version,
			IsActive: th.ID == m.active.ID,
		})
	}
	return out
}

// CookieName returns the cookie holding the selection, suffixed with the
// server when themes are chosen per server.
func (m *Manager) CookieName() string {
	if m.cfg.PerServer && m.cfg.Server != "" {
		return m.cfg.CookieName + "-" + m.cfg.Server
	}
	return m.cfg.CookieName
}

// ThemeCookie returns the theme stored in jar.
func (m *Manager) ThemeCookie(jar CookieJar) (string, bool) {
	if jar == nil {
		return "", false
	}
	v, ok := jar.Get(m.CookieName())
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SaveThemeCookie stores the active theme in jar. Selecting the default
// theme clears the cookie.
func (m *Manager) SaveThemeCookie(jar CookieJar) error {
	if err := jar.Set(m.CookieName(), m.active.ID, m.themeDflt); err != nil {
		return fmt.Errorf("save theme cookie: %w", err)
	}
	return nil
}

// Initialize loads the registry and activates, in order of preference, the
// theme named by the cookie, the configured default, or the fallback.
func (m *Manager) Initialize(jar CookieJar) types.Theme {
	if err := m.LoadThemes(); err != nil {
		m.log.Debug("themes skipped", zap.Error(err))
	}

	configured := m.CheckTheme(m.cfg.Default)
	if configured {
		m.themeDflt = m.cfg.Default
	} else {
		m.log.Error("default theme not found", zap.String("theme", m.cfg.Default))
		m.themeDflt = FallbackTheme
	}

	if name, ok := m.ThemeCookie(jar); ok && m.SetActiveTheme(name) {
		return m.Active()
	}
	if configured {
		m.SetActiveTheme(m.cfg.Default)
	} else {
		m.SetActiveTheme(FallbackTheme)
	}
	return m.Active()
}
