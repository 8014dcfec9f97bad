package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CookieJar stores the client side theme selection.
type CookieJar interface {
	Get(name string) (string, bool)
	// Set stores value under name. A value equal to def, or an empty
	// value, removes the cookie instead.
	Set(name, value, def string) error
}

// HTTPCookies is a CookieJar over one HTTP exchange.
type HTTPCookies struct {
	Request *http.Request
	Writer  http.ResponseWriter
	Path    string
	MaxAge  int
	Secure  bool
}

// Get returns the value of the request cookie called name.
func (c HTTPCookies) Get(name string) (string, bool) {
	ck, err := c.Request.Cookie(name)
	if err != nil {
		return "", false
	}
	return ck.Value, true
}

// Set writes name to the response. A value equal to def, or empty,
// expires the cookie instead.
func (c HTTPCookies) Set(name, value, def string) error {
	_, present := c.Get(name)
	if value == "" || value == def {
		if present {
			http.SetCookie(c.Writer, &http.Cookie{Name: name, Path: c.path(), MaxAge: -1})
		}
		return nil
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     c.path(),
		MaxAge:   c.MaxAge,
		Secure:   c.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (c HTTPCookies) path() string {
	if c.Path == "" {
		return "/"
	}
	return c.Path
}

// FileJar keeps cookies in a YAML file. The CLI uses it to remember the
// theme between runs.
type FileJar struct {
	Path string
}

func (j FileJar) load() (map[string]string, error) {
	data, err := os.ReadFile(j.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	m := map[string]string{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse preferences: %w", err)
	}
	return m, nil
}

// Get returns the stored value for name. An unreadable file reads as empty.
func (j FileJar) Get(name string) (string, bool) {
	m, err := j.load()
	if err != nil {
		return "", false
	}
	v, ok := m[name]
	return v, ok
}

// Set stores value under name, or removes name when value is empty or
// equals def.
func (j FileJar) Set(name, value, def string) error {
	m, err := j.load()
	if err != nil {
		return err
	}
	if value == "" || value == def {
		if _, ok := m[name]; !ok {
			return nil
		}
		delete(m, name)
	} else {
		m[name] = value
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.Path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	if err := os.WriteFile(j.Path, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}
