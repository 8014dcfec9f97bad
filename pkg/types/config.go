package types

import "errors"

// Config holds backend selection and parameters for dbi.Open.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	DefaultDB string `json:"default_db,omitempty" yaml:"default_db,omitempty"`
}

// Supported backend names. BackendSQLite is the pure-Go driver,
// BackendSQLite3 the cgo driver.
const (
	BackendSQLite  = "sqlite"
	BackendSQLite3 = "sqlite3"
)

// DefaultDatabase is used when Config.DefaultDB is empty.
const DefaultDatabase = "main"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite:  true,
	BackendSQLite3: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// Database returns the configured default database name.
func (c Config) Database() string {
	if c.DefaultDB == "" {
		return DefaultDatabase
	}
	return c.DefaultDB
}
