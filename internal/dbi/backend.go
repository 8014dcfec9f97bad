// Package dbi is the database interface of cellar: it selects a SQLite
// driver, manages one handle per database file in the data directory, and
// exposes sequential row cursors and table introspection.
package dbi

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// dbFileExt is the extension of database files in the data directory.
const dbFileExt = ".db"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("database interface is detached")
	ErrAlreadyAttached = errors.New("database interface is already attached")
)

// validName restricts database names to safe file names.
var validName = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

// Backend holds the open database handles of one data directory.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	driver   string
	handles  map[string]*sql.DB
	current  string
	log      *zap.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithLogger sets the logger used for driver and lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(b *Backend) {
		if l != nil {
			b.log = l
		}
	}
}

// NewBackend creates a Backend. It is not attached; call Attach.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		handles: make(map[string]*sql.DB),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open creates a Backend and attaches it to cfg.
func Open(cfg types.Config, opts ...Option) (*Backend, error) {
	b := NewBackend(opts...)
	if err := b.Attach(cfg); err != nil {
		return nil, err
	}
	return b, nil
}

// Attach validates cfg, picks a usable driver, creates DataDir if needed and
// selects the default database, creating its file on first use.
func (b *Backend) Attach(cfg types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	driver, err := selectDriver(cfg.Backend, b.log)
	if err != nil {
		return err
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	cfg.DataDir = dataDir

	b.config = cfg
	b.driver = driver

	name := cfg.Database()
	if _, err := b.openLocked(name, true); err != nil {
		return err
	}
	b.current = name
	b.attached = true

	b.log.Debug("database interface attached",
		zap.String("driver", driver),
		zap.String("data_dir", dataDir),
		zap.String("database", name))
	return nil
}

// Detach closes every open handle. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	var merr *multierror.Error
	for name, db := range b.handles {
		if err := db.Close(); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("close %s: %w", name, err))
		}
	}
	b.handles = make(map[string]*sql.DB)
	b.attached = false
	b.current = ""
	return merr.ErrorOrNil()
}

// Driver returns the name of the database/sql driver in use.
func (b *Backend) Driver() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.driver
}

// CurrentDB returns the name of the selected database.
func (b *Backend) CurrentDB() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Databases lists the databases found in the data directory, sorted.
func (b *Backend) Databases() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, ErrDetached
	}
	entries, err := os.ReadDir(b.config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), dbFileExt) {
			continue
		}
		name := strings.TrimSuffix(e.Name(), dbFileExt)
		if validName.MatchString(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// CreateDatabase creates an empty database file. Creating an existing
// database is a no-op.
func (b *Backend) CreateDatabase(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return ErrDetached
	}
	_, err := b.openLocked(name, true)
	return err
}

// SelectDB makes name the current database for calls that pass an empty
// database name.
func (b *Backend) SelectDB(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return ErrDetached
	}
	if _, err := b.openLocked(name, false); err != nil {
		return err
	}
	b.current = name
	return nil
}

// Query runs query against db (the current database when empty) and
// returns an unbuffered cursor over its rows.
func (b *Backend) Query(db, query string, args ...any) (types.RowSource, error) {
	h, err := b.handle(db)
	if err != nil {
		return nil, err
	}
	rows, err := h.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return newResult(rows)
}

// Exec runs a statement that returns no rows against db.
func (b *Backend) Exec(db, query string, args ...any) error {
	h, err := b.handle(db)
	if err != nil {
		return err
	}
	if _, err := h.Exec(query, args...); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// ExecTx runs stmts against db in one transaction. A failing statement
// rolls back the ones before it.
func (b *Backend) ExecTx(db string, stmts ...string) error {
	h, err := b.handle(db)
	if err != nil {
		return err
	}
	tx, err := h.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("exec: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// handle returns the handle for db, defaulting to the current database.
func (b *Backend) handle(db string) (*sql.DB, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, ErrDetached
	}
	if db == "" {
		db = b.current
	}
	return b.openLocked(db, false)
}

// openLocked returns the cached handle for name or opens it. Unless create
// is set, a missing database file is ErrDatabaseNotFound.
// The caller must hold b.mu.
func (b *Backend) openLocked(name string, create bool) (*sql.DB, error) {
	if !validName.MatchString(name) {
		return nil, fmt.Errorf("%w: database %q", types.ErrInvalidName, name)
	}
	if h, ok := b.handles[name]; ok {
		return h, nil
	}

	path := b.databasePath(name)
	if !create {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", types.ErrDatabaseNotFound, name)
			}
			return nil, fmt.Errorf("stat database: %w", err)
		}
	}

	h, err := sql.Open(b.driver, dsn(b.driver, path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err := h.Ping(); err != nil {
		h.Close()
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	b.handles[name] = h
	return h, nil
}

func (b *Backend) databasePath(name string) string {
	return filepath.Join(b.config.DataDir, name+dbFileExt)
}

// QuoteIdent quotes an SQL identifier for use in generated statements.
func QuoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
