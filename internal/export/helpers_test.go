package export

import (
	"errors"
	"io"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// memRows is an in-memory RowSource.
type memRows struct {
	meta   []types.ColumnMeta
	rows   []types.Row
	next   int
	failAt int // FetchRow fails at this index when > 0
	closed bool
}

func (m *memRows) NumFields() int                 { return len(m.meta) }
func (m *memRows) FieldsMeta() []types.ColumnMeta { return m.meta }
func (m *memRows) Close() error                   { m.closed = true; return nil }

func (m *memRows) FetchRow() (types.Row, error) {
	if m.failAt > 0 && m.next == m.failAt {
		return nil, errors.New("connection lost")
	}
	if m.next >= len(m.rows) {
		return nil, io.EOF
	}
	r := m.rows[m.next]
	m.next++
	return r, nil
}

// fakeDB is a Querier serving canned results.
type fakeDB struct {
	rows     map[string]*memRows // keyed by query
	tables   map[string][]string
	columns  map[string][]types.TableColumn // keyed by table
	selected []string
	queries  []string
}

func (f *fakeDB) Query(db, query string, args ...any) (types.RowSource, error) {
	f.queries = append(f.queries, query)
	r, ok := f.rows[query]
	if !ok {
		return nil, errors.New("no such query")
	}
	return r, nil
}

func (f *fakeDB) SelectDB(db string) error {
	if _, ok := f.tables[db]; !ok {
		return types.ErrDatabaseNotFound
	}
	f.selected = append(f.selected, db)
	return nil
}

func (f *fakeDB) Tables(db string) ([]string, error) {
	t, ok := f.tables[db]
	if !ok {
		return nil, types.ErrDatabaseNotFound
	}
	return t, nil
}

func (f *fakeDB) Describe(db, table string) ([]types.TableColumn, error) {
	c, ok := f.columns[table]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return c, nil
}

// failWriter accepts ok writes and then fails every write.
type failWriter struct {
	ok     int
	writes []string
}

var errDiskFull = errors.New("disk full")

func (w *failWriter) Write(p []byte) (int, error) {
	if len(w.writes) >= w.ok {
		return 0, errDiskFull
	}
	w.writes = append(w.writes, string(p))
	return len(p), nil
}

// usersFixture is the users table: (id INT, name VARCHAR, bio TEXT).
func usersFixture() *memRows {
	return &memRows{
		meta: []types.ColumnMeta{
			types.NewColumnMeta("id", "INT", false, types.KeyPrimary),
			types.NewColumnMeta("name", "VARCHAR", true, types.KeyNone),
			types.NewColumnMeta("bio", "TEXT", true, types.KeyNone),
		},
		rows: []types.Row{
			{int64(1), "Al\\ice", nil},
			{int64(2), "Bob", "line1\nline2"},
		},
	}
}
