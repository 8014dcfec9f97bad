package types

import "errors"

// TableColumn is one row of a table description, shaped like the result of
// DESCRIBE: name, type, null, key, default, extra.
type TableColumn struct {
	Name    string
	Type    string
	Null    string // "YES" or "NO"
	Key     string // "PRI", "UNI", "MUL" or empty
	Default string
	Extra   string
}

// Meta converts the description row into result-set column metadata.
func (c TableColumn) Meta() ColumnMeta {
	return NewColumnMeta(c.Name, c.Type, c.Null != "NO", ParseKeyKind(c.Key))
}

// ForeignKey is one column-level reference from a table to another.
type ForeignKey struct {
	Table     string
	Column    string
	RefTable  string
	RefColumn string
}

// Database object errors.
var (
	ErrDatabaseNotFound = errors.New("database not found")
	ErrTableNotFound    = errors.New("table not found")
	ErrIndexNotFound    = errors.New("index not found")
	ErrInvalidName      = errors.New("invalid identifier")
)
