package dbi

import (
	"database/sql"
	"fmt"
	"io"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Result is an unbuffered cursor over query rows. It implements
// types.RowSource.
type Result struct {
	rows   *sql.Rows
	meta   []types.ColumnMeta
	closed bool
}

func newResult(rows *sql.Rows) (*Result, error) {
	cts, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("column types: %w", err)
	}
	meta := make([]types.ColumnMeta, len(cts))
	for i, ct := range cts {
		nullable, ok := ct.Nullable()
		if !ok {
			nullable = true
		}
		meta[i] = types.NewColumnMeta(ct.Name(), ct.DatabaseTypeName(), nullable, types.KeyNone)
	}
	return &Result{rows: rows, meta: meta}, nil
}

// NumFields returns the number of result columns.
func (r *Result) NumFields() int { return len(r.meta) }

// FieldsMeta returns the result column metadata.
func (r *Result) FieldsMeta() []types.ColumnMeta { return r.meta }

// FetchRow returns the next row or io.EOF.
func (r *Result) FetchRow() (types.Row, error) {
	if r.closed {
		return nil, io.EOF
	}
	if !r.rows.Next() {
		err := r.rows.Err()
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("fetch row: %w", err)
		}
		return nil, io.EOF
	}
	row := make(types.Row, len(r.meta))
	dest := make([]any, len(r.meta))
	for i := range row {
		dest[i] = &row[i]
	}
	if err := r.rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	return row, nil
}

// Close releases the cursor.
func (r *Result) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.rows.Close()
}
