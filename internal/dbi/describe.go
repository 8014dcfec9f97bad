package dbi

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Tables lists the user tables of db, sorted by name.
func (b *Backend) Tables(db string) ([]string, error) {
	h, err := b.handle(db)
	if err != nil {
		return nil, err
	}
	rows, err := h.Query(`SELECT name FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// pragmaColumn is one row of pragma_table_info.
type pragmaColumn struct {
	name    string
	declTyp string
	notNull bool
	dflt    sql.NullString
	pk      int
}

// Describe returns the columns of db.table shaped like DESCRIBE output.
// Declared types are lowercased. Key is PRI for primary key columns, UNI for
// columns covered alone by a unique index and MUL for the leading column of
// any other index.
func (b *Backend) Describe(db, table string) ([]types.TableColumn, error) {
	h, err := b.handle(db)
	if err != nil {
		return nil, err
	}

	cols, err := tableInfo(h, table)
	if err != nil {
		return nil, err
	}
	idx, err := indexList(h, table)
	if err != nil {
		return nil, err
	}

	pkCount := 0
	for _, c := range cols {
		if c.pk > 0 {
			pkCount++
		}
	}

	keys := make(map[string]string)
	for _, ix := range idx {
		if ix.origin == "pk" || len(ix.columns) == 0 {
			continue
		}
		lead := ix.columns[0]
		switch {
		case ix.unique && len(ix.columns) == 1:
			keys[lead] = "UNI"
		case keys[lead] == "":
			keys[lead] = "MUL"
		}
	}

	out := make([]types.TableColumn, len(cols))
	for i, c := range cols {
		tc := types.TableColumn{
			Name:    c.name,
			Type:    strings.ToLower(c.declTyp),
			Null:    "YES",
			Key:     keys[c.name],
			Default: c.dflt.String,
		}
		if c.notNull || c.pk > 0 {
			tc.Null = "NO"
		}
		if c.pk > 0 {
			tc.Key = "PRI"
			if pkCount == 1 && strings.EqualFold(c.declTyp, "INTEGER") {
				tc.Extra = "auto_increment"
			}
		}
		out[i] = tc
	}
	return out, nil
}

// Indexes returns the indexes of db.table, PRIMARY first and the rest by
// name. A rowid primary key, which SQLite keeps without an index, is
// reported as a PRIMARY index.
func (b *Backend) Indexes(db, table string) ([]types.Index, error) {
	h, err := b.handle(db)
	if err != nil {
		return nil, err
	}

	cols, err := tableInfo(h, table)
	if err != nil {
		return nil, err
	}
	list, err := indexList(h, table)
	if err != nil {
		return nil, err
	}

	var out []types.Index
	hasPK := false
	for _, ix := range list {
		idx := types.Index{Name: ix.name, Choice: types.ChoiceIndex, Type: "BTREE"}
		switch {
		case ix.origin == "pk":
			idx.Name = string(types.ChoicePrimary)
			idx.Choice = types.ChoicePrimary
			hasPK = true
		case ix.unique:
			idx.Choice = types.ChoiceUnique
		}
		for _, c := range ix.columns {
			idx.Columns = append(idx.Columns, types.IndexColumn{Name: c})
		}
		out = append(out, idx)
	}

	if !hasPK {
		pk := types.Index{Name: string(types.ChoicePrimary), Choice: types.ChoicePrimary, Type: "BTREE"}
		for _, c := range primaryKeyOrder(cols) {
			pk.Columns = append(pk.Columns, types.IndexColumn{Name: c})
		}
		if len(pk.Columns) > 0 {
			out = append(out, pk)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Choice == types.ChoicePrimary, out[j].Choice == types.ChoicePrimary
		if pi != pj {
			return pi
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Index returns the index called name on db.table.
func (b *Backend) Index(db, table, name string) (types.Index, error) {
	all, err := b.Indexes(db, table)
	if err != nil {
		return types.Index{}, err
	}
	for _, ix := range all {
		if ix.Name == name {
			return ix, nil
		}
	}
	return types.Index{}, fmt.Errorf("%w: %s", types.ErrIndexNotFound, name)
}

// ForeignKeys returns the column references declared by db.table.
func (b *Backend) ForeignKeys(db, table string) ([]types.ForeignKey, error) {
	h, err := b.handle(db)
	if err != nil {
		return nil, err
	}
	rows, err := h.Query(`SELECT "table", "from", "to" FROM pragma_foreign_key_list(?) ORDER BY id, seq`, table)
	if err != nil {
		return nil, fmt.Errorf("foreign keys of %s: %w", table, err)
	}
	defer rows.Close()

	var out []types.ForeignKey
	for rows.Next() {
		var ref, from string
		var to sql.NullString
		if err := rows.Scan(&ref, &from, &to); err != nil {
			return nil, fmt.Errorf("scan foreign key: %w", err)
		}
		out = append(out, types.ForeignKey{Table: table, Column: from, RefTable: ref, RefColumn: to.String})
	}
	return out, rows.Err()
}

func tableInfo(h *sql.DB, table string) ([]pragmaColumn, error) {
	rows, err := h.Query(`SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, table)
	if err != nil {
		return nil, fmt.Errorf("describe %s: %w", table, err)
	}
	defer rows.Close()

	var cols []pragmaColumn
	for rows.Next() {
		var c pragmaColumn
		if err := rows.Scan(&c.name, &c.declTyp, &c.notNull, &c.dflt, &c.pk); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, table)
	}
	return cols, nil
}

// pragmaIndex is one index of a table with its column names in order.
type pragmaIndex struct {
	name    string
	unique  bool
	origin  string // "c" (CREATE INDEX), "u" (UNIQUE constraint) or "pk"
	columns []string
}

func indexList(h *sql.DB, table string) ([]pragmaIndex, error) {
	rows, err := h.Query(`SELECT name, "unique", origin FROM pragma_index_list(?) ORDER BY seq`, table)
	if err != nil {
		return nil, fmt.Errorf("indexes of %s: %w", table, err)
	}
	var list []pragmaIndex
	for rows.Next() {
		var ix pragmaIndex
		if err := rows.Scan(&ix.name, &ix.unique, &ix.origin); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan index: %w", err)
		}
		list = append(list, ix)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range list {
		cols, err := indexColumns(h, list[i].name)
		if err != nil {
			return nil, err
		}
		list[i].columns = cols
	}
	return list, nil
}

func indexColumns(h *sql.DB, index string) ([]string, error) {
	rows, err := h.Query(`SELECT name FROM pragma_index_info(?) ORDER BY seqno`, index)
	if err != nil {
		return nil, fmt.Errorf("columns of index %s: %w", index, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan index column: %w", err)
		}
		cols = append(cols, name.String)
	}
	return cols, rows.Err()
}

// primaryKeyOrder returns the primary key column names ordered by their
// position in the key.
func primaryKeyOrder(cols []pragmaColumn) []string {
	var max int
	for _, c := range cols {
		if c.pk > max {
			max = c.pk
		}
	}
	names := make([]string, max)
	for _, c := range cols {
		if c.pk > 0 {
			names[c.pk-1] = c.name
		}
	}
	return names
}
