package types

// Aliases maps database, table and column identifiers to display names
// used at formatting time. Keyed by the real database name.
type Aliases map[string]DatabaseAlias

// DatabaseAlias holds the alias of one database and of its tables.
type DatabaseAlias struct {
	Alias  string                `yaml:"alias,omitempty"`
	Tables map[string]TableAlias `yaml:"tables,omitempty"`
}

// TableAlias holds the alias of one table and of its columns.
type TableAlias struct {
	Alias   string            `yaml:"alias,omitempty"`
	Columns map[string]string `yaml:"columns,omitempty"`
}

// Database returns the alias for db, or db itself.
func (a Aliases) Database(db string) string {
	if d, ok := a[db]; ok && d.Alias != "" {
		return d.Alias
	}
	return db
}

// Table returns the alias for table in db, or table itself.
func (a Aliases) Table(db, table string) string {
	if t, ok := a[db].Tables[table]; ok && t.Alias != "" {
		return t.Alias
	}
	return table
}

// Column returns the alias for col in db.table, or col itself.
func (a Aliases) Column(db, table, col string) string {
	if c := a[db].Tables[table].Columns[col]; c != "" {
		return c
	}
	return col
}

// SetDatabase records an alias for db.
func (a Aliases) SetDatabase(db, alias string) {
	d := a[db]
	d.Alias = alias
	a[db] = d
}

// SetTable records an alias for db.table.
func (a Aliases) SetTable(db, table, alias string) {
	d := a[db]
	if d.Tables == nil {
		d.Tables = make(map[string]TableAlias)
	}
	t := d.Tables[table]
	t.Alias = alias
	d.Tables[table] = t
	a[db] = d
}

// SetColumn records an alias for db.table.col.
func (a Aliases) SetColumn(db, table, col, alias string) {
	d := a[db]
	if d.Tables == nil {
		d.Tables = make(map[string]TableAlias)
	}
	t := d.Tables[table]
	if t.Columns == nil {
		t.Columns = make(map[string]string)
	}
	t.Columns[col] = alias
	d.Tables[table] = t
	a[db] = d
}
