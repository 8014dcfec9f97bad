package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// YAMLPlugin exports rows as a YAML 1.1 sequence of mappings, one mapping
// per row.
type YAMLPlugin struct {
	out *Output
	db  Querier
}

// NewYAML returns the YAML export plugin.
func NewYAML(out *Output, db Querier) *YAMLPlugin {
	return &YAMLPlugin{out: out, db: db}
}

// Name returns "yaml".
func (p *YAMLPlugin) Name() string { return string(YAML) }

// Properties describes YAML output.
func (p *YAMLPlugin) Properties() Properties {
	return Properties{
		Text:        "YAML",
		Extension:   "yml",
		MIMEType:    "text/yaml",
		ForceFile:   true,
		OptionsText: "Options",
		Options:     generalOptions(),
	}
}

// Header writes the version marker and document start.
func (p *YAMLPlugin) Header() error {
	return p.out.WriteString("%YAML 1.1\n---\n")
}

// Footer writes the document end marker.
func (p *YAMLPlugin) Footer() error {
	return p.out.WriteString("...\n")
}

// DBHeader, DBFooter and DBCreate write nothing: YAML output has no
// database framing.
func (p *YAMLPlugin) DBHeader(db, alias string) error             { return nil }
func (p *YAMLPlugin) DBFooter(db string) error                    { return nil }
func (p *YAMLPlugin) DBCreate(db, exportType, alias string) error { return nil }

// Data runs query and writes one record per fetched row. The first record
// is preceded by a "# db.table" comment unless table is empty. Each record
// goes to the sink as a single chunk.
func (p *YAMLPlugin) Data(db, table, query string, aliases types.Aliases) error {
	src, err := p.db.Query(db, query)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer src.Close()

	meta := src.FieldsMeta()
	n := src.NumFields()
	names := make([]string, n)
	for i := range names {
		if i < len(meta) {
			names[i] = aliases.Column(db, table, meta[i].Name)
		}
	}

	var buf strings.Builder
	for count := 0; ; count++ {
		row, err := src.FetchRow()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFetch, err)
		}

		buf.Reset()
		if count == 0 && table != "" {
			buf.WriteString("# " + aliases.Database(db) + "." + aliases.Table(db, table) + "\n")
		}
		buf.WriteString("-\n")
		for i := 0; i < n; i++ {
			if !row.Has(i) {
				continue
			}
			var m *types.ColumnMeta
			if i < len(meta) {
				m = &meta[i]
			}
			buf.WriteString("  " + names[i] + ": " + yamlValue(row[i], m) + "\n")
		}
		if err := p.out.WriteString(buf.String()); err != nil {
			return err
		}
	}
}

// RawQuery selects db when given and exports the query result without a
// table comment.
func (p *YAMLPlugin) RawQuery(db *string, query string) error {
	name := ""
	if db != nil {
		if err := p.db.SelectDB(*db); err != nil {
			return fmt.Errorf("select database: %w", err)
		}
		name = *db
	}
	return p.Data(name, "", query, nil)
}

var yamlEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)

// yamlValue renders one cell. NULL is the bare null token; numeric values
// of non-string columns are written as is; everything else is a double
// quoted scalar.
func yamlValue(v any, meta *types.ColumnMeta) string {
	s, ok := types.CellString(v)
	if !ok {
		return "null"
	}
	if !isText(v, meta) && types.IsNumeric(v) {
		return s
	}
	return `"` + yamlEscaper.Replace(s) + `"`
}

// isText reports whether a cell is textual. Untyped columns (expressions)
// carry no declared type, so the cell value decides.
func isText(v any, meta *types.ColumnMeta) bool {
	if meta == nil || meta.IsString() {
		return true
	}
	if meta.Class == types.ClassUnknown {
		switch v.(type) {
		case string, []byte:
			return true
		}
	}
	return false
}
