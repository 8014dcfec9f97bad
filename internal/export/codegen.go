package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// ErrUnsupportedCodegen is returned for an unknown code generator.
var ErrUnsupportedCodegen = errors.New("unsupported code generator")

// CodegenFormat selects what the code generator emits per table.
type CodegenFormat string

const (
	NHibernateCS  CodegenFormat = "nhibernate-cs"
	NHibernateXML CodegenFormat = "nhibernate-xml"
)

var codegenFormats = []CodegenFormat{NHibernateCS, NHibernateXML}

var codegenFormatText = map[CodegenFormat]string{
	NHibernateCS:  "NHibernate C# DO",
	NHibernateXML: "NHibernate XML",
}

// ParseCodegenFormat parses a generator name. The empty string selects
// NHibernateCS.
func ParseCodegenFormat(s string) (CodegenFormat, error) {
	if s == "" {
		return NHibernateCS, nil
	}
	for _, f := range codegenFormats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedCodegen, s)
}

// IdentifierStyle controls how names are turned into identifiers.
type IdentifierStyle string

const (
	// IdentifiersPreserve keeps names as they are, minus unsafe characters.
	IdentifiersPreserve IdentifierStyle = "preserve"
	// IdentifiersCamel converts snake_case names to CamelCase first.
	IdentifiersCamel IdentifierStyle = "camel"
)

// CodegenOptions configures the code generator.
type CodegenOptions struct {
	Format      CodegenFormat
	Identifiers IdentifierStyle
}

// CodegenPlugin generates NHibernate data classes or mapping files from
// table descriptions.
type CodegenPlugin struct {
	out  *Output
	db   Querier
	opts CodegenOptions
}

// NewCodegen returns the code generation plugin.
func NewCodegen(out *Output, db Querier, opts CodegenOptions) (*CodegenPlugin, error) {
	f, err := ParseCodegenFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	opts.Format = f
	switch opts.Identifiers {
	case "":
		opts.Identifiers = IdentifiersPreserve
	case IdentifiersPreserve, IdentifiersCamel:
	default:
		return nil, fmt.Errorf("%w: identifiers %q", ErrUnsupportedCodegen, opts.Identifiers)
	}
	return &CodegenPlugin{out: out, db: db, opts: opts}, nil
}

// Name returns "codegen".
func (p *CodegenPlugin) Name() string { return string(Codegen) }

// Properties describes generated code output.
func (p *CodegenPlugin) Properties() Properties {
	values := make([]string, len(codegenFormats))
	for i, f := range codegenFormats {
		values[i] = codegenFormatText[f]
	}
	return Properties{
		Text:        "CodeGen",
		Extension:   "cs",
		MIMEType:    "text/cs",
		OptionsText: "Options",
		Options: generalOptions(Item{
			Kind:   ItemSelect,
			Name:   "format",
			Text:   "Format:",
			Values: values,
		}),
	}
}

// The document and database callbacks write nothing; generated code is
// emitted per table by Data.
func (p *CodegenPlugin) Header() error                               { return nil }
func (p *CodegenPlugin) Footer() error                               { return nil }
func (p *CodegenPlugin) DBHeader(db, alias string) error             { return nil }
func (p *CodegenPlugin) DBFooter(db string) error                    { return nil }
func (p *CodegenPlugin) DBCreate(db, exportType, alias string) error { return nil }

// Data emits the scaffolding for db.table. The query is not used; the
// table description drives the output.
func (p *CodegenPlugin) Data(db, table, query string, aliases types.Aliases) error {
	cols, err := p.db.Describe(db, table)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFetch, err)
	}
	props := make([]TableProperty, len(cols))
	for i, c := range cols {
		c.Name = p.name(aliases.Column(db, table, c.Name))
		props[i] = NewTableProperty(c)
	}

	dbAlias := p.name(aliases.Database(db))
	tableAlias := p.name(aliases.Table(db, table))

	var body string
	switch p.opts.Format {
	case NHibernateXML:
		body = nhibernateXML(dbAlias, tableAlias, props)
	default:
		body = nhibernateCS(dbAlias, tableAlias, props)
	}
	return p.out.WriteString(body + "\n")
}

// RawQuery is not supported by code generators; there is no table to
// describe.
func (p *CodegenPlugin) RawQuery(db *string, query string) error {
	return fmt.Errorf("%w: codegen cannot export a raw query", ErrUnsupportedFormat)
}

func (p *CodegenPlugin) name(s string) string {
	if p.opts.Identifiers == IdentifiersCamel {
		return strcase.ToCamel(s)
	}
	return s
}

func nhibernateCS(db, table string, props []TableProperty) string {
	class := MakeIdentifier(table, true)
	lines := []string{
		"using System;",
		"using System.Collections;",
		"using System.Collections.Generic;",
		"using System.Text;",
		"namespace " + MakeIdentifier(db, true),
		"{",
		"    #region " + class,
		"    public class " + class,
		"    {",
		"        #region Member Variables",
	}
	for _, tp := range props {
		lines = append(lines, tp.FormatCS("        protected #dotNetPrimitiveType# _#name#;"))
	}
	lines = append(lines,
		"        #endregion",
		"        #region Constructors",
		"        public "+class+"() { }",
	)

	var params []string
	for _, tp := range props {
		if tp.IsPK() {
			continue
		}
		params = append(params, tp.FormatCS("#dotNetPrimitiveType# #name#"))
	}
	lines = append(lines,
		"        public "+class+"("+strings.Join(params, ", ")+")",
		"        {",
	)
	for _, tp := range props {
		if tp.IsPK() {
			continue
		}
		lines = append(lines, tp.FormatCS("            this._#name#=#name#;"))
	}
	lines = append(lines,
		"        }",
		"        #endregion",
		"        #region Public Properties",
	)
	for _, tp := range props {
		lines = append(lines, tp.FormatCS(
			"        public virtual #dotNetPrimitiveType# #ucfirstName#\n"+
				"        {\n"+
				"            get {return _#name#;}\n"+
				"            set {_#name#=value;}\n"+
				"        }"))
	}
	lines = append(lines,
		"        #endregion",
		"    }",
		"    #endregion",
		"}",
	)
	return strings.Join(lines, "\n")
}

func nhibernateXML(db, table string, props []TableProperty) string {
	ns := MakeIdentifier(db, true)
	class := MakeIdentifier(table, true)
	lines := []string{
		`<?xml version="1.0" encoding="utf-8" ?>`,
		`<hibernate-mapping xmlns="urn:nhibernate-mapping-2.2" namespace="` + ns + `" assembly="` + ns + `">`,
		`    <class name="` + class + `" table="` + class + `">`,
	}
	for _, tp := range props {
		if tp.IsPK() {
			lines = append(lines, tp.FormatXML(
				`        <id name="#ucfirstName#" type="#dotNetObjectType#" unsaved-value="0">`+"\n"+
					`            <column name="#name#" sql-type="#type#" not-null="#notNull#" unique="#unique#" index="PRIMARY"/>`+"\n"+
					`            <generator class="native" />`+"\n"+
					`        </id>`))
			continue
		}
		lines = append(lines, tp.FormatXML(
			`        <property name="#ucfirstName#" type="#dotNetObjectType#">`+"\n"+
				`            <column name="#name#" sql-type="#type#" not-null="#notNull#" #indexName#/>`+"\n"+
				`        </property>`))
	}
	lines = append(lines,
		`    </class>`,
		`</hibernate-mapping>`,
	)
	return strings.Join(lines, "\n")
}
