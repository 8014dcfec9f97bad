package export

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// TableProperty is one described column as seen by the code generators.
type TableProperty struct {
	Name     string
	Type     string
	Nullable string
	Key      string
	Default  string
	Extra    string
}

// NewTableProperty trims a DESCRIBE row into a TableProperty.
func NewTableProperty(c types.TableColumn) TableProperty {
	return TableProperty{
		Name:     strings.TrimSpace(c.Name),
		Type:     strings.TrimSpace(c.Type),
		Nullable: strings.TrimSpace(c.Null),
		Key:      strings.TrimSpace(c.Key),
		Default:  strings.TrimSpace(c.Default),
		Extra:    strings.TrimSpace(c.Extra),
	}
}

// PureType returns the declared type without its length or arguments.
func (t TableProperty) PureType() string {
	if i := strings.IndexByte(t.Type, '('); i > 0 {
		return t.Type[:i]
	}
	return t.Type
}

// IsNotNull returns "true" when the column rejects NULL.
func (t TableProperty) IsNotNull() string {
	return boolText(t.Nullable == "NO")
}

// IsUnique returns "true" for primary and unique key columns.
func (t TableProperty) IsUnique() string {
	return boolText(t.Key == "PRI" || t.Key == "UNI")
}

// IsPK reports whether the column is part of the primary key.
func (t TableProperty) IsPK() bool { return t.Key == "PRI" }

// IndexName returns the index attribute for keyed columns.
func (t TableProperty) IndexName() string {
	if t.Key == "" {
		return ""
	}
	return `index="` + html.EscapeString(t.Name) + `"`
}

// dotNetType is one row of the SQL to .NET type table.
type dotNetType struct {
	prefix    string
	primitive string
	object    string
}

// dotNetTypes is matched in order against the start of the declared type.
var dotNetTypes = []dotNetType{
	{"int", "int", "Int32"},
	{"longtext", "string", "String"},
	{"long", "long", "Long"},
	{"char", "string", "String"},
	{"varchar", "string", "String"},
	{"text", "string", "String"},
	{"tinyint", "bool", "Boolean"},
	{"datetime", "DateTime", "DateTime"},
}

// Fallbacks for declared types missing from dotNetTypes. Generated code
// carries these literally.
const (
	unknownPrimitive = "unknown"
	unknownObject    = "Unknown"
)

func lookupDotNet(sqlType string) (dotNetType, bool) {
	for _, d := range dotNetTypes {
		if strings.HasPrefix(sqlType, d.prefix) {
			return d, true
		}
	}
	return dotNetType{}, false
}

// DotNetPrimitiveType maps the column type to a C# primitive.
func (t TableProperty) DotNetPrimitiveType() string {
	if d, ok := lookupDotNet(t.Type); ok {
		return d.primitive
	}
	return unknownPrimitive
}

// DotNetObjectType maps the column type to a CLR type name.
func (t TableProperty) DotNetObjectType() string {
	if d, ok := lookupDotNet(t.Type); ok {
		return d.object
	}
	return unknownObject
}

// FormatCS fills a C# template. #name# becomes the identifier form of the
// column name.
func (t TableProperty) FormatCS(text string) string {
	text = strings.ReplaceAll(text, "#name#", MakeIdentifier(t.Name, false))
	return t.Format(text)
}

// FormatXML fills an XML mapping template. #name# becomes the escaped
// column name.
func (t TableProperty) FormatXML(text string) string {
	text = strings.NewReplacer(
		"#name#", html.EscapeString(t.Name),
		"#indexName#", t.IndexName(),
	).Replace(text)
	return t.Format(text)
}

// Format fills the placeholders common to every template.
func (t TableProperty) Format(text string) string {
	return strings.NewReplacer(
		"#ucfirstName#", MakeIdentifier(t.Name, true),
		"#dotNetPrimitiveType#", t.DotNetPrimitiveType(),
		"#dotNetObjectType#", t.DotNetObjectType(),
		"#type#", t.PureType(),
		"#notNull#", t.IsNotNull(),
		"#unique#", t.IsUnique(),
	).Replace(text)
}

var unsafeIdent = regexp.MustCompile(`[^\p{L}\p{Nl}_]`)

// MakeIdentifier turns s into a valid C# identifier: characters other
// than letters, letter numbers and underscores are dropped, an underscore
// is prepended unless the result starts with a letter, and with ucfirst
// the first rune is upper cased.
func MakeIdentifier(s string, ucfirst bool) string {
	s = unsafeIdent.ReplaceAllString(s, "")
	if r, _ := utf8.DecodeRuneInString(s); s == "" || !unicode.IsLetter(r) {
		s = "_" + s
	}
	if ucfirst {
		r, size := utf8.DecodeRuneInString(s)
		s = string(unicode.ToUpper(r)) + s[size:]
	}
	return s
}

func boolText(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
