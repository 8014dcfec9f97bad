// Package export turns database contents into downloadable documents.
//
// Each supported format is a Plugin driven through the same callback
// sequence: Header, then per database DBHeader, DBCreate, Data for every
// table and DBFooter, then Footer. RawQuery replaces the per-database
// sequence for ad hoc queries. Plugins write formatted chunks to an
// *Output and fetch rows through a Querier; a failed write or fetch ends
// the run and is returned to the caller.
package export

import (
	"errors"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrOutput            = errors.New("write export output")
	ErrFetch             = errors.New("fetch export rows")
)

// Plugin is one export format.
type Plugin interface {
	// Name is the format identifier, e.g. "yaml".
	Name() string

	// Properties describes the produced document and the options the
	// format accepts.
	Properties() Properties

	Header() error
	Footer() error
	DBHeader(db, alias string) error
	DBFooter(db string) error
	DBCreate(db, exportType, alias string) error

	// Data exports the rows that query returns for db.table.
	Data(db, table, query string, aliases types.Aliases) error

	// RawQuery exports the result of an ad hoc query. When db is non-nil
	// that database is selected first.
	RawQuery(db *string, query string) error
}

// Querier is what plugins need from the database layer.
type Querier interface {
	Query(db, query string, args ...any) (types.RowSource, error)
	SelectDB(db string) error
	Tables(db string) ([]string, error)
	Describe(db, table string) ([]types.TableColumn, error)
}

// Properties describes an export format.
type Properties struct {
	Text        string
	Extension   string
	MIMEType    string
	ForceFile   bool
	OptionsText string
	Options     RootGroup
}

// ItemKind is the widget type of an option item.
type ItemKind int

const (
	ItemHidden ItemKind = iota
	ItemSelect
	ItemText
	ItemBool
)

// RootGroup is the top of a format's option tree.
type RootGroup struct {
	Name   string
	Groups []MainGroup
}

// MainGroup is a named group of option items.
type MainGroup struct {
	Name  string
	Text  string
	Items []Item
}

// Item is a single option.
type Item struct {
	Kind   ItemKind
	Name   string
	Text   string
	Values []string // choices for ItemSelect
}

// Item returns the item called name from any group.
func (r RootGroup) Item(name string) (Item, bool) {
	for _, g := range r.Groups {
		for _, it := range g.Items {
			if it.Name == name {
				return it, true
			}
		}
	}
	return Item{}, false
}

// generalOptions builds the option tree shared by every format: a
// "general_opts" group holding the hidden structure_or_data item plus any
// format specific items.
func generalOptions(items ...Item) RootGroup {
	all := append([]Item{{Kind: ItemHidden, Name: "structure_or_data"}}, items...)
	return RootGroup{
		Name:   "Format Specific Options",
		Groups: []MainGroup{{Name: "general_opts", Items: all}},
	}
}
