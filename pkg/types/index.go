package types

import "strings"

// IndexChoice is the kind of an index.
type IndexChoice string

const (
	ChoicePrimary  IndexChoice = "PRIMARY"
	ChoiceUnique   IndexChoice = "UNIQUE"
	ChoiceIndex    IndexChoice = "INDEX"
	ChoiceFulltext IndexChoice = "FULLTEXT"
	ChoiceSpatial  IndexChoice = "SPATIAL"
)

// IndexChoices lists all index kinds in display order.
var IndexChoices = []IndexChoice{ChoicePrimary, ChoiceUnique, ChoiceIndex, ChoiceFulltext, ChoiceSpatial}

// ParseIndexChoice normalizes s into an IndexChoice. The second result is
// false when s names no known kind.
func ParseIndexChoice(s string) (IndexChoice, bool) {
	c := IndexChoice(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range IndexChoices {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// IndexColumn is one part of an index. SubPart is the prefix length, zero
// for the whole column.
type IndexColumn struct {
	Name    string
	SubPart int
}

// Index describes a table index.
type Index struct {
	Name    string
	Choice  IndexChoice
	Type    string // access method, e.g. BTREE; informational on SQLite
	Comment string
	Columns []IndexColumn
}

// ColumnNames returns the names of the index parts in order.
func (i Index) ColumnNames() []string {
	names := make([]string, len(i.Columns))
	for n, c := range i.Columns {
		names[n] = c.Name
	}
	return names
}
