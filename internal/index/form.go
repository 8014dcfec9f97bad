package index

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

var columnPart = regexp.MustCompile(`^\s*([^()]+?)\s*(?:\(\s*(\d+)\s*\))?\s*$`)

// FromForm builds an index from submitted form fields: name, choice (the
// default is INDEX), type, comment and columns. columns is a comma
// separated list where each part may carry a prefix length, as in
// "title(10), author_id".
func FromForm(fields map[string]string) (types.Index, error) {
	idx := types.Index{
		Name:    strings.TrimSpace(fields["name"]),
		Type:    strings.ToUpper(strings.TrimSpace(fields["type"])),
		Comment: fields["comment"],
		Choice:  types.ChoiceIndex,
	}
	if s := fields["choice"]; strings.TrimSpace(s) != "" {
		c, ok := types.ParseIndexChoice(s)
		if !ok {
			return types.Index{}, fmt.Errorf("%w: %q", ErrUnsupportedChoice, s)
		}
		idx.Choice = c
	}

	for _, part := range strings.Split(fields["columns"], ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m := columnPart.FindStringSubmatch(part)
		if m == nil {
			return types.Index{}, fmt.Errorf("%w: %q", ErrInvalidColumn, part)
		}
		col := types.IndexColumn{Name: m[1]}
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return types.Index{}, fmt.Errorf("%w: %q", ErrInvalidColumn, part)
			}
			col.SubPart = n
		}
		idx.Columns = append(idx.Columns, col)
	}
	return idx, nil
}
