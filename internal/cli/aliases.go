package cli

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// loadAliases builds the alias map from an optional YAML file and
// --alias flags. Flags win over the file. A flag key has one to three
// dot-separated parts: db, db.table or db.table.column.
func loadAliases(file string, flags []string) (types.Aliases, error) {
	aliases := types.Aliases{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read aliases file: %w", err)
		}
		if err := yaml.Unmarshal(data, &aliases); err != nil {
			return nil, fmt.Errorf("parse aliases file %s: %w", file, err)
		}
		if aliases == nil {
			aliases = types.Aliases{}
		}
	}
	for _, f := range flags {
		key, alias, ok := strings.Cut(f, "=")
		if !ok || alias == "" {
			return nil, fmt.Errorf("alias %q: want key=alias", f)
		}
		parts := strings.Split(key, ".")
		for _, p := range parts {
			if p == "" {
				return nil, fmt.Errorf("alias %q: empty name in key", f)
			}
		}
		switch len(parts) {
		case 1:
			aliases.SetDatabase(parts[0], alias)
		case 2:
			aliases.SetTable(parts[0], parts[1], alias)
		case 3:
			aliases.SetColumn(parts[0], parts[1], parts[2], alias)
		default:
			return nil, fmt.Errorf("alias %q: key has more than three parts", f)
		}
	}
	return aliases, nil
}
