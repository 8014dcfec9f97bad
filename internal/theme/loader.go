package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/cellar/pkg/types"
)

// MetadataFile is the file inside a theme directory describing the theme.
const MetadataFile = "theme.json"

// ErrInvalidMetadata is returned for theme.json files missing required keys.
var ErrInvalidMetadata = errors.New("invalid theme metadata")

// Loader reads a theme from its directory.
type Loader interface {
	Load(urlPath, fsPath, id string) (*types.Theme, error)
}

// JSONLoader loads themes described by a theme.json file holding at least
// "name" and "version".
type JSONLoader struct{}

type metadata struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// Load implements Loader.
func (JSONLoader) Load(urlPath, fsPath, id string) (*types.Theme, error) {
	data, err := os.ReadFile(filepath.Join(fsPath, MetadataFile))
	if err != nil {
		return nil, fmt.Errorf("read theme %s: %w", id, err)
	}
	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMetadata, id, err)
	}
	if md.Name == "" || md.Version == "" {
		return nil, fmt.Errorf("%w: %s: name and version are required", ErrInvalidMetadata, id)
	}
	return &types.Theme{
		ID:          id,
		Name:        md.Name,
		Version:     md.Version,
		Description: md.Description,
		FsPath:      fsPath,
		URLPath:     urlPath,
	}, nil
}
