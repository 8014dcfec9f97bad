package types

// Theme is a named bundle of UI presentation assets. ID is the theme's
// directory name and its registry key.
type Theme struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
	FsPath      string `json:"fs_path"`
	URLPath     string `json:"url_path"`
}
