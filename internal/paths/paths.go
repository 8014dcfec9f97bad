// Package paths resolves configuration, data and theme directory locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName names the per-user directories on every platform.
const appName = "cellar"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".cellar"
	DefaultDataDirName   = ".cellar-db"
	ThemesDirName        = "themes"
	PreferencesFileName  = "preferences.yaml"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CELLAR_CONFIG_DIR"
	EnvDataDir   = "CELLAR_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/cellar (fallback ~/.config/cellar)
// macOS:   ~/Library/Application Support/cellar
// Windows: %APPDATA%/cellar
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > CELLAR_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > CELLAR_DATA_DIR env > $(CWD)/.cellar-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveThemesDirs returns the theme search roots. Configured roots are
// made absolute relative to configDir; with none configured the single
// root configDir/themes is used.
func ResolveThemesDirs(configDir string, configured []string) []string {
	if len(configured) == 0 {
		return []string{filepath.Join(configDir, ThemesDirName)}
	}
	dirs := make([]string, 0, len(configured))
	for _, d := range configured {
		if d == "" {
			continue
		}
		if !filepath.IsAbs(d) {
			d = filepath.Join(configDir, d)
		}
		dirs = append(dirs, filepath.Clean(d))
	}
	return dirs
}

// PreferencesFile returns the path of the per-user preferences file that
// stands in for browser cookies when running from the command line.
func PreferencesFile(configDir string) string {
	return filepath.Join(configDir, PreferencesFileName)
}
