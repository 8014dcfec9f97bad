package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/cellar/internal/paths"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend   string       `yaml:"backend"`
	DataDir   string       `yaml:"data_dir,omitempty"`
	DefaultDB string       `yaml:"default_db,omitempty"`
	Themes    themesConfig `yaml:"themes"`
}

type themesConfig struct {
	Dirs    []string `yaml:"dirs,omitempty"`
	Default string   `yaml:"default"`
}

func newInitCmd(a *app) *cobra.Command {
	var sample bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize cellar storage",
		Long: "Create configuration and data directories, write config.yaml if it\n" +
			"is missing, then attach the storage backend once.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, sample)
		},
	}
	cmd.Flags().BoolVar(&sample, "sample", false, "load the sample users/posts tables into the default database")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, sample bool) error {
	if err := ensureConfigDir(a.configDir); err != nil {
		return sysError(fmt.Errorf("create config directory: %w", err))
	}
	if err := os.MkdirAll(filepath.Join(a.configDir, paths.ThemesDirName), 0o755); err != nil {
		return sysError(fmt.Errorf("create themes directory: %w", err))
	}

	configPath := filepath.Join(a.configDir, configFileExt)
	if err := writeConfigIfMissing(configPath, a.settings); err != nil {
		return sysError(fmt.Errorf("write config: %w", err))
	}

	b, err := a.openBackend()
	if err != nil {
		return err
	}
	if sample {
		if err := b.Seed(a.settings.Config.Database()); err != nil {
			_ = b.Detach()
			return sysError(fmt.Errorf("load sample data: %w", err))
		}
	}
	if err := b.Detach(); err != nil {
		return sysError(fmt.Errorf("finalize storage: %w", err))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Cellar initialized in %s (driver %s)\n", a.settings.Config.DataDir, b.Driver())
	return nil
}

// writeConfigIfMissing creates config.yaml with the resolved values if the
// file does not exist. An existing file is left untouched.
func writeConfigIfMissing(path string, s settings) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	cfg := configFile{
		Backend:   s.Config.Backend,
		DataDir:   s.Config.DataDir,
		DefaultDB: s.Config.Database(),
		Themes:    themesConfig{Default: s.Themes.Default},
	}
	if cfg.Backend == "" {
		cfg.Backend = types.BackendSQLite
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
