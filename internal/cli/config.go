package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/cellar/internal/export"
	"github.com/mesh-intelligence/cellar/internal/paths"
	"github.com/mesh-intelligence/cellar/internal/theme"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend           = "backend"
	cfgKeyDataDir           = "data_dir"
	cfgKeyDefaultDB         = "default_db"
	cfgKeyThemesDirs        = "themes.dirs"
	cfgKeyThemesURLDir      = "themes.url_dir"
	cfgKeyThemesDefault     = "themes.default"
	cfgKeyThemesCookieName  = "themes.cookie_name"
	cfgKeyThemesPerServer   = "themes.per_server"
	cfgKeyThemesServer      = "themes.server"
	cfgKeyExportCompression = "export.compression"
	cfgKeyCodegenFormat     = "export.codegen.format"
	cfgKeyCodegenIdents     = "export.codegen.identifiers"
)

// settings is the resolved configuration of one invocation.
type settings struct {
	Config      types.Config
	Themes      theme.Config
	Compression export.Compression
	Codegen     export.CodegenOptions
}

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDefaultDB, types.DefaultDatabase)
	v.SetDefault(cfgKeyThemesDefault, theme.FallbackTheme)
	v.SetDefault(cfgKeyThemesCookieName, theme.DefaultCookieName)
	v.SetDefault(cfgKeyThemesURLDir, theme.DefaultURLDir)
	v.SetDefault(cfgKeyExportCompression, string(export.CompressionNone))
	v.SetDefault(cfgKeyCodegenFormat, string(export.NHibernateCS))
	v.SetDefault(cfgKeyCodegenIdents, string(export.IdentifiersPreserve))
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// readSettings resolves directories and validates enumerated settings.
func readSettings(v *viper.Viper, configDir, dataDirFlag string) (settings, error) {
	dataDir, err := paths.ResolveDataDir(dataDirFlag, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   dataDir,
		DefaultDB: v.GetString(cfgKeyDefaultDB),
	}
	if err := cfg.Validate(); err != nil {
		return settings{}, fmt.Errorf("config %s: %w", filepath.Join(configDir, configFileExt), err)
	}

	comp, err := export.ParseCompression(v.GetString(cfgKeyExportCompression))
	if err != nil {
		return settings{}, fmt.Errorf("config %s: %w", cfgKeyExportCompression, err)
	}
	cg, err := export.ParseCodegenFormat(v.GetString(cfgKeyCodegenFormat))
	if err != nil {
		return settings{}, fmt.Errorf("config %s: %w", cfgKeyCodegenFormat, err)
	}

	return settings{
		Config: cfg,
		Themes: theme.Config{
			Dirs:       paths.ResolveThemesDirs(configDir, v.GetStringSlice(cfgKeyThemesDirs)),
			URLDir:     v.GetString(cfgKeyThemesURLDir),
			Default:    v.GetString(cfgKeyThemesDefault),
			CookieName: v.GetString(cfgKeyThemesCookieName),
			PerServer:  v.GetBool(cfgKeyThemesPerServer),
			Server:     v.GetString(cfgKeyThemesServer),
		},
		Compression: comp,
		Codegen: export.CodegenOptions{
			Format:      cg,
			Identifiers: export.IdentifierStyle(v.GetString(cfgKeyCodegenIdents)),
		},
	}, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}
