// Package cli implements the cellar command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mesh-intelligence/cellar/internal/dbi"
	"github.com/mesh-intelligence/cellar/internal/paths"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the commands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	settings  settings
	log       *zap.Logger
}

// exitError carries the process exit code of a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// sysError marks err as an environment failure rather than a usage error.
func sysError(err error) error {
	return &exitError{code: exitSysError, err: err}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return exitUserError
}

// NewRootCmd creates the top-level "cellar" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "cellar",
		Short:         "Administer the SQLite databases of a data directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: .cellar-db)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newDBCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newSchemaCmd(a))
	root.AddCommand(newThemeCmd(a))
	root.AddCommand(newTransformCmd(a))
	root.AddCommand(newIndexCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}

// setup builds the logger and loads configuration.
func (a *app) setup() error {
	config := zap.NewProductionConfig()
	if a.flags.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	log, err := config.Build()
	if err != nil {
		return sysError(fmt.Errorf("initialize logger: %w", err))
	}
	a.log = log

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	a.v = v

	s, err := readSettings(v, configDir, a.flags.dataDir)
	if err != nil {
		return err
	}
	a.settings = s
	return nil
}

// openBackend attaches the database backend. The caller must Detach it.
func (a *app) openBackend() (*dbi.Backend, error) {
	b, err := dbi.Open(a.settings.Config, dbi.WithLogger(a.log))
	if err != nil {
		return nil, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return b, nil
}
