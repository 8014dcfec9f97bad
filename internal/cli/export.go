package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/dbi"
	"github.com/mesh-intelligence/cellar/internal/export"
)

// exportFlags are shared by the export subcommands.
type exportFlags struct {
	db              string
	format          string
	output          string
	compression     string
	codegenFormat   string
	identifiers     string
	aliases         []string
	aliasesFile     string
	structureOrData string
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tables, databases or query results",
		Long: "Export writes YAML documents or generated NHibernate code for a set\n" +
			"of tables, a whole database, or the result of a query.",
	}

	table := &cobra.Command{
		Use:   "table <table>...",
		Short: "Export one or more tables",
		Args:  cobra.MinimumNArgs(1),
	}
	var tf exportFlags
	addExportFlags(table, &tf)
	table.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runExport(cmd, &tf, export.Request{Kind: export.KindTable, Tables: args})
	}

	database := &cobra.Command{
		Use:   "database [db]",
		Short: "Export every table of a database",
		Args:  cobra.MaximumNArgs(1),
	}
	var df exportFlags
	addExportFlags(database, &df)
	database.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			df.db = args[0]
		}
		return a.runExport(cmd, &df, export.Request{Kind: export.KindDatabase})
	}

	query := &cobra.Command{
		Use:   "query <sql>",
		Short: "Export the result of a SQL query",
		Args:  cobra.ExactArgs(1),
	}
	var qf exportFlags
	addExportFlags(query, &qf)
	query.RunE = func(cmd *cobra.Command, args []string) error {
		return a.runExport(cmd, &qf, export.Request{Kind: export.KindRaw, Query: args[0]})
	}

	cmd.AddCommand(table, database, query)
	return cmd
}

func addExportFlags(cmd *cobra.Command, f *exportFlags) {
	names := make([]string, 0, len(export.Formats()))
	for _, ft := range export.Formats() {
		names = append(names, ft.String())
	}
	cmd.Flags().StringVar(&f.db, "db", "", "database to export from (default: default_db)")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(export.YAML), "export format ("+strings.Join(names, ", ")+")")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&f.compression, "compression", "", "none, gzip or zstd (default: export.compression)")
	cmd.Flags().StringVar(&f.codegenFormat, "codegen-format", "", "nhibernate-cs or nhibernate-xml (default: export.codegen.format)")
	cmd.Flags().StringVar(&f.identifiers, "identifiers", "", "preserve or camel (default: export.codegen.identifiers)")
	cmd.Flags().StringArrayVar(&f.aliases, "alias", nil, "display alias as db[.table[.column]]=alias, repeatable")
	cmd.Flags().StringVar(&f.aliasesFile, "aliases-file", "", "YAML file of database, table and column aliases")
	cmd.Flags().StringVar(&f.structureOrData, "structure-or-data", string(export.Data), "structure, data or structure_and_data")
}

func parseStructureOrData(s string) (export.StructureOrData, error) {
	switch v := export.StructureOrData(s); v {
	case export.Structure, export.Data, export.StructureAndData:
		return v, nil
	default:
		return "", fmt.Errorf("%w: structure-or-data %q", export.ErrInvalidRequest, s)
	}
}

func (a *app) runExport(cmd *cobra.Command, f *exportFlags, req export.Request) error {
	format, err := export.ParseFormat(f.format)
	if err != nil {
		return err
	}
	comp := a.settings.Compression
	if f.compression != "" {
		if comp, err = export.ParseCompression(f.compression); err != nil {
			return err
		}
	}
	opts := a.settings.Codegen
	if f.codegenFormat != "" {
		if opts.Format, err = export.ParseCodegenFormat(f.codegenFormat); err != nil {
			return err
		}
	}
	if f.identifiers != "" {
		opts.Identifiers = export.IdentifierStyle(f.identifiers)
	}
	if req.StructureOrData, err = parseStructureOrData(f.structureOrData); err != nil {
		return err
	}
	if req.Aliases, err = loadAliases(f.aliasesFile, f.aliases); err != nil {
		return err
	}
	req.DB = f.db
	if req.DB == "" {
		req.DB = a.settings.Config.Database()
	}

	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Detach()

	path := f.output
	if path != "" && !strings.HasSuffix(path, comp.Suffix()) {
		path += comp.Suffix()
	}
	w, closeFile, err := openOutput(cmd.OutOrStdout(), path)
	if err != nil {
		return err
	}

	out, err := export.NewOutput(w, comp)
	if err != nil {
		closeFile()
		return err
	}
	plugin, err := export.New(format, export.Deps{Out: out, DB: b, Codegen: opts})
	if err != nil {
		closeFile()
		return err
	}

	id, runErr := export.NewRunner(b, export.WithLogger(a.log)).Run(plugin, req)
	closeErr := out.Close()
	if err := closeFile(); err != nil && closeErr == nil {
		closeErr = sysError(fmt.Errorf("close %s: %w", path, err))
	}
	if runErr != nil {
		if errors.Is(runErr, export.ErrOutput) {
			return sysError(runErr)
		}
		return runErr
	}
	if closeErr != nil {
		return sysError(closeErr)
	}

	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bytes to %s (run %s)\n", out.Bytes(), path, id)
	}
	return nil
}

// openOutput returns stdout when path is empty, otherwise a created file.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, nil, sysError(fmt.Errorf("create output: %w", err))
	}
	return fh, fh.Close, nil
}

// Exports read straight from the backend.
var _ export.Querier = (*dbi.Backend)(nil)
