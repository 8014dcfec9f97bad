package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDBCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage databases in the data directory",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List databases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDBList(cmd)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDBCreate(cmd, args[0])
		},
	})
	return cmd
}

type dbEntry struct {
	Name   string `json:"name"`
	Tables int    `json:"tables"`
}

func (a *app) runDBList(cmd *cobra.Command) error {
	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Detach()

	names, err := b.Databases()
	if err != nil {
		return sysError(fmt.Errorf("list databases: %w", err))
	}
	entries := make([]dbEntry, 0, len(names))
	for _, n := range names {
		tables, err := b.Tables(n)
		if err != nil {
			return sysError(fmt.Errorf("list tables of %s: %w", n, err))
		}
		entries = append(entries, dbEntry{Name: n, Tables: len(tables)})
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, entries)
	}
	w := newTable(out)
	fmt.Fprintln(w, "NAME\tTABLES")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%d\n", e.Name, e.Tables)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal: %d database(s)\n", len(entries))
	return nil
}

func (a *app) runDBCreate(cmd *cobra.Command, name string) error {
	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Detach()

	if err := b.CreateDatabase(name); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Database %s created\n", name)
	return nil
}
