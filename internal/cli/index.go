package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/index"
)

func newIndexCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "List, create, replace and drop table indexes",
	}
	cmd.PersistentFlags().String("db", "", "database of the table (default: default_db)")

	cmd.AddCommand(&cobra.Command{
		Use:   "list <table>",
		Short: "List the indexes of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withIndexController(cmd, args[0], func(c *index.Controller) error {
				return a.printIndexes(cmd, c)
			})
		},
	})
	cmd.AddCommand(newIndexSaveCmd(a, "preview", "Print the statements that would create or replace an index", true))
	cmd.AddCommand(newIndexSaveCmd(a, "apply", "Create or replace an index", false))
	cmd.AddCommand(&cobra.Command{
		Use:   "drop <table> <index>",
		Short: "Drop an index",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withIndexController(cmd, args[0], func(c *index.Controller) error {
				res, err := c.Drop(args[1])
				if err != nil {
					return err
				}
				return a.printIndexResult(cmd, res)
			})
		},
	})
	return cmd
}

func newIndexSaveCmd(a *app, use, short string, preview bool) *cobra.Command {
	fields := map[string]*string{}
	var oldName string
	cmd := &cobra.Command{
		Use:   use + " <table>",
		Short: short,
		Long: "The index is described like the fields of the index form. --columns\n" +
			"is a comma separated list, e.g. \"user_id, title\". --old names the\n" +
			"index being replaced.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := make(map[string]string, len(fields))
			for k, v := range fields {
				form[k] = *v
			}
			idx, err := index.FromForm(form)
			if err != nil {
				return err
			}
			return a.withIndexController(cmd, args[0], func(c *index.Controller) error {
				res, err := c.Action(index.Request{OldName: oldName, Index: idx, Preview: preview})
				if err != nil {
					return err
				}
				return a.printIndexResult(cmd, res)
			})
		},
	}
	for _, f := range []struct{ name, usage string }{
		{"name", "index name"},
		{"choice", "PRIMARY, UNIQUE, INDEX, FULLTEXT or SPATIAL (default: INDEX)"},
		{"columns", "comma separated index columns"},
		{"type", "index type, e.g. BTREE"},
		{"comment", "index comment"},
	} {
		fields[f.name] = cmd.Flags().String(f.name, "", f.usage)
	}
	cmd.Flags().StringVar(&oldName, "old", "", "name of the index being replaced")
	return cmd
}

// withIndexController attaches the backend and runs fn against table.
func (a *app) withIndexController(cmd *cobra.Command, table string, fn func(*index.Controller) error) error {
	db, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if db == "" {
		db = a.settings.Config.Database()
	}
	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Detach()
	return fn(index.NewController(b, db, table, a.log))
}

type indexEntry struct {
	Name    string   `json:"name"`
	Choice  string   `json:"choice"`
	Columns []string `json:"columns"`
}

func (a *app) printIndexes(cmd *cobra.Command, c *index.Controller) error {
	list, err := c.List()
	if err != nil {
		return err
	}
	entries := make([]indexEntry, 0, len(list))
	for _, idx := range list {
		entries = append(entries, indexEntry{Name: idx.Name, Choice: string(idx.Choice), Columns: idx.ColumnNames()})
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, entries)
	}
	w := newTable(out)
	fmt.Fprintln(w, "NAME\tCHOICE\tCOLUMNS")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Choice, strings.Join(e.Columns, ", "))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\nTotal: %d index(es)\n", len(entries))
	return nil
}

func (a *app) printIndexResult(cmd *cobra.Command, res index.Result) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, struct {
			Statements []string `json:"statements"`
			Executed   bool     `json:"executed"`
			Message    string   `json:"message,omitempty"`
		}{res.Statements, res.Executed, res.Message})
	}
	fmt.Fprintln(out, res.SQL())
	if res.Message != "" {
		fmt.Fprintln(out, res.Message)
	}
	return nil
}
