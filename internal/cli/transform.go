package cli

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/dbi"
	"github.com/mesh-intelligence/cellar/internal/transform"
	"github.com/mesh-intelligence/cellar/pkg/types"
)

var errNoInput = errors.New("transformation has no input widget")

func newTransformCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply column transformations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List transformations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTransformList(cmd)
		},
	})
	cmd.AddCommand(newTransformApplyCmd(a))
	cmd.AddCommand(newTransformInputCmd())
	return cmd
}

type transformEntry struct {
	Kind     string `json:"kind"`
	Name     string `json:"name"`
	MIMEType string `json:"mime_type"`
	Input    bool   `json:"input"`
	Info     string `json:"info"`
}

func (a *app) runTransformList(cmd *cobra.Command) error {
	var entries []transformEntry
	for _, k := range transform.Kinds() {
		p, err := transform.Lookup(k)
		if err != nil {
			return err
		}
		_, input := p.(transform.InputPlugin)
		entries = append(entries, transformEntry{
			Kind:     string(k),
			Name:     p.Name(),
			MIMEType: p.MIMEType() + "/" + p.MIMESubtype(),
			Input:    input,
			Info:     p.Info(),
		})
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return printJSON(out, entries)
	}
	w := newTable(out)
	fmt.Fprintln(w, "KIND\tNAME\tMIME\tINPUT")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", e.Kind, e.Name, e.MIMEType, e.Input)
	}
	return w.Flush()
}

func newTransformApplyCmd(a *app) *cobra.Command {
	var (
		hexInput bool
		db       string
		table    string
		column   string
		options  []string
	)
	cmd := &cobra.Command{
		Use:   "apply <kind> [value...]",
		Short: "Transform values given as arguments or read from a table column",
		Long: "Apply transforms each value argument and prints one result per line.\n" +
			"With --table and --column the values are read from the database.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := transform.ParseKind(args[0])
			if err != nil {
				return err
			}
			p, err := transform.Lookup(k)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if table != "" || column != "" {
				if table == "" || column == "" || len(args) > 1 {
					return errors.New("--table and --column go together and take no value arguments")
				}
				if db == "" {
					db = a.settings.Config.Database()
				}
				return a.applyToColumn(out, p, options, db, table, column)
			}

			for _, v := range args[1:] {
				if hexInput {
					raw, err := hex.DecodeString(v)
					if err != nil {
						return fmt.Errorf("decode %q: %w", v, err)
					}
					v = string(raw)
				}
				fmt.Fprintln(out, p.Apply(v, options, nil))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&hexInput, "hex", false, "value arguments are hex encoded")
	cmd.Flags().StringVar(&db, "db", "", "database of --table (default: default_db)")
	cmd.Flags().StringVar(&table, "table", "", "read values from this table")
	cmd.Flags().StringVar(&column, "column", "", "column of --table to transform")
	cmd.Flags().StringArrayVar(&options, "option", nil, "transformation option, repeatable")
	return cmd
}

// applyToColumn prints the transformed value of column for every row of
// table. NULL cells print as NULL.
func (a *app) applyToColumn(out io.Writer, p transform.Plugin, options []string, db, table, column string) error {
	b, err := a.openBackend()
	if err != nil {
		return err
	}
	defer b.Detach()

	q := fmt.Sprintf("SELECT %s FROM %s", dbi.QuoteIdent(column), dbi.QuoteIdent(table))
	rows, err := b.Query(db, q)
	if err != nil {
		return fmt.Errorf("read %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	meta := rows.FieldsMeta()[0]
	for {
		row, err := rows.FetchRow()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return sysError(fmt.Errorf("fetch %s.%s: %w", table, column, err))
		}
		v, ok := types.CellString(row[0])
		if !ok {
			fmt.Fprintln(out, "NULL")
			continue
		}
		fmt.Fprintln(out, p.Apply(v, options, &meta))
	}
}

func newTransformInputCmd() *cobra.Command {
	var f transform.InputField
	cmd := &cobra.Command{
		Use:   "input <kind>",
		Short: "Render the HTML edit widget of a transformation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := transform.ParseKind(args[0])
			if err != nil {
				return err
			}
			p, err := transform.Lookup(k)
			if err != nil {
				return err
			}
			ip, ok := p.(transform.InputPlugin)
			if !ok {
				return fmt.Errorf("%w: %s", errNoInput, k)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ip.InputHTML(f))
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Value, "value", "", "stored value")
	cmd.Flags().StringVar(&f.NameAppendix, "name-appendix", "", "suffix of the form field names")
	cmd.Flags().StringVar(&f.TextDir, "text-dir", "ltr", "text direction, ltr or rtl")
	cmd.Flags().IntVar(&f.TabIndex, "tab-index", 0, "base tab index")
	cmd.Flags().IntVar(&f.TabIndexForValue, "tab-index-for-value", 0, "tab index offset of the value field")
	cmd.Flags().IntVar(&f.IDIndex, "id-index", 0, "index used in element ids")
	return cmd
}
