package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/cellar/internal/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Draw relation schemas",
	}

	var (
		output string
		opts   schema.Options
	)
	eps := &cobra.Command{
		Use:   "eps [db]",
		Short: "Write the relation schema of a database as Encapsulated PostScript",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := a.settings.Config.Database()
			if len(args) == 1 {
				db = args[0]
			}
			if opts.Date == "" {
				opts.Date = time.Now().Format(time.RFC1123)
			}

			b, err := a.openBackend()
			if err != nil {
				return err
			}
			defer b.Detach()

			path := output
			if path != "" && !strings.HasSuffix(path, "."+schema.Extension) {
				path += "." + schema.Extension
			}
			w, closeFile, err := openOutput(cmd.OutOrStdout(), path)
			if err != nil {
				return err
			}
			err = schema.NewRelationSchema(b, opts, a.log).Write(w, db)
			if cerr := closeFile(); cerr != nil && err == nil {
				err = sysError(fmt.Errorf("close %s: %w", path, cerr))
			}
			if err != nil {
				return err
			}
			if path != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Schema of %s written to %s\n", db, path)
			}
			return nil
		},
	}
	eps.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	eps.Flags().StringVar(&opts.Title, "title", "", "document title (default: Schema of the <db> database)")
	eps.Flags().StringVar(&opts.Author, "author", "cellar", "document creator")
	eps.Flags().StringVar(&opts.Date, "date", "", "creation date (default: now)")
	eps.Flags().StringVar(&opts.Orientation, "orientation", "P", "P for portrait, L for landscape")
	eps.Flags().StringVar(&opts.Font, "font", schema.DefaultFont, "PostScript font name")
	eps.Flags().IntVar(&opts.FontSize, "font-size", schema.DefaultFontSize, "font size in points")
	eps.Flags().BoolVar(&opts.ShowKeysOnly, "keys-only", false, "draw only key columns")
	eps.Flags().BoolVar(&opts.AllTablesSameWidth, "same-width", false, "draw every table with the same width")
	eps.Flags().BoolVar(&opts.ShowTableDimension, "dimension", false, "show column and row counts in table titles")

	cmd.AddCommand(eps)
	return cmd
}
