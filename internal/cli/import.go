package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load rows into a table",
	}
	var db string
	jsonl := &cobra.Command{
		Use:   "jsonl <table> <file>",
		Short: "Insert the objects of a JSON-lines file into a table",
		Long: "Each line of the file is one JSON object keyed by column name. Keys\n" +
			"that are not columns are ignored and malformed lines are skipped. The\n" +
			"import runs in one transaction.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openBackend()
			if err != nil {
				return err
			}
			defer b.Detach()

			if db == "" {
				db = a.settings.Config.Database()
			}
			n, err := b.ImportJSONL(db, args[0], args[1])
			if err != nil {
				return fmt.Errorf("import %s: %w", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d row(s) into %s.%s\n", n, db, args[0])
			return nil
		},
	}
	jsonl.Flags().StringVar(&db, "db", "", "target database (default: default_db)")
	cmd.AddCommand(jsonl)
	return cmd
}
