package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the cellar release version.
const Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cellar %s\n", Version)
		},
	}
}
