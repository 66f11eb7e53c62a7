package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/RuairidhWilliamson/booper/internal/locator"
	"github.com/RuairidhWilliamson/booper/internal/rewriter"
)

// newSourcesCmd creates the sources subcommand, which lists the well-known
// files probed for the current version and how each file class is matched
// during the rewrite.
func newSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the version source files and match rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if _, err := fmt.Fprintln(writer, "SOURCE\tPATTERN"); err != nil {
				return err
			}
			for _, src := range locator.DefaultSources() {
				if _, err := fmt.Fprintf(writer, "%s\t%s\n", src.File, src.Pattern); err != nil {
					return err
				}
			}

			if _, err := fmt.Fprintln(writer, "\nFILE\tMATCH"); err != nil {
				return err
			}
			for _, name := range []string{"Cargo.toml", "Cargo.lock", "(any other file)"} {
				if _, err := fmt.Fprintf(writer, "%s\t%s\n", name, rewriter.Classify(name)); err != nil {
					return err
				}
			}

			return writer.Flush()
		},
	}
}
