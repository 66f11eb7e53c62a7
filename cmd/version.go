package cmd

import "github.com/spf13/cobra"

// newVersionCmd creates the version subcommand.
func newVersionCmd(toolVersion string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the booper version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("booper version %s\n", toolVersion)
		},
	}
}
