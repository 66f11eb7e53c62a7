// Package cmd wires the booper CLI: flag surface, capability construction,
// and the release pipeline invocation.
package cmd

import (
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/RuairidhWilliamson/booper/internal/buildcheck"
	"github.com/RuairidhWilliamson/booper/internal/gitops"
	"github.com/RuairidhWilliamson/booper/internal/locator"
	"github.com/RuairidhWilliamson/booper/internal/release"
	"github.com/RuairidhWilliamson/booper/internal/report"
	"github.com/RuairidhWilliamson/booper/internal/version"
)

// Execute assembles the root command and runs it. toolVersion is injected by
// the main package so release builds can stamp it with ldflags.
func Execute(toolVersion string) error {
	return newRootCmd(toolVersion).Execute()
}

// rootOptions holds the configurable parameters of a release run.
type rootOptions struct {
	commit  bool
	tag     bool
	push    bool
	yes     bool
	dryRun  bool
	workers int
}

// newRootCmd creates the root command and registers the subcommands.
func newRootCmd(toolVersion string) *cobra.Command {
	options := rootOptions{
		workers: runtime.NumCPU(),
	}

	rootCmd := &cobra.Command{
		Use:   "booper [increment]",
		Short: "Bump the project version, then commit, tag and push the release",
		Long: "booper finds the current version in Cargo.toml and .env, computes the next\n" +
			"version from the requested increment, rewrites every tracked file that\n" +
			"references the version string, runs cargo check, and optionally commits,\n" +
			"tags and pushes the result with git.\n\n" +
			"The increment is one of auto, patch, minor, major, strip, pre, or an exact\n" +
			"version such as 1.4.0. The default, auto, bumps the patch version, or just\n" +
			"strips the pre-release suffix when the current version has one.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := "auto"
			if len(args) == 1 {
				token = args[0]
			}
			increment, err := version.ParseIncrement(token)
			if err != nil {
				return err
			}

			return runRelease(increment, options)
		},
	}

	rootCmd.Flags().BoolVarP(&options.commit, "commit", "c", false, "commit the version changes")
	rootCmd.Flags().BoolVarP(&options.tag, "tag", "t", false, "tag the commit, requires -c/--commit")
	rootCmd.Flags().BoolVarP(&options.push, "push", "p", false, "push the commit and tag, requires -c/--commit")
	rootCmd.Flags().BoolVarP(&options.yes, "yes", "y", false, "skip the interactive confirm step")
	rootCmd.Flags().BoolVar(&options.dryRun, "dry-run", false, "show the plan and exit without changing anything")
	rootCmd.Flags().IntVar(&options.workers, "workers", options.workers, "number of concurrent scan workers")

	rootCmd.AddCommand(newVersionCmd(toolVersion))
	rootCmd.AddCommand(newSourcesCmd())

	return rootCmd
}

// runRelease builds the real capabilities and drives the pipeline from the
// current working directory.
func runRelease(increment version.Increment, options rootOptions) error {
	root, err := os.Getwd()
	if err != nil {
		return err
	}

	pipeline := &release.Pipeline{
		Root:     root,
		Git:      &gitops.ExecClient{Dir: root},
		Checker:  &buildcheck.CargoChecker{Dir: root},
		Locator:  locator.New(),
		Reporter: &report.ConsoleReporter{Out: os.Stderr},
		Confirmer: &report.ConsoleConfirmer{
			In:  os.Stdin,
			Out: os.Stderr,
		},
	}
	if options.dryRun {
		pipeline.Checker = buildcheck.NopChecker{}
	}

	return pipeline.Run(release.Options{
		Increment:   increment,
		Commit:      options.commit,
		Tag:         options.tag,
		Push:        options.push,
		SkipConfirm: options.yes,
		DryRun:      options.dryRun,
		Workers:     options.workers,
	})
}
