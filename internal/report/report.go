// Package report renders pipeline progress for the terminal: the upgrade
// banner, the plan table, the build-check spinner, and the confirmation
// prompt. Everything user visible lives here so the pipeline stays silent
// and testable.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/RuairidhWilliamson/booper/internal/release"
	"github.com/RuairidhWilliamson/booper/internal/rewriter"
)

// ConsoleReporter writes progress to the given writer, normally stderr so
// the diagnostics stay separate from anything scriptable.
type ConsoleReporter struct {
	Out io.Writer
	// Plain disables the spinner, for non-terminal output.
	Plain bool

	loader *spinner.Spinner
}

// AnnounceUpgrade prints the from/to banner once the target is computed.
func (r *ConsoleReporter) AnnounceUpgrade(from, to string) {
	fmt.Fprintf(r.Out, "Upgrading version %s to %s\n", from, to)
}

// ShowPlan prints the files about to change and the git operations that
// will follow, e.g. "The following files will be changed, committed and
// tagged:".
func (r *ConsoleReporter) ShowPlan(plan *release.Plan) {
	if len(plan.Files) == 0 {
		fmt.Fprintln(r.Out, text.FgYellow.Sprint("No files reference the current version; nothing will be changed."))
		return
	}

	fmt.Fprintf(r.Out, "The following files will be changed%s:\n", opsSuffix(plan.Operations()))

	tw := table.NewWriter()
	tw.SetOutputMirror(r.Out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"FILE", "MATCH"})
	for _, file := range plan.Files {
		tw.AppendRow(table.Row{file, rewriter.Classify(file).String()})
	}
	tw.Render()

	if plan.Commit && plan.Tag {
		fmt.Fprintf(r.Out, "Tag: %s\n", plan.TagName)
	}
}

// BeginBuildCheck starts the spinner for the external build check and
// returns the function that stops it.
func (r *ConsoleReporter) BeginBuildCheck() func() {
	if r.Plain {
		fmt.Fprintln(r.Out, "Running cargo check...")
		return func() {}
	}
	r.loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(r.Out))
	r.loader.Color("yellow") //nolint:errcheck
	r.loader.Suffix = " Running cargo check..."
	r.loader.Start()
	return func() {
		r.loader.Stop()
	}
}

// Upgraded prints the success line after the build check passes.
func (r *ConsoleReporter) Upgraded(*release.Plan) {
	fmt.Fprintln(r.Out, text.FgGreen.Sprint("Upgraded!"))
}

// opsSuffix phrases the pending operations as a clause: "" for none,
// " and committed" for one, ", committed and tagged" for more.
func opsSuffix(ops []string) string {
	if len(ops) == 0 {
		return ""
	}
	last := ops[len(ops)-1]
	var sb strings.Builder
	for _, op := range ops[:len(ops)-1] {
		sb.WriteString(", ")
		sb.WriteString(op)
	}
	sb.WriteString(" and ")
	sb.WriteString(last)
	return sb.String()
}
