package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ConsoleConfirmer asks a yes/no question on the terminal. An empty answer
// counts as no.
type ConsoleConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Confirm prints the prompt and reads one line. Outside a terminal it
// refuses rather than hang a script; non-interactive callers pass --yes.
func (c *ConsoleConfirmer) Confirm(prompt string) (bool, error) {
	if file, isFile := c.In.(*os.File); isFile && !term.IsTerminal(int(file.Fd())) {
		return false, fmt.Errorf("confirmation requires a terminal; re-run with --yes to skip the prompt")
	}

	fmt.Fprintf(c.Out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
