// Package buildcheck gates the release on an external build-consistency
// check after the project files have been rewritten.
package buildcheck

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Checker is the build-consistency capability the release pipeline calls
// after applying the version substitution.
type Checker interface {
	Check() error
}

// CargoChecker runs `cargo check -q` in the project directory, which also
// regenerates the lock file so it agrees with the rewritten manifest.
type CargoChecker struct {
	Dir string
}

func (c *CargoChecker) Check() error {
	cmd := exec.Command("cargo", "check", "-q")
	cmd.Dir = c.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("cargo check failed: %v: %s", err, detail)
		}
		return fmt.Errorf("cargo check failed: %v", err)
	}
	return nil
}

// NopChecker skips the build check. Used for dry runs.
type NopChecker struct{}

func (NopChecker) Check() error { return nil }
