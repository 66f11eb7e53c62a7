// Package gitops wraps the git executable behind a small capability
// interface so the release pipeline can be tested without a repository.
package gitops

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// Client is the version-control capability the release pipeline depends on.
type Client interface {
	// IsClean reports whether the working tree has no uncommitted changes.
	IsClean() (bool, error)
	// LastTag returns the most recent tag. ok is false when the repository
	// has no tags at all, which is not an error.
	LastTag() (tag string, ok bool, err error)
	// Commit commits all tracked changes with the given message.
	Commit(message string) error
	// CreateTag creates a lightweight tag on the current commit.
	CreateTag(name string) error
	// Push pushes the current branch.
	Push() error
	// PushTag pushes the named tag to origin.
	PushTag(name string) error
}

// ExecClient implements Client by invoking the git executable. Dir is the
// working directory for every invocation; empty means the process cwd.
type ExecClient struct {
	Dir string
}

func (c *ExecClient) git(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = c.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return fmt.Errorf("git %s: %v: %s", args[0], err, detail)
		}
		return fmt.Errorf("git %s: %v", args[0], err)
	}
	return nil
}

// IsClean runs `git diff --exit-code`; a non-zero exit means the tree is
// dirty, not that the command failed.
func (c *ExecClient) IsClean() (bool, error) {
	cmd := exec.Command("git", "diff", "--quiet", "--exit-code")
	cmd.Dir = c.Dir
	if err := cmd.Run(); err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return false, nil
		}
		return false, fmt.Errorf("git diff: %v", err)
	}
	return true, nil
}

// LastTag runs `git describe --tags --abbrev=0`. A non-zero exit is treated
// as "no tags yet".
func (c *ExecClient) LastTag() (string, bool, error) {
	cmd := exec.Command("git", "describe", "--tags", "--abbrev=0")
	cmd.Dir = c.Dir
	out, err := cmd.Output()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return "", false, nil
		}
		return "", false, fmt.Errorf("git describe: %v", err)
	}
	return strings.TrimSpace(string(out)), true, nil
}

func (c *ExecClient) Commit(message string) error {
	return c.git("commit", "-am", message)
}

func (c *ExecClient) CreateTag(name string) error {
	return c.git("tag", name)
}

func (c *ExecClient) Push() error {
	return c.git("push")
}

func (c *ExecClient) PushTag(name string) error {
	return c.git("push", "origin", name)
}
