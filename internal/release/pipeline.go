// Package release sequences a version bump from discovery through git
// integration. The pipeline is a strict state machine: every state gates the
// next and the first failure aborts the run.
//
// Once the apply state has written files, a later failure (build check or
// any git operation) does not revert them: the project is left in a
// partially-updated, uncommitted state for the operator to resolve. Two
// simultaneous runs against the same project are unsupported.
package release

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/RuairidhWilliamson/booper/internal/buildcheck"
	"github.com/RuairidhWilliamson/booper/internal/gitops"
	"github.com/RuairidhWilliamson/booper/internal/locator"
	"github.com/RuairidhWilliamson/booper/internal/rewriter"
	"github.com/RuairidhWilliamson/booper/internal/version"
)

var (
	// ErrDirtyTree means the working tree has uncommitted changes. Bulk
	// editing files on top of them would make the release diff unreviewable.
	ErrDirtyTree = errors.New("uncommitted changes")
	// ErrTagRequiresCommit means --tag was requested without --commit.
	ErrTagRequiresCommit = errors.New("can't tag when --commit is not enabled")
	// ErrPushRequiresCommit means --push was requested without --commit.
	ErrPushRequiresCommit = errors.New("can't push when --commit is not enabled")
	// ErrAborted means the operator declined the confirmation prompt. No
	// file or repository state was touched.
	ErrAborted = errors.New("aborted")
)

// Options selects the increment strategy and the post-update operations for
// one run. They are fixed at process start and immutable thereafter.
type Options struct {
	Increment   version.Increment
	Commit      bool
	Tag         bool
	Push        bool
	SkipConfirm bool
	DryRun      bool
	Workers     int
}

// Plan is the approved unit of work: which files reference the current
// version, what they will say instead, and which git operations follow. It
// is built once per run and discarded after the apply phase.
type Plan struct {
	From    *semver.Version
	To      *semver.Version
	Files   []string
	TagName string
	Commit  bool
	Tag     bool
	Push    bool
}

// Operations lists the requested post-update git operations in past tense,
// for the confirmation banner. Tag and push are only effective with commit,
// which the precondition state has already enforced.
func (p *Plan) Operations() []string {
	var ops []string
	if p.Commit {
		ops = append(ops, "committed")
		if p.Tag {
			ops = append(ops, "tagged")
		}
		if p.Push {
			ops = append(ops, "pushed")
		}
	}
	return ops
}

// Confirmer obtains operator approval before any file is mutated.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// Reporter receives progress milestones for display. It must not influence
// control flow.
type Reporter interface {
	AnnounceUpgrade(from, to string)
	ShowPlan(plan *Plan)
	BeginBuildCheck() (done func())
	Upgraded(plan *Plan)
}

// Pipeline wires the capabilities a release needs. All fields are required;
// tests substitute fakes.
type Pipeline struct {
	Root      string
	Git       gitops.Client
	Checker   buildcheck.Checker
	Locator   *locator.Locator
	Reporter  Reporter
	Confirmer Confirmer
}

// Run executes the full release flow for the given options. Every returned
// error is fatal; there is no local retry anywhere.
func (p *Pipeline) Run(opts Options) error {
	// Usage preconditions come first so a misdialed run fails before any
	// file is even read.
	if opts.Tag && !opts.Commit {
		return ErrTagRequiresCommit
	}
	if opts.Push && !opts.Commit {
		return ErrPushRequiresCommit
	}

	clean, err := p.Git.IsClean()
	if err != nil {
		return err
	}
	if !clean {
		return ErrDirtyTree
	}

	current, err := p.Locator.Discover(p.Root)
	if err != nil {
		return err
	}

	lastTag, hasTag, err := p.Git.LastTag()
	if err != nil {
		return err
	}
	if err := locator.CheckTagAgreement(current, lastTag, hasTag); err != nil {
		return err
	}

	target, err := opts.Increment.Apply(current)
	if err != nil {
		return err
	}

	p.Reporter.AnnounceUpgrade(current.String(), target.String())

	sub, err := rewriter.NewSubstitution(current.String(), target.String())
	if err != nil {
		return err
	}
	service := rewriter.NewService(sub, opts.Workers)

	files, err := service.Plan(p.Root)
	if err != nil {
		return err
	}

	plan := &Plan{
		From:    current,
		To:      target,
		Files:   files,
		TagName: gitops.TagName(target.String(), lastTag, hasTag),
		Commit:  opts.Commit,
		Tag:     opts.Tag,
		Push:    opts.Push,
	}
	p.Reporter.ShowPlan(plan)

	if opts.DryRun {
		return nil
	}

	if !opts.SkipConfirm {
		approved, err := p.Confirmer.Confirm("Do you want to continue?")
		if err != nil {
			return err
		}
		if !approved {
			return ErrAborted
		}
	}

	if err := service.Apply(p.Root, plan.Files); err != nil {
		return err
	}

	done := p.Reporter.BeginBuildCheck()
	err = p.Checker.Check()
	done()
	if err != nil {
		return err
	}

	p.Reporter.Upgraded(plan)
	return p.integrate(plan)
}

// integrate performs the requested git operations in the fixed order:
// commit, push, tag, push tag.
func (p *Pipeline) integrate(plan *Plan) error {
	if !plan.Commit {
		return nil
	}
	if err := p.Git.Commit(fmt.Sprintf("Version %s", plan.To)); err != nil {
		return err
	}
	if plan.Push {
		if err := p.Git.Push(); err != nil {
			return err
		}
	}
	if plan.Tag {
		if err := p.Git.CreateTag(plan.TagName); err != nil {
			return err
		}
		if plan.Push {
			if err := p.Git.PushTag(plan.TagName); err != nil {
				return err
			}
		}
	}
	return nil
}
