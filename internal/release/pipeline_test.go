package release

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RuairidhWilliamson/booper/internal/locator"
	"github.com/RuairidhWilliamson/booper/internal/version"
)

// fakeGit records every git operation in order and serves canned answers.
type fakeGit struct {
	calls []string

	clean   bool
	lastTag string
	hasTag  bool

	commitErr error
	tagErr    error
	pushErr   error
}

func (g *fakeGit) IsClean() (bool, error) {
	g.calls = append(g.calls, "isclean")
	return g.clean, nil
}

func (g *fakeGit) LastTag() (string, bool, error) {
	g.calls = append(g.calls, "lasttag")
	return g.lastTag, g.hasTag, nil
}

func (g *fakeGit) Commit(message string) error {
	g.calls = append(g.calls, "commit "+message)
	return g.commitErr
}

func (g *fakeGit) CreateTag(name string) error {
	g.calls = append(g.calls, "tag "+name)
	return g.tagErr
}

func (g *fakeGit) Push() error {
	g.calls = append(g.calls, "push")
	return g.pushErr
}

func (g *fakeGit) PushTag(name string) error {
	g.calls = append(g.calls, "pushtag "+name)
	return g.pushErr
}

type fakeChecker struct {
	calls int
	err   error
}

func (c *fakeChecker) Check() error {
	c.calls++
	return c.err
}

type fakeConfirmer struct {
	asked   int
	approve bool
}

func (c *fakeConfirmer) Confirm(string) (bool, error) {
	c.asked++
	return c.approve, nil
}

type silentReporter struct {
	plans []*Plan
}

func (r *silentReporter) AnnounceUpgrade(from, to string) {}
func (r *silentReporter) ShowPlan(plan *Plan)             { r.plans = append(r.plans, plan) }
func (r *silentReporter) BeginBuildCheck() func()         { return func() {} }
func (r *silentReporter) Upgraded(plan *Plan)             {}

// writeFixtureFile drops a test file into place, creating parent directories.
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir fixture dir failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture file failed: %v", err)
	}
}

func readFixtureFile(t *testing.T, path string) string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture file failed: %v", err)
	}
	return string(data)
}

type testEnv struct {
	root      string
	git       *fakeGit
	checker   *fakeChecker
	confirmer *fakeConfirmer
	reporter  *silentReporter
	pipeline  *Pipeline
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		root:      t.TempDir(),
		git:       &fakeGit{clean: true},
		checker:   &fakeChecker{},
		confirmer: &fakeConfirmer{approve: true},
		reporter:  &silentReporter{},
	}
	env.pipeline = &Pipeline{
		Root:      env.root,
		Git:       env.git,
		Checker:   env.checker,
		Locator:   locator.New(),
		Reporter:  env.reporter,
		Confirmer: env.confirmer,
	}
	return env
}

func mustIncrement(t *testing.T, token string) version.Increment {
	t.Helper()

	inc, err := version.ParseIncrement(token)
	require.NoError(t, err)
	return inc
}

func TestRunEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "[package]\nversion = \"1.2.3\"\n")
	writeFixtureFile(t, filepath.Join(env.root, ".env"), "VERSION = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{
		Increment:   mustIncrement(t, "minor"),
		Commit:      true,
		Tag:         true,
		Push:        true,
		SkipConfirm: true,
	})
	require.NoError(t, err)

	require.Equal(t, "[package]\nversion = \"1.3.0\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
	require.Equal(t, "VERSION = \"1.3.0\"\n", readFixtureFile(t, filepath.Join(env.root, ".env")))
	require.Equal(t, 1, env.checker.calls)
	require.Equal(t, []string{
		"isclean",
		"lasttag",
		"commit Version 1.3.0",
		"push",
		"tag v1.3.0",
		"pushtag v1.3.0",
	}, env.git.calls)
}

func TestRunTagWithoutCommitFailsBeforeAnything(t *testing.T) {
	env := newTestEnv(t)
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch"), Tag: true})
	require.ErrorIs(t, err, ErrTagRequiresCommit)
	require.Empty(t, env.git.calls, "no git query may run before the usage check")
	require.Empty(t, env.reporter.plans, "no plan may be built")
	require.Equal(t, "version = \"1.2.3\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
}

func TestRunPushWithoutCommitFails(t *testing.T) {
	env := newTestEnv(t)

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch"), Push: true})
	require.ErrorIs(t, err, ErrPushRequiresCommit)
	require.Empty(t, env.git.calls)
}

func TestRunDirtyTreeFails(t *testing.T) {
	env := newTestEnv(t)
	env.git.clean = false
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch")})
	require.ErrorIs(t, err, ErrDirtyTree)
	require.Equal(t, "version = \"1.2.3\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
}

func TestRunDecliningConfirmationTouchesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.confirmer.approve = false
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")
	writeFixtureFile(t, filepath.Join(env.root, "README.md"), "Now at 1.2.3!\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch"), Commit: true})
	require.ErrorIs(t, err, ErrAborted)
	require.Equal(t, 1, env.confirmer.asked)
	require.Equal(t, "version = \"1.2.3\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
	require.Equal(t, "Now at 1.2.3!\n", readFixtureFile(t, filepath.Join(env.root, "README.md")))
	require.Equal(t, 0, env.checker.calls)
	require.Equal(t, []string{"isclean", "lasttag"}, env.git.calls)
}

func TestRunTagMismatchFails(t *testing.T) {
	env := newTestEnv(t)
	env.git.lastTag = "v9.9.9"
	env.git.hasTag = true
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch"), SkipConfirm: true})
	require.ErrorIs(t, err, locator.ErrTagMismatch)
}

func TestRunPrereleaseSkipsTagCheck(t *testing.T) {
	env := newTestEnv(t)
	env.git.lastTag = "v1.2.3"
	env.git.hasTag = true
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.3.0-pre\"\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "auto"), SkipConfirm: true})
	require.NoError(t, err)
	require.Equal(t, "version = \"1.3.0\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
}

func TestRunBuildCheckFailureLeavesFilesRewritten(t *testing.T) {
	env := newTestEnv(t)
	env.checker.err = errors.New("cargo check failed")
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch"), Commit: true, SkipConfirm: true})
	require.ErrorIs(t, err, env.checker.err)

	// Applied files are deliberately not rolled back; the operator resolves
	// the partial state by hand.
	require.Equal(t, "version = \"1.2.4\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
	require.Equal(t, []string{"isclean", "lasttag"}, env.git.calls, "no commit after a failed build check")
}

func TestRunCommitFailureStopsIntegration(t *testing.T) {
	env := newTestEnv(t)
	env.git.commitErr = errors.New("commit failed")
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{
		Increment:   mustIncrement(t, "patch"),
		Commit:      true,
		Tag:         true,
		Push:        true,
		SkipConfirm: true,
	})
	require.ErrorIs(t, err, env.git.commitErr)
	require.Equal(t, []string{"isclean", "lasttag", "commit Version 1.2.4"}, env.git.calls)
}

func TestRunBareTagConventionIsKept(t *testing.T) {
	env := newTestEnv(t)
	env.git.lastTag = "1.2.3"
	env.git.hasTag = true
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{
		Increment:   mustIncrement(t, "patch"),
		Commit:      true,
		Tag:         true,
		SkipConfirm: true,
	})
	require.NoError(t, err)
	require.Contains(t, env.git.calls, "tag 1.2.4")
}

func TestRunNoVersionFound(t *testing.T) {
	env := newTestEnv(t)

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch")})
	require.ErrorIs(t, err, locator.ErrNoVersionFound)
}

func TestRunExactIncrementOverridesDiscovery(t *testing.T) {
	env := newTestEnv(t)
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "3.0.0"), SkipConfirm: true})
	require.NoError(t, err)
	require.Equal(t, "version = \"3.0.0\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
}

func TestRunDryRunMutatesNothing(t *testing.T) {
	env := newTestEnv(t)
	writeFixtureFile(t, filepath.Join(env.root, "Cargo.toml"), "version = \"1.2.3\"\n")

	err := env.pipeline.Run(Options{
		Increment: mustIncrement(t, "major"),
		Commit:    true,
		Tag:       true,
		DryRun:    true,
	})
	require.NoError(t, err)
	require.Equal(t, "version = \"1.2.3\"\n", readFixtureFile(t, filepath.Join(env.root, "Cargo.toml")))
	require.Equal(t, 0, env.confirmer.asked)
	require.Equal(t, 0, env.checker.calls)
	require.Equal(t, []string{"isclean", "lasttag"}, env.git.calls)

	require.Len(t, env.reporter.plans, 1)
	plan := env.reporter.plans[0]
	require.Equal(t, "1.2.3", plan.From.String())
	require.Equal(t, "2.0.0", plan.To.String())
	require.Equal(t, []string{"Cargo.toml"}, plan.Files)
	require.Equal(t, "v2.0.0", plan.TagName)
}

func TestRunEmptyPlanIsLegal(t *testing.T) {
	env := newTestEnv(t)
	// Only .env carries the version, and it is gitignored: discovery still
	// reads it, but the rewrite walk never visits ignored paths.
	writeFixtureFile(t, filepath.Join(env.root, ".env"), "VERSION = \"1.2.3\"\n")
	writeFixtureFile(t, filepath.Join(env.root, ".gitignore"), ".env\n")

	err := env.pipeline.Run(Options{Increment: mustIncrement(t, "patch"), SkipConfirm: true})
	require.NoError(t, err)
	require.Len(t, env.reporter.plans, 1)
	require.Empty(t, env.reporter.plans[0].Files)
	require.Equal(t, "VERSION = \"1.2.3\"\n", readFixtureFile(t, filepath.Join(env.root, ".env")))
}

func TestPlanOperations(t *testing.T) {
	tests := []struct {
		name   string
		plan   Plan
		expect []string
	}{
		{name: "none", plan: Plan{}},
		{name: "commit", plan: Plan{Commit: true}, expect: []string{"committed"}},
		{name: "commit and tag", plan: Plan{Commit: true, Tag: true}, expect: []string{"committed", "tagged"}},
		{name: "all", plan: Plan{Commit: true, Tag: true, Push: true}, expect: []string{"committed", "tagged", "pushed"}},
		{name: "tag without commit is inert", plan: Plan{Tag: true, Push: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expect, tt.plan.Operations())
		})
	}
}
