// Package locator discovers the project's current version from a fixed set
// of well-known files and validates that it is safe to bump.
package locator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/RuairidhWilliamson/booper/internal/gitops"
	"github.com/RuairidhWilliamson/booper/internal/version"
)

var (
	// ErrNoVersionFound means none of the well-known files yielded a version.
	ErrNoVersionFound = errors.New("no versions found")
	// ErrInconsistentVersions means the well-known files disagree on the
	// version string. The comparison is textual on purpose: differing
	// pre-release suffixes already signal a confused project state that must
	// not be auto-resolved.
	ErrInconsistentVersions = errors.New("no consistent version found")
	// ErrBuildMetadata means the discovered version carries a +build suffix.
	// Substituting such a version could silently rewrite unrelated build-hash
	// strings, so the tool refuses to proceed.
	ErrBuildMetadata = errors.New("build suffix unsupported")
	// ErrTagMismatch means the most recent git tag names a different version
	// than the project files.
	ErrTagMismatch = errors.New("last git tag does not match the detected version")
)

// assignmentPattern matches `version = "X"` with a case-insensitive key and
// optional spaces around the equals sign. Group 2 captures the quoted value.
var assignmentPattern = regexp.MustCompile(`((?i:version) *= *)"([^"]+)"`)

// Source is one well-known file to probe for the current version. Pattern's
// second capture group must hold the version string.
type Source struct {
	File    string
	Pattern *regexp.Regexp
}

// DefaultSources is the ordered probe list: the project manifest and the
// environment definition file. Extending the scan is a matter of adding a
// row here, not of touching the discovery algorithm.
func DefaultSources() []Source {
	return []Source{
		{File: "Cargo.toml", Pattern: assignmentPattern},
		{File: ".env", Pattern: assignmentPattern},
	}
}

// Locator scans an ordered list of sources under a project root.
type Locator struct {
	Sources []Source
}

// New returns a Locator over the default well-known sources.
func New() *Locator {
	return &Locator{Sources: DefaultSources()}
}

// Discover determines the single authoritative current version under root.
// Every source that exists must agree textually on the version string, and
// the agreed version must parse and carry no build metadata.
func (l *Locator) Discover(root string) (*semver.Version, error) {
	var found []string
	for _, src := range l.Sources {
		data, err := os.ReadFile(filepath.Join(root, src.File))
		if err != nil {
			// Missing or unreadable sources are simply not probed.
			continue
		}
		match := src.Pattern.FindSubmatch(data)
		if match == nil {
			continue
		}
		found = append(found, string(match[2]))
	}

	if len(found) == 0 {
		return nil, ErrNoVersionFound
	}
	for _, text := range found[1:] {
		if text != found[0] {
			return nil, fmt.Errorf("%w: %q", ErrInconsistentVersions, found)
		}
	}

	current, err := version.Parse(found[0])
	if err != nil {
		return nil, fmt.Errorf("version %q in project files: %w", found[0], err)
	}
	if current.Metadata() != "" {
		return nil, fmt.Errorf("%w: %s", ErrBuildMetadata, current)
	}
	return current, nil
}

// CheckTagAgreement validates the discovered version against the most recent
// release tag. Pre-release versions are exempt because no tag is expected to
// exist yet for an in-progress pre-release.
func CheckTagAgreement(current *semver.Version, lastTag string, hasLast bool) error {
	if !hasLast || current.Prerelease() != "" {
		return nil
	}
	stripped, _ := gitops.SplitTagPrefix(lastTag)
	if stripped == "" {
		return nil
	}
	tagged, err := version.Parse(stripped)
	if err != nil {
		// A previous tag that is not a version carries no claim about the
		// current one.
		return nil
	}
	if current.String() != tagged.String() {
		return fmt.Errorf("%w: tag %s, files %s", ErrTagMismatch, lastTag, current)
	}
	return nil
}
