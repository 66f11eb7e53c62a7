// Package version defines the semantic version model and the closed set of
// increment strategies used to compute a release's target version.
package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// PrereleaseMarker is the literal pre-release token attached by the
// Prerelease strategy, e.g. 1.2.3 becomes 1.2.3-pre.
const PrereleaseMarker = "pre"

// Strategy names the rule used to compute the next version from the current
// one. The zero value is StrategyAuto.
type Strategy int

const (
	// StrategyAuto behaves as StrategyPatch for a plain version and as
	// StrategyStripPrerelease for a pre-release version, so finishing a
	// pre-release series lands on the same numeric version.
	StrategyAuto Strategy = iota
	StrategyPatch
	StrategyMinor
	StrategyMajor
	StrategyStripPrerelease
	StrategyPrerelease
	// StrategyExact replaces the current version with an operator-supplied
	// one, ignoring the current value entirely.
	StrategyExact
)

// String returns the CLI token for the strategy.
func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyPatch:
		return "patch"
	case StrategyMinor:
		return "minor"
	case StrategyMajor:
		return "major"
	case StrategyStripPrerelease:
		return "strip"
	case StrategyPrerelease:
		return "pre"
	case StrategyExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Increment is one selected increment rule for a run. For StrategyExact it
// carries the target version; for every other strategy Target is nil.
type Increment struct {
	Strategy Strategy
	Target   *semver.Version
}

// ParseIncrement maps a CLI token to an Increment. Tokens are matched
// case-insensitively; anything that is not a named strategy must parse as an
// exact semantic version.
func ParseIncrement(token string) (Increment, error) {
	switch strings.ToLower(token) {
	case "auto":
		return Increment{Strategy: StrategyAuto}, nil
	case "patch":
		return Increment{Strategy: StrategyPatch}, nil
	case "minor":
		return Increment{Strategy: StrategyMinor}, nil
	case "major":
		return Increment{Strategy: StrategyMajor}, nil
	case "strip":
		return Increment{Strategy: StrategyStripPrerelease}, nil
	case "pre":
		return Increment{Strategy: StrategyPrerelease}, nil
	default:
		target, err := Parse(token)
		if err != nil {
			return Increment{}, fmt.Errorf("increment %q is neither a strategy name nor a version: %w", token, err)
		}
		return Increment{Strategy: StrategyExact, Target: target}, nil
	}
}

// Parse parses a strict three-component semantic version, with optional
// pre-release and build metadata and no "v" prefix.
func Parse(text string) (*semver.Version, error) {
	return semver.StrictNewVersion(text)
}

// Apply computes the target version for the current one. The result is always
// a fresh value; current is never modified. Build metadata never survives:
// every strategy rebuilds the version from its numeric components, and the
// locator rejects versions carrying metadata long before Apply runs.
func (inc Increment) Apply(current *semver.Version) (*semver.Version, error) {
	switch inc.Strategy {
	case StrategyAuto:
		if current.Prerelease() == "" {
			return Increment{Strategy: StrategyPatch}.Apply(current)
		}
		return Increment{Strategy: StrategyStripPrerelease}.Apply(current)
	case StrategyPatch:
		return semver.New(current.Major(), current.Minor(), current.Patch()+1, "", ""), nil
	case StrategyMinor:
		return semver.New(current.Major(), current.Minor()+1, 0, "", ""), nil
	case StrategyMajor:
		return semver.New(current.Major()+1, 0, 0, "", ""), nil
	case StrategyStripPrerelease:
		return semver.New(current.Major(), current.Minor(), current.Patch(), "", ""), nil
	case StrategyPrerelease:
		return semver.New(current.Major(), current.Minor(), current.Patch(), PrereleaseMarker, ""), nil
	case StrategyExact:
		if inc.Target == nil {
			return nil, fmt.Errorf("exact increment has no target version")
		}
		return inc.Target, nil
	default:
		return nil, fmt.Errorf("unknown increment strategy %d", inc.Strategy)
	}
}
