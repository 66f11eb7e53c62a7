package rewriter

import (
	"fmt"
	"regexp"
)

// Substitution holds the two match patterns precompiled from the current
// version string, plus the target to substitute. The version is operator
// data, not a pattern fragment, so its regex metacharacters are escaped
// before compilation.
type Substitution struct {
	target  string
	precise *regexp.Regexp
	loose   *regexp.Regexp
}

// NewSubstitution compiles the precise and loose patterns for the current
// version string.
func NewSubstitution(current, target string) (*Substitution, error) {
	escaped := regexp.QuoteMeta(current)

	precise, err := regexp.Compile(`((?i:version) *= *)"(` + escaped + `)"`)
	if err != nil {
		return nil, fmt.Errorf("compile precise pattern: %w", err)
	}
	loose, err := regexp.Compile(`\b(` + escaped + `)\b`)
	if err != nil {
		return nil, fmt.Errorf("compile loose pattern: %w", err)
	}

	return &Substitution{
		target:  target,
		precise: precise,
		loose:   loose,
	}, nil
}

// Target returns the replacement version string.
func (s *Substitution) Target() string {
	return s.target
}

// Matches reports whether contents reference the current version under the
// given classification. Skip files never match.
func (s *Substitution) Matches(class Classification, contents []byte) bool {
	switch class {
	case Precise:
		return s.precise.Match(contents)
	case Loose:
		return s.loose.Match(contents)
	default:
		return false
	}
}

// Replace rewrites every reference in contents to the target version,
// touching only the captured version substring within each match. For
// precise matches the key and quoting are preserved byte for byte.
func (s *Substitution) Replace(class Classification, contents []byte) []byte {
	switch class {
	case Precise:
		return s.precise.ReplaceAll(contents, []byte(`${1}"`+s.target+`"`))
	case Loose:
		return s.loose.ReplaceAll(contents, []byte(s.target))
	default:
		return contents
	}
}
