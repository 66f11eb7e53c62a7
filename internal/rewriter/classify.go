package rewriter

import "path/filepath"

// Classification decides how a file participates in version substitution.
type Classification int

const (
	// Loose files qualify on any whole-word occurrence of the version string.
	Loose Classification = iota
	// Precise files must match the `version = "X"` assignment shape. Used for
	// the manifest, where bare numbers abound and a loose match would be
	// reckless.
	Precise
	// Skip files are never scanned. The lock file is machine-generated and
	// regenerated by the build check instead.
	Skip
)

// String returns a short label for listings.
func (c Classification) String() string {
	switch c {
	case Precise:
		return "precise"
	case Loose:
		return "loose"
	case Skip:
		return "skip"
	default:
		return "unknown"
	}
}

const (
	manifestFile = "Cargo.toml"
	lockFile     = "Cargo.lock"
)

// Classify maps a file path to its classification. The decision is a pure
// function of the base file name.
func Classify(path string) Classification {
	switch filepath.Base(path) {
	case manifestFile:
		return Precise
	case lockFile:
		return Skip
	default:
		return Loose
	}
}
