package gitops

import "strings"

// tagPrefix is the conventional leading marker on release tags, as in v1.2.3.
const tagPrefix = "v"

// SplitTagPrefix strips one leading "v" from a tag and reports whether the
// tag carried it. The remainder may be empty for a degenerate tag like "v".
func SplitTagPrefix(tag string) (rest string, hadPrefix bool) {
	rest = strings.TrimPrefix(tag, tagPrefix)
	return rest, rest != tag
}

// TagName derives the tag for a new release version from the previous tag's
// naming convention: a previous tag with the "v" prefix keeps the prefix, a
// previous bare tag stays bare, and a project with no tags yet defaults to
// the prefixed form.
func TagName(version string, lastTag string, hasLast bool) string {
	if !hasLast {
		return tagPrefix + version
	}
	if strings.HasPrefix(lastTag, tagPrefix) {
		return tagPrefix + version
	}
	return version
}
