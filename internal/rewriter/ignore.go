package rewriter

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreRule is one compiled .gitignore, scoped to the directory it lives in
// (relative to the project root, "" for the root itself).
type ignoreRule struct {
	dir     string
	matcher *ignore.GitIgnore
}

// ignoreSet accumulates .gitignore files as the walk descends, so ignored
// and generated trees are never scanned. Rules are appended in walk order:
// parents before children.
type ignoreSet struct {
	rules []ignoreRule
}

// loadDir compiles the .gitignore found in dir, if any. dir is relative to
// the project root with forward slashes.
func (s *ignoreSet) loadDir(root, dir string) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(dir), ".gitignore"))
	if err != nil {
		return
	}
	lines := strings.Split(string(data), "\n")
	s.rules = append(s.rules, ignoreRule{
		dir:     dir,
		matcher: ignore.CompileIgnoreLines(lines...),
	})
}

// ignored reports whether the slash-relative path is excluded by any rule
// whose directory contains it. isDir appends a trailing slash so directory
// patterns like `target/` apply.
func (s *ignoreSet) ignored(rel string, isDir bool) bool {
	for _, rule := range s.rules {
		scoped := rel
		if rule.dir != "" {
			var ok bool
			scoped, ok = strings.CutPrefix(rel, rule.dir+"/")
			if !ok {
				continue
			}
		}
		if isDir {
			scoped += "/"
		}
		if rule.matcher.MatchesPath(scoped) {
			return true
		}
	}
	return false
}
