// Package rewriter finds every file in the project tree that references the
// current version string and rewrites those references to the target version.
//
// Planning and application are two distinct passes: Plan is read-only and
// fully materializes the list of affected files, Apply performs the writes
// only after the operator has seen and approved that list. A crash during
// Apply leaves each individual file either fully original or fully updated,
// but gives no atomicity across files; the remaining files stay untouched
// and the operator resolves the partial state manually.
package rewriter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"unicode/utf8"
)

// Service scans and rewrites a project tree. The scan runs on a worker pool;
// writes are sequential.
type Service struct {
	sub     *Substitution
	workers int
}

// scanTask is one candidate file for the worker pool.
type scanTask struct {
	absolutePath string
	displayPath  string
	class        Classification
}

// NewService creates a rewriter service over the given substitution.
func NewService(sub *Substitution, workers int) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		sub:     sub,
		workers: workers,
	}
}

// Plan walks the tree under root and returns the sorted, slash-separated
// relative paths of every file that references the current version. The walk
// honors .gitignore rules (root and nested) and never descends into .git.
// Binary and non-UTF-8 files are not version references and are skipped, as
// are files that cannot be read. No file is modified.
func (s *Service) Plan(root string) ([]string, error) {
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	tasks := make(chan scanTask, s.workers*4)
	matched := make(chan string, s.workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(tasks, matched)
		}()
	}

	go func() {
		defer close(tasks)
		walkErrChan <- s.enqueueTasks(absoluteRoot, tasks)
	}()

	go func() {
		workerGroup.Wait()
		close(matched)
	}()

	files := make([]string, 0)
	for path := range matched {
		files = append(files, path)
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return nil, walkErr
	}

	sort.Strings(files)
	return files, nil
}

// enqueueTasks walks the tree and pushes every scannable file to the pool.
func (s *Service) enqueueTasks(root string, tasks chan<- scanTask) error {
	ignores := &ignoreSet{}
	ignores.loadDir(root, "")

	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if entry.Name() == ".git" || ignores.ignored(rel, true) {
				return filepath.SkipDir
			}
			ignores.loadDir(root, rel)
			return nil
		}
		if !entry.Type().IsRegular() || ignores.ignored(rel, false) {
			return nil
		}

		class := Classify(path)
		if class == Skip {
			return nil
		}

		tasks <- scanTask{
			absolutePath: path,
			displayPath:  rel,
			class:        class,
		}
		return nil
	})
}

// runWorker reads candidate files and reports the ones whose contents match.
func (s *Service) runWorker(tasks <-chan scanTask, matched chan<- string) {
	for task := range tasks {
		contents, err := os.ReadFile(task.absolutePath)
		if err != nil {
			continue
		}
		if !isText(contents) {
			continue
		}
		if s.sub.Matches(task.class, contents) {
			matched <- task.displayPath
		}
	}
}

// Apply rewrites every planned file under root, replacing all version
// references in one pass per file and writing the whole file back with its
// original mode. The first read or write failure aborts the sweep; files
// already written are not reverted.
func (s *Service) Apply(root string, files []string) error {
	for _, rel := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", rel, err)
		}
		contents, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}

		replaced := s.sub.Replace(Classify(path), contents)
		if err := os.WriteFile(path, replaced, info.Mode().Perm()); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
	}
	return nil
}

// isText reports whether contents look like a UTF-8 text file. Files with
// NUL bytes or invalid UTF-8 cannot hold a version reference worth editing.
func isText(contents []byte) bool {
	for _, b := range contents {
		if b == 0 {
			return false
		}
	}
	return utf8.Valid(contents)
}
