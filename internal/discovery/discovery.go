// Package discovery finds per-repository issue samples under a snapshot
// base directory.
package discovery

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// DefaultPattern matches the unbalanced sample of every repository.
const DefaultPattern = "*/sample/issues.sample.jsonl"

// Options controls how sample discovery behaves.
type Options struct {
	// Patterns is the list of glob patterns, relative to BaseDir, that
	// identify sample files. The first path segment of a match is the
	// repository slug. Defaults to DefaultPattern.
	Patterns []string

	// BaseDir is the directory to walk from. Defaults to "." if empty.
	BaseDir string

	// Match filters slugs with a glob such as "microsoft__*". Empty
	// matches every slug.
	Match string
}

// Sample is one discovered sample file.
type Sample struct {
	Slug string
	Path string
}

// Discover walks BaseDir and returns sample files matching any of the
// configured patterns, deduplicated and sorted by slug then path.
func Discover(opts Options) ([]Sample, error) {
	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{DefaultPattern}
	}
	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir = "."
	}

	matcher, err := CompileMatch(opts.Match)
	if err != nil {
		return nil, err
	}

	validPatterns := validatePatterns(patterns)
	if len(validPatterns) == 0 {
		return nil, nil
	}

	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}

	w := &walker{
		absBase:  absBase,
		patterns: validPatterns,
		match:    matcher,
		seen:     make(map[string]bool),
	}
	if err := filepath.WalkDir(absBase, w.visit); err != nil {
		return nil, err
	}

	sort.Slice(w.result, func(i, j int) bool {
		if w.result[i].Slug != w.result[j].Slug {
			return w.result[i].Slug < w.result[j].Slug
		}
		return w.result[i].Path < w.result[j].Path
	})
	return w.result, nil
}

// CompileMatch compiles a slug filter. An empty pattern matches everything.
func CompileMatch(pattern string) (glob.Glob, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = "*"
	}
	return glob.Compile(pattern)
}

// validatePatterns returns patterns that are syntactically valid.
func validatePatterns(patterns []string) []string {
	valid := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if doublestar.ValidatePattern(p) {
			valid = append(valid, p)
		}
	}
	return valid
}

// walker holds state for the directory walk.
type walker struct {
	absBase  string
	patterns []string
	match    glob.Glob
	seen     map[string]bool
	result   []Sample
}

// visit is the fs.WalkDirFunc callback.
func (w *walker) visit(path string, d fs.DirEntry, walkErr error) error {
	if walkErr != nil {
		return walkErr
	}

	rel, err := filepath.Rel(w.absBase, path)
	if err != nil || rel == "." {
		return nil
	}
	rel = filepath.ToSlash(rel)

	if d.IsDir() {
		// Slug directories that fail the filter are never descended.
		if !strings.Contains(rel, "/") && !w.match.Match(rel) {
			return filepath.SkipDir
		}
		return nil
	}

	if w.matchesAny(rel) {
		w.add(rel, path)
	}
	return nil
}

// matchesAny returns true if rel matches any of the configured patterns.
func (w *walker) matchesAny(rel string) bool {
	for _, p := range w.patterns {
		matched, err := doublestar.Match(p, rel)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *walker) add(rel string, path string) {
	slug, _, ok := strings.Cut(rel, "/")
	if !ok || !w.match.Match(slug) || w.seen[path] {
		return
	}
	w.seen[path] = true
	w.result = append(w.result, Sample{Slug: slug, Path: path})
}
