// Package manifest reads the snapshot manifest that lists repositories and
// their sampling knobs.
package manifest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one item of the manifest's repos list. Entries come in several
// historical shapes, so they are kept as generic mappings.
type Entry map[string]any

// Document is a decoded manifest.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string
	// Fields holds the top-level mapping, including project-wide knobs.
	Fields map[string]any
	// Repos holds the repos list. Items that are not mappings are nil.
	Repos []Entry
}

// UnknownRepositoryError reports a slug with no matching manifest entry.
type UnknownRepositoryError struct {
	Slug      string
	Path      string
	Available []string
}

func (e *UnknownRepositoryError) Error() string {
	available := "(none)"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	where := "manifest"
	if e.Path != "" {
		where = "manifest " + e.Path
	}
	return fmt.Sprintf("repo %q not found in %s; available slugs: %s", e.Slug, where, available)
}

// Load reads and parses a manifest file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes manifest YAML. An empty document is an empty manifest.
func Parse(data []byte) (*Document, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}

	doc := &Document{Fields: fields}
	if list, ok := fields["repos"].([]any); ok {
		doc.Repos = make([]Entry, 0, len(list))
		for _, item := range list {
			m, _ := item.(map[string]any)
			doc.Repos = append(doc.Repos, Entry(m))
		}
	}
	return doc, nil
}

// Find returns the first entry whose slug equals slug.
func (d *Document) Find(slug string) (Entry, error) {
	for _, entry := range d.Repos {
		if s, ok := Slug(entry); ok && s == slug {
			return entry, nil
		}
	}
	return nil, &UnknownRepositoryError{Slug: slug, Path: d.Path, Available: d.Slugs()}
}

// Slugs returns every resolvable slug in manifest order.
func (d *Document) Slugs() []string {
	slugs := make([]string, 0, len(d.Repos))
	for _, entry := range d.Repos {
		if s, ok := Slug(entry); ok {
			slugs = append(slugs, s)
		}
	}
	return slugs
}

// Duplicates returns slugs claimed by more than one entry, sorted.
func (d *Document) Duplicates() []string {
	counts := make(map[string]int)
	for _, s := range d.Slugs() {
		counts[s]++
	}
	var dups []string
	for s, n := range counts {
		if n > 1 {
			dups = append(dups, s)
		}
	}
	sort.Strings(dups)
	return dups
}
