package discovery

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		t.Fatalf("creating directory %s: %v", parent, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func slugs(samples []Sample) []string {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		out = append(out, s.Slug)
	}
	return out
}

func TestDiscover_FindsSamples(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "microsoft__vscode/sample/issues.sample.jsonl", "{}\n")
	writeFile(t, dir, "acme__widgets/sample/issues.sample.jsonl", "{}\n")
	writeFile(t, dir, "acme__widgets/sample/issues.sample.balanced.jsonl", "{}\n")
	writeFile(t, dir, "acme__gadgets/meta/stats.json", "{}\n")

	samples, err := Discover(Options{BaseDir: dir})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}

	got := slugs(samples)
	if len(got) != 2 || got[0] != "acme__widgets" || got[1] != "microsoft__vscode" {
		t.Fatalf("slugs = %v, want [acme__widgets microsoft__vscode]", got)
	}
	want := filepath.Join(dir, "acme__widgets", "sample", "issues.sample.jsonl")
	if samples[0].Path != want {
		t.Errorf("path = %q, want %q", samples[0].Path, want)
	}
}

func TestDiscover_MatchFiltersSlugs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "microsoft__vscode/sample/issues.sample.jsonl", "{}\n")
	writeFile(t, dir, "microsoft__typescript/sample/issues.sample.jsonl", "{}\n")
	writeFile(t, dir, "acme__widgets/sample/issues.sample.jsonl", "{}\n")

	samples, err := Discover(Options{BaseDir: dir, Match: "microsoft__*"})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	got := slugs(samples)
	if len(got) != 2 || got[0] != "microsoft__typescript" || got[1] != "microsoft__vscode" {
		t.Fatalf("slugs = %v", got)
	}
}

func TestDiscover_InvalidPatternsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme__widgets/sample/issues.sample.jsonl", "{}\n")

	samples, err := Discover(Options{BaseDir: dir, Patterns: []string{"[unclosed"}})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(samples) != 0 {
		t.Fatalf("expected no samples, got %v", samples)
	}
}

func TestDiscover_CustomPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme__widgets/sample/issues.sample.balanced.jsonl", "{}\n")

	samples, err := Discover(Options{
		BaseDir:  dir,
		Patterns: []string{"*/sample/*.balanced.jsonl"},
	})
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(samples) != 1 || samples[0].Slug != "acme__widgets" {
		t.Fatalf("samples = %v", samples)
	}
}

func TestDiscover_MissingBase(t *testing.T) {
	_, err := Discover(Options{BaseDir: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Fatal("expected error for missing base directory")
	}
}

func TestCompileMatch_Invalid(t *testing.T) {
	if _, err := CompileMatch("[a-"); err == nil {
		t.Fatal("expected compile error")
	}
}
