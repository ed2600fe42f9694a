package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables consulted by Defaults.
const (
	EnvBase     = "SAMPLER_BASE"
	EnvManifest = "SAMPLER_MANIFEST"
	EnvRoot     = "SAMPLER_ROOT"
)

const (
	defaultBase = "datasets/snapshots"
	// DefaultTarget is the per-class target used when neither the
	// repository entry nor the manifest document configures one.
	DefaultTarget = 20
)

// Config is the run configuration passed into the sampling pipeline.
type Config struct {
	// BaseDir holds one directory per repository slug.
	BaseDir string
	// ManifestPath is the YAML manifest listing repositories.
	ManifestPath string
	// Root is the directory report paths are made relative to.
	Root string
	// DefaultTarget is the hard fallback for the per-class target.
	DefaultTarget int
}

// Paths are the per-repository files the pipeline reads and writes.
type Paths struct {
	Input  string
	Output string
	Stats  string
}

// Defaults returns a Config populated from the environment. A .env file in
// the working directory is loaded first when present; variables already set
// in the process environment win over it.
func Defaults() Config {
	_ = godotenv.Load()

	base := firstNonEmpty(os.Getenv(EnvBase), defaultBase)
	return Config{
		BaseDir:       base,
		ManifestPath:  firstNonEmpty(os.Getenv(EnvManifest), filepath.Join(base, "manifest.yaml")),
		Root:          firstNonEmpty(os.Getenv(EnvRoot), "."),
		DefaultTarget: DefaultTarget,
	}
}

// Validate reports configuration that cannot produce a run.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseDir) == "" {
		return fmt.Errorf("base directory is required")
	}
	if strings.TrimSpace(c.ManifestPath) == "" {
		return fmt.Errorf("manifest path is required")
	}
	if c.DefaultTarget < 1 {
		return fmt.Errorf("default target must be >= 1, got %d", c.DefaultTarget)
	}
	return nil
}

// PathsFor returns the sample, balanced output, and stats paths for slug.
func (c Config) PathsFor(slug string) Paths {
	dir := filepath.Join(c.BaseDir, slug)
	return Paths{
		Input:  filepath.Join(dir, "sample", "issues.sample.jsonl"),
		Output: filepath.Join(dir, "sample", "issues.sample.balanced.jsonl"),
		Stats:  filepath.Join(dir, "meta", "stats.json"),
	}
}

// Rel returns path relative to Root, or path unchanged when it cannot be
// expressed that way.
func (c Config) Rel(path string) string {
	root := c.Root
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return path
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return path
	}
	return filepath.ToSlash(rel)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
