package corpus

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mht-ashkezari/gh-triage-mvp/internal/config"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/log"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/manifest"
	"github.com/stretchr/testify/require"
)

func newRunConfig(t *testing.T, manifestYAML string) config.Config {
	t.Helper()
	root := t.TempDir()
	base := filepath.Join(root, "datasets", "snapshots")
	manifestPath := filepath.Join(base, "manifest.yaml")
	writeCorpusFile(t, manifestPath, manifestYAML)
	return config.Config{
		BaseDir:       base,
		ManifestPath:  manifestPath,
		Root:          root,
		DefaultTarget: config.DefaultTarget,
	}
}

func writeSample(t *testing.T, cfg config.Config, slug string, lines ...string) config.Paths {
	t.Helper()
	paths := cfg.PathsFor(slug)
	writeCorpusFile(t, paths.Input, strings.Join(lines, "\n"))
	return paths
}

func TestRun_HappyPath(t *testing.T) {
	t.Parallel()

	cfg := newRunConfig(t, `
target_label_min: 5
repos:
  - repo: {owner: acme, name: widgets}
    target_label_min: 2
`)
	paths := writeSample(t, cfg, "acme__widgets",
		`{"id":1,"labels":[{"name":"bug"}]}`,
		`{"id":2,"labels":[{"name":"bug"}]}{"id":3,"labels":["bug"]}`,
		`{"id":4,"labels":[{"name":"feat"}]}`,
		``,
	)

	result, err := Run(cfg, "acme__widgets", log.Nop())
	require.NoError(t, err)
	require.Equal(t, 2, result.Target.Value)
	require.Equal(t, manifest.SourceRepo, result.Target.Source)

	got, err := ReadSelection(paths.Output)
	require.NoError(t, err)
	require.Equal(t, []string{"4", "1", "2"}, ids(got))

	stats, err := ReadStats(paths.Stats)
	require.NoError(t, err)
	require.Equal(t, Stats{
		Repo:             "acme/widgets",
		TargetLabelMin:   2,
		LabelsAvailable:  2,
		PerLabelCounts:   map[ClassName]int{"bug": 2, "feat": 1},
		PerLabelSelected: map[ClassName]int{"bug": 2, "feat": 1},
		ShortLabels:      []ClassName{"feat"},
		RecordsRead:      4,
		SampleSize:       3,
		InputSample:      "datasets/snapshots/acme__widgets/sample/issues.sample.jsonl",
		OutputSample:     "datasets/snapshots/acme__widgets/sample/issues.sample.balanced.jsonl",
	}, stats)
	require.Equal(t, stats, result.Stats)
	require.Equal(t,
		"[ok] balanced sample → "+paths.Output+" (rows=3, labels=2, n_per=2)",
		result.Summary())
}

func TestRun_MissingInput(t *testing.T) {
	t.Parallel()

	cfg := newRunConfig(t, "repos:\n  - {owner: acme, name: widgets}\n")
	_, err := Run(cfg, "acme__widgets", nil)
	require.ErrorIs(t, err, ErrMissingInput)
	require.Contains(t, err.Error(), cfg.PathsFor("acme__widgets").Input)
}

func TestRun_UnknownRepository(t *testing.T) {
	t.Parallel()

	cfg := newRunConfig(t, "repos:\n  - {owner: acme, name: widgets}\n  - {slug: golang/go}\n")
	paths := writeSample(t, cfg, "nobody__nothing", `{"id":1}`)

	_, err := Run(cfg, "nobody__nothing", nil)
	var unknown *manifest.UnknownRepositoryError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, []string{"acme__widgets", "golang__go"}, unknown.Available)
	require.NoFileExists(t, paths.Output)
	require.NoFileExists(t, paths.Stats)
}

func TestRun_MalformedRecordLeavesNoOutput(t *testing.T) {
	t.Parallel()

	cfg := newRunConfig(t, "repos:\n  - {owner: acme, name: widgets}\n")
	paths := writeSample(t, cfg, "acme__widgets",
		`{"id":1,"labels":["bug"]}`,
		`{"id":2,"labels":["bug"]`,
	)

	_, err := Run(cfg, "acme__widgets", nil)
	var malformed *MalformedRecordError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, 2, malformed.Line)
	require.NoFileExists(t, paths.Output)
	require.NoFileExists(t, paths.Stats)
}

func TestRun_MalformedRecordKeepsPreviousOutput(t *testing.T) {
	t.Parallel()

	cfg := newRunConfig(t, "repos:\n  - {owner: acme, name: widgets}\n")
	paths := writeSample(t, cfg, "acme__widgets", `{"id":1}`, `not json`)
	writeCorpusFile(t, paths.Output, `{"id":99}`)

	_, err := Run(cfg, "acme__widgets", nil)
	require.Error(t, err)
	content, err := os.ReadFile(paths.Output)
	require.NoError(t, err)
	require.Equal(t, "{\"id\":99}\n", string(content))
}

func TestRun_BadTargetUsesDefaultAndWarns(t *testing.T) {
	t.Parallel()

	cfg := newRunConfig(t, `
target_label_min: 30
repos:
  - owner: acme
    name: widgets
    target_label_min: plenty
`)
	writeSample(t, cfg, "acme__widgets", `{"id":1,"labels":["bug"]}`)

	var logs bytes.Buffer
	result, err := Run(cfg, "acme__widgets", log.New(&logs, false))
	require.NoError(t, err)
	require.Equal(t, config.DefaultTarget, result.Target.Value)
	require.Equal(t, manifest.SourceDefault, result.Target.Source)
	require.Contains(t, logs.String(), "ignoring unusable target")
	require.Contains(t, logs.String(), "plenty")
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := Run(config.Config{}, "acme__widgets", nil)
	require.Error(t, err)
}

func writeCorpusFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
