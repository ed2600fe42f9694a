package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mht-ashkezari/gh-triage-mvp/internal/config"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/log"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/manifest"
	"go.uber.org/zap"
)

// RunResult is the outcome of a balancing run.
type RunResult struct {
	Paths  config.Paths
	Target manifest.TargetResolution
	Stats  Stats
}

// Run balances the sample of one repository: it reads the sample, resolves
// the per-class target from the manifest, writes the balanced sample and
// its stats. Nothing is written unless every step before it succeeded.
func Run(cfg config.Config, slug string, logger *log.Logger) (RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return RunResult{}, err
	}
	paths := cfg.PathsFor(slug)

	if _, err := os.Stat(paths.Input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return RunResult{}, fmt.Errorf("%w: %s", ErrMissingInput, paths.Input)
		}
		return RunResult{}, fmt.Errorf("stat sample: %w", err)
	}

	doc, err := manifest.Load(cfg.ManifestPath)
	if err != nil {
		return RunResult{}, err
	}
	entry, err := doc.Find(slug)
	if err != nil {
		return RunResult{}, err
	}
	target := manifest.ResolveTarget(entry, doc, cfg.DefaultTarget)
	for _, ignored := range target.Ignored {
		logger.Warn("ignoring unusable target",
			zap.String("source", ignored.Source),
			zap.String("field", ignored.Field),
			zap.Any("value", ignored.Value))
	}
	logger.Debug("resolved target",
		zap.String("repo", slug),
		zap.Int("target", target.Value),
		zap.String("source", target.Source),
		zap.String("field", target.Field))

	buckets, read, err := BuildBuckets(ReadRecords(paths.Input))
	if err != nil {
		return RunResult{}, err
	}
	logger.Debug("bucketed sample",
		zap.String("input", paths.Input),
		zap.Int("records", read),
		zap.Int("labels", buckets.Len()))

	sel := Balance(buckets, target.Value)
	if err := WriteSelection(paths.Output, sel.Records); err != nil {
		return RunResult{}, err
	}

	stats := ComputeStats(StatsInput{
		Repo:         manifest.DisplayName(slug),
		Target:       target.Value,
		Buckets:      buckets,
		RecordsRead:  read,
		InputSample:  cfg.Rel(paths.Input),
		OutputSample: cfg.Rel(paths.Output),
	}, sel)
	if err := WriteJSON(paths.Stats, stats); err != nil {
		return RunResult{}, err
	}
	logger.Printf("stats: %s", paths.Stats)

	return RunResult{Paths: paths, Target: target, Stats: stats}, nil
}

// Summary is the one-line report printed after a successful run.
func (r RunResult) Summary() string {
	return fmt.Sprintf("[ok] balanced sample → %s (rows=%d, labels=%d, n_per=%d)",
		r.Paths.Output, r.Stats.SampleSize, r.Stats.LabelsAvailable, r.Stats.TargetLabelMin)
}
