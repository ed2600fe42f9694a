package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mht-ashkezari/gh-triage-mvp/internal/config"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/corpus"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/discovery"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/log"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/manifest"
	"github.com/mht-ashkezari/gh-triage-mvp/internal/output"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "corpusctl: %v\n", err)
		os.Exit(2)
	}
}

func run(args []string, stdout io.Writer, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.Execute()
}

type app struct {
	stdout  io.Writer
	stderr  io.Writer
	verbose bool
	logger  *log.Logger
}

func newRootCmd(stdout io.Writer, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "corpusctl",
		Short:         "Build label-balanced issue samples from snapshot datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = log.New(a.stderr, a.verbose)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return usageError()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "write debug diagnostics to stderr")

	defaults := config.Defaults()
	root.AddCommand(
		a.balanceCmd(defaults),
		a.checkManifestCmd(defaults),
		a.reposCmd(defaults),
		a.driftCmd(),
		a.splitCmd(),
	)
	return root
}

func (a *app) balanceCmd(defaults config.Config) *cobra.Command {
	cfg := defaults
	var repo string
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Write a label-balanced sample and its stats for one repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if repo == "" {
				return errors.New("balance requires --repo")
			}
			result, err := corpus.Run(cfg, repo, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, result.Summary())
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&repo, "repo", "", "repository slug, owner__name (e.g. microsoft__vscode)")
	flags.StringVar(&cfg.ManifestPath, "manifest", defaults.ManifestPath, "path to the snapshot manifest yaml")
	flags.StringVar(&cfg.BaseDir, "base", defaults.BaseDir, "snapshot base directory holding <slug>/sample")
	flags.StringVar(&cfg.Root, "root", defaults.Root, "directory stats paths are reported relative to")
	flags.IntVar(&cfg.DefaultTarget, "default-target", defaults.DefaultTarget, "per-class target when the manifest sets none")
	return cmd
}

func (a *app) checkManifestCmd(defaults config.Config) *cobra.Command {
	manifestPath := defaults.ManifestPath
	cmd := &cobra.Command{
		Use:   "check-manifest",
		Short: "Validate the snapshot manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			if err := manifest.Check(doc); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "manifest OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&manifestPath, "manifest", defaults.ManifestPath, "path to the snapshot manifest yaml")
	return cmd
}

func (a *app) reposCmd(defaults config.Config) *cobra.Command {
	manifestPath := defaults.ManifestPath
	baseDir := defaults.BaseDir
	var match, format string
	var color bool
	cmd := &cobra.Command{
		Use:   "repos",
		Short: "List manifest repositories and whether a sample exists for each",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := output.New(format, color)
			if err != nil {
				return err
			}
			doc, err := manifest.Load(manifestPath)
			if err != nil {
				return err
			}
			listing, err := listRepos(doc, baseDir, match)
			if err != nil {
				return err
			}
			if err := formatter.Format(a.stdout, listing); err != nil {
				return err
			}
			a.logger.Printf("repos: %d listed from %s", len(listing), manifestPath)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&manifestPath, "manifest", defaults.ManifestPath, "path to the snapshot manifest yaml")
	flags.StringVar(&baseDir, "base", defaults.BaseDir, "snapshot base directory holding <slug>/sample")
	flags.StringVar(&match, "match", "", "glob filter on slugs (e.g. microsoft__*)")
	flags.StringVarP(&format, "format", "f", "text", "output format: text or json")
	flags.BoolVar(&color, "color", false, "colorize text output")
	return cmd
}

// Repository sample states reported by the repos command.
const (
	statusSample   = "sample"
	statusMissing  = "missing"
	statusUnlisted = "unlisted"
)

// listRepos joins manifest slugs with samples found under baseDir. Samples
// whose slug is not in the manifest are reported as unlisted.
func listRepos(doc *manifest.Document, baseDir string, match string) ([]output.RepoStatus, error) {
	matcher, err := discovery.CompileMatch(match)
	if err != nil {
		return nil, fmt.Errorf("compile --match: %w", err)
	}
	samples, err := discovery.Discover(discovery.Options{BaseDir: baseDir, Match: match})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("discover samples: %w", err)
	}
	found := make(map[string]bool, len(samples))
	for _, s := range samples {
		found[s.Slug] = true
	}

	var rows []output.RepoStatus
	listed := make(map[string]bool)
	for _, slug := range doc.Slugs() {
		if listed[slug] || !matcher.Match(slug) {
			continue
		}
		listed[slug] = true
		status := statusMissing
		if found[slug] {
			status = statusSample
		}
		rows = append(rows, output.RepoStatus{Slug: slug, Status: status})
	}
	for _, s := range samples {
		if !listed[s.Slug] {
			listed[s.Slug] = true
			rows = append(rows, output.RepoStatus{Slug: s.Slug, Status: statusUnlisted})
		}
	}
	return rows, nil
}

func (a *app) driftCmd() *cobra.Command {
	var baselinePath, candidatePath, outPath string
	cmd := &cobra.Command{
		Use:   "drift",
		Short: "Compare label counts of two stats reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if baselinePath == "" || candidatePath == "" {
				return errors.New("drift requires --baseline and --candidate")
			}
			baseline, err := corpus.ReadStats(baselinePath)
			if err != nil {
				return err
			}
			candidate, err := corpus.ReadStats(candidatePath)
			if err != nil {
				return err
			}
			drift := corpus.CompareStats(baseline, candidate)
			if outPath == "" {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(drift)
			}
			if err := corpus.WriteJSON(outPath, drift); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "drift report: %s\n", outPath)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&baselinePath, "baseline", "", "path to baseline stats.json")
	flags.StringVar(&candidatePath, "candidate", "", "path to candidate stats.json")
	flags.StringVar(&outPath, "out", "", "path to write drift report json (stdout when empty)")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	var inPath, trainPath, testPath string
	var fraction float64
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a balanced sample into train and test files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if inPath == "" || trainPath == "" || testPath == "" {
				return errors.New("split requires --in, --train, and --test")
			}
			records, err := corpus.ReadSelection(inPath)
			if err != nil {
				return err
			}
			train, test := corpus.Split(records, fraction)
			if err := corpus.WriteSelection(trainPath, train); err != nil {
				return err
			}
			if err := corpus.WriteSelection(testPath, test); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "train: %s (%d)\n", trainPath, len(train))
			fmt.Fprintf(a.stdout, "test:  %s (%d)\n", testPath, len(test))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&inPath, "in", "", "balanced sample jsonl")
	flags.StringVar(&trainPath, "train", "", "output path for the train split")
	flags.StringVar(&testPath, "test", "", "output path for the test split")
	flags.Float64Var(&fraction, "test-fraction", 0.2, "share of records assigned to test")
	return cmd
}

func usageError() error {
	return errors.New("usage: corpusctl <balance|check-manifest|repos|drift|split> [flags]")
}
