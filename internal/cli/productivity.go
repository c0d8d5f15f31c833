package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/score"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var computeReference bool

// productivityCmd represents the productivity command
var productivityCmd = &cobra.Command{
	Use:   "productivity",
	Short: "Score expanding and potential productivity per window",
	Long: `Productivity slides a window of --width years over every sub-corpus and,
for each non-empty window, computes:

  expanding productivity   hapaxes / reference hapaxes
  potential productivity   hapaxes / tokens
  types per million        types / reference tokens * 1e6

The reference counts come from corpus.reference (see 'morphprod refstats'),
or are computed from the full word list with --compute-reference.
A window whose reference counts are zero aborts the run.

Example:
  morphprod productivity --width 25
  morphprod productivity --compute-reference`,
	Args: cobra.NoArgs,
	RunE: runProductivity,
}

// resampleCmd represents the resample command
var resampleCmd = &cobra.Command{
	Use:   "resample",
	Short: "Estimate types and hapaxes at a fixed sample size",
	Long: `Resample draws --sample-size tokens without replacement from every window,
--runs times, and reports the mean number of types and hapaxes with a
--confidence interval. Windows smaller than the sample size are left out.

Windows are processed concurrently by --workers workers. Each window gets
its own random source derived from --seed, so a fixed seed reproduces the
same table. A seed of 0 derives one from the clock.

Example:
  morphprod resample --sample-size 131 --runs 1000 --seed 42`,
	Args: cobra.NoArgs,
	RunE: runResample,
}

func init() {
	rootCmd.AddCommand(productivityCmd)
	rootCmd.AddCommand(resampleCmd)

	productivityCmd.Flags().BoolVar(&computeReference, "compute-reference", false, "compute reference counts from the full word list instead of reading corpus.reference")

	defaults := model.DefaultConfig().Resample
	resampleCmd.Flags().Int("sample-size", defaults.SampleSize, "tokens drawn per run")
	resampleCmd.Flags().Int("runs", defaults.Runs, "resampling runs per window")
	resampleCmd.Flags().Float64("confidence", defaults.Confidence, "interval confidence level")
	resampleCmd.Flags().Uint64("seed", defaults.Seed, "random seed (0 derives one from the clock)")
	resampleCmd.Flags().Int("workers", defaults.Workers, "number of concurrent workers")

	_ = viper.BindPFlag("resample.sample_size", resampleCmd.Flags().Lookup("sample-size"))
	_ = viper.BindPFlag("resample.runs", resampleCmd.Flags().Lookup("runs"))
	_ = viper.BindPFlag("resample.confidence", resampleCmd.Flags().Lookup("confidence"))
	_ = viper.BindPFlag("resample.seed", resampleCmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("resample.workers", resampleCmd.Flags().Lookup("workers"))
}

func runProductivity(cmd *cobra.Command, args []string) error {
	p, cfg, err := newPipeline()
	if err != nil {
		return err
	}

	var ref *score.Reference
	if computeReference {
		ref, _, err = p.ReferenceStats()
	} else {
		ref, err = p.LoadReference()
	}
	if err != nil {
		return fmt.Errorf("reference: %w", err)
	}

	rows, err := p.LoadCorpus()
	if err != nil {
		return err
	}

	tables, err := p.Productivity(rows, ref)
	if err != nil {
		return err
	}

	for _, tag := range sortedTags(tables) {
		path, err := p.Renderer().WriteProductivity(tag+"_productivity.tsv", tables[tag])
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s (%d windows, width %d)\n", path, len(tables[tag]), cfg.Window.Width)
	}
	return nil
}

func runResample(cmd *cobra.Command, args []string) error {
	p, cfg, err := newPipeline()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rows, err := p.LoadCorpus()
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"sample_size": cfg.Resample.SampleSize,
		"runs":        cfg.Resample.Runs,
		"workers":     cfg.Resample.Workers,
	}).Info("Resampling")

	tables, err := p.Resample(ctx, rows)
	if err != nil {
		return err
	}

	for _, tag := range sortedTags(tables) {
		path, err := p.Renderer().WriteResampled(tag+"_resampled.tsv", tables[tag])
		if err != nil {
			return err
		}
		fmt.Printf("✓ %s (%d windows)\n", path, len(tables[tag]))
	}
	return nil
}

func sortedTags[T any](tables map[string]T) []string {
	tags := make([]string, 0, len(tables))
	for tag := range tables {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
