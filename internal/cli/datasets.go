package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// datasetsCmd represents the datasets command
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Build dated lemma tables for every sub-corpus",
	Long: `Datasets loads each configured sub-corpus word list, applies corrections
and the exclusion list, resolves document years and writes:

  <tag>.tsv            one row per token (token, pos, lemma, tag, doc, year)
  <tag>_freqdist.tsv   lemma frequencies, most common first
  merged.tsv           all sub-corpora together

Rows whose part of speech is not the noun tag go to <debug_dir>/notNOMs.tsv.

Example:
  morphprod datasets
  morphprod datasets --out build/datasets`,
	Args: cobra.NoArgs,
	RunE: runDatasets,
}

// refstatsCmd represents the refstats command
var refstatsCmd = &cobra.Command{
	Use:   "refstats",
	Short: "Compute whole-corpus reference counts per year",
	Long: `Refstats reads the full corpus word list, resolves document years and
writes the per-year token, type and hapax counts to corpus.reference.
Productivity reads that file back as its denominator.

Example:
  morphprod refstats
  MORPHPROD_CORPUS_FULL_WORDLIST=colonia_full.lst morphprod refstats`,
	Args: cobra.NoArgs,
	RunE: runRefstats,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
	rootCmd.AddCommand(refstatsCmd)
}

func runDatasets(cmd *cobra.Command, args []string) error {
	p, _, err := newPipeline()
	if err != nil {
		return err
	}

	rows, err := p.LoadCorpus()
	if err != nil {
		return err
	}

	res, err := p.Datasets(rows)
	if err != nil {
		return err
	}

	for _, f := range res.Files {
		fmt.Printf("✓ %s\n", f)
	}
	return nil
}

func runRefstats(cmd *cobra.Command, args []string) error {
	p, cfg, err := newPipeline()
	if err != nil {
		return err
	}
	if cfg.Corpus.FullWordlist == "" {
		return fmt.Errorf("corpus.full_wordlist is not set")
	}

	ref, path, err := p.ReferenceStats()
	if err != nil {
		return err
	}

	years := ref.Years()
	if len(years) > 0 {
		fmt.Printf("✓ %s (%d years, %d-%d)\n", path, len(years), years[0], years[len(years)-1])
	} else {
		fmt.Printf("✓ %s (no dated rows)\n", path)
	}
	return nil
}
