package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/morphprod/internal/corpus"
	"github.com/ppiankov/morphprod/internal/freqdist"
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/score"
	"github.com/ppiankov/morphprod/internal/window"
	"github.com/ppiankov/morphprod/internal/worker"
	"github.com/sirupsen/logrus"
)

// Pipeline wires loading, dating, windowing and scoring together
type Pipeline struct {
	config     *model.Config
	log        logrus.FieldLogger
	loader     *corpus.Loader
	refLoader  *corpus.Loader
	exclusions corpus.Exclusions
	datations  *corpus.Datations
	renderer   *Renderer
}

// NewPipeline creates a pipeline. Exclusions and corrections are read
// here so a bad path fails before any heavy work starts.
func NewPipeline(cfg *model.Config, log logrus.FieldLogger) (*Pipeline, error) {
	var opts []corpus.LoaderOption
	if cfg.Corpus.UnknownLemma != "" {
		opts = append(opts, corpus.WithUnknownLemma(cfg.Corpus.UnknownLemma))
	}
	if cfg.Corpus.Corrections != "" {
		c, err := corpus.LoadCorrections(cfg.Corpus.Corrections, log)
		if err != nil {
			return nil, err
		}
		log.WithField("rules", c.Len()).Info("Loaded corrections")
		opts = append(opts, corpus.WithCorrections(c))
	}

	refOpts := opts
	if cfg.Corpus.ReferenceTokenPattern != "" {
		re, err := regexp.Compile(cfg.Corpus.ReferenceTokenPattern)
		if err != nil {
			return nil, fmt.Errorf("compile reference token pattern: %w", err)
		}
		refOpts = append(append([]corpus.LoaderOption{}, opts...), corpus.WithTokenFilter(re))
	}

	var exclusions corpus.Exclusions
	if cfg.Corpus.Exclusions != "" {
		var err error
		exclusions, err = corpus.LoadExclusions(cfg.Corpus.Exclusions)
		if err != nil {
			return nil, err
		}
		log.WithField("forms", len(exclusions)).Debug("Loaded exclusions")
	}

	return &Pipeline{
		config:     cfg,
		log:        log,
		loader:     corpus.NewLoader(log, opts...),
		refLoader:  corpus.NewLoader(log, refOpts...),
		exclusions: exclusions,
		datations:  corpus.NewDatations(cfg.Datations),
		renderer:   NewRenderer(cfg.Output.Dir),
	}, nil
}

// Renderer returns the output renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// LoadSubcorpus loads, filters and dates one sub-corpus
func (p *Pipeline) LoadSubcorpus(sc model.Subcorpus) ([]model.DatedRow, error) {
	rows, err := p.loader.Load(sc.Path, sc.Tag)
	if err != nil {
		return nil, err
	}
	before := len(rows)
	rows = corpus.Exclude(rows, p.exclusions)
	rows = p.datations.ResolveAll(rows)

	undated := 0
	for _, r := range rows {
		if !r.HasYear {
			undated++
		}
	}
	p.log.WithFields(logrus.Fields{
		"tag":      sc.Tag,
		"rows":     len(rows),
		"excluded": before - len(rows),
		"undated":  undated,
	}).Info("Loaded sub-corpus")
	return rows, nil
}

// LoadCorpus loads every configured sub-corpus, in configuration order
func (p *Pipeline) LoadCorpus() ([]model.DatedRow, error) {
	if len(p.config.Corpus.Subcorpora) == 0 {
		return nil, fmt.Errorf("%w: no sub-corpora configured", model.ErrInvalidArgument)
	}
	var all []model.DatedRow
	for _, sc := range p.config.Corpus.Subcorpora {
		rows, err := p.LoadSubcorpus(sc)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", sc.Tag, err)
		}
		all = append(all, rows...)
	}
	return all, nil
}

// DatasetsResult summarises what Datasets wrote
type DatasetsResult struct {
	Rows  map[string]int
	Files []string
}

// nominalEnding is the last letter every -ção/-mento noun lemma shares
const nominalEnding = "o"

// Datasets writes the per-tag rows and frequency lists, the merged table,
// one lemma frequency list per year, and the debug listings of non-noun
// rows and of lemmas that do not look nominalised
func (p *Pipeline) Datasets(rows []model.DatedRow) (*DatasetsResult, error) {
	res := &DatasetsResult{Rows: make(map[string]int)}

	for _, sc := range p.config.Corpus.Subcorpora {
		var tagged []model.DatedRow
		var tokens []string
		for _, r := range rows {
			if r.Tag == sc.Tag {
				tagged = append(tagged, r)
				tokens = append(tokens, r.Token)
			}
		}
		res.Rows[sc.Tag] = len(tagged)

		path, err := p.renderer.WriteRows(sc.Tag+".tsv", tagged)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)

		path, err = p.renderer.WriteFreqDist(sc.Tag+"_freqdist.tsv", freqdist.Build(tokens))
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	path, err := p.renderer.WriteRows("merged.tsv", rows)
	if err != nil {
		return nil, err
	}
	res.Files = append(res.Files, path)

	byYear := corpus.BuildIndex(rows, "")
	for _, year := range byYear.Years() {
		path, err := p.renderer.WriteFreqDist(strconv.Itoa(year)+".tsv", freqdist.Build(byYear[year]))
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	if p.config.Output.DebugDir != "" {
		var nonNouns, wrongLemmas []model.DatedRow
		for _, r := range rows {
			if r.POS != p.config.Corpus.NounTag {
				nonNouns = append(nonNouns, r)
			}
			if !strings.HasSuffix(r.Lemma, nominalEnding) {
				wrongLemmas = append(wrongLemmas, r)
			}
		}
		debug := NewRenderer(p.config.Output.DebugDir)
		path, err := debug.WriteRows("notNOMs.tsv", nonNouns)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)

		path, err = debug.WriteRows("wrong_lemmas.tsv", wrongLemmas)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, path)
	}

	return res, nil
}

// ReferenceStats computes the per-year whole-corpus counts from the full
// word list and writes them to the configured reference path
func (p *Pipeline) ReferenceStats() (*score.Reference, string, error) {
	rows, err := p.refLoader.Load(p.config.Corpus.FullWordlist, "full")
	if err != nil {
		return nil, "", err
	}
	rows = p.datations.ResolveAll(rows)

	ref := score.ReferenceFromIndex(corpus.BuildIndex(rows, ""))
	if err := WriteReference(p.config.Corpus.Reference, ref); err != nil {
		return nil, "", err
	}
	p.log.WithFields(logrus.Fields{"rows": len(rows), "years": len(ref.Years())}).Info("Computed corpus reference")
	return ref, p.config.Corpus.Reference, nil
}

// LoadReference reads the reference table named in the configuration
func (p *Pipeline) LoadReference() (*score.Reference, error) {
	counts, err := corpus.LoadReference(p.config.Corpus.Reference, p.log)
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: reference %s has no rows", model.ErrInvalidArgument, p.config.Corpus.Reference)
	}
	return score.NewReference(counts), nil
}

// Productivity rolls every sub-corpus and scores each non-empty window.
// A zero reference denominator aborts the run.
func (p *Pipeline) Productivity(rows []model.DatedRow, ref *score.Reference) (map[string][]model.ProductivityRow, error) {
	width := p.config.Window.Width
	scorer := score.NewScorer(ref, width)
	out := make(map[string][]model.ProductivityRow)

	for _, sc := range p.config.Corpus.Subcorpora {
		windows, err := window.Roll(corpus.BuildIndex(rows, sc.Tag), width)
		if err != nil {
			return nil, err
		}

		var table []model.ProductivityRow
		for _, w := range windows {
			if len(w.Tokens) == 0 {
				p.log.WithFields(logrus.Fields{"tag": sc.Tag, "window": w.Start}).Debug("Skipping empty window")
				continue
			}
			row, err := scorer.Score(w)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", sc.Tag, err)
			}
			table = append(table, row)
		}
		out[sc.Tag] = table
		p.log.WithFields(logrus.Fields{"tag": sc.Tag, "windows": len(windows), "rows": len(table)}).Info("Scored productivity")
	}
	return out, nil
}

// Resample rolls every sub-corpus and resamples the windows large enough
// for the configured sample size
func (p *Pipeline) Resample(ctx context.Context, rows []model.DatedRow) (map[string][]model.ResampleRow, error) {
	rc := p.config.Resample
	seed := rc.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
		p.log.WithField("seed", seed).Info("Using clock-derived seed")
	}
	resampler := worker.NewResampler(worker.ResampleParams{
		SampleSize: rc.SampleSize,
		Runs:       rc.Runs,
		Confidence: rc.Confidence,
		Seed:       seed,
	}, rc.Workers)

	out := make(map[string][]model.ResampleRow)
	for _, sc := range p.config.Corpus.Subcorpora {
		windows, err := window.Roll(corpus.BuildIndex(rows, sc.Tag), p.config.Window.Width)
		if err != nil {
			return nil, err
		}

		results, skipped, err := resampler.ProcessWindows(ctx, windows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sc.Tag, err)
		}

		var table []model.ResampleRow
		for _, res := range results {
			if res.Error != nil {
				return nil, fmt.Errorf("%s window %d: %w", sc.Tag, res.Window.Start, res.Error)
			}
			table = append(table, res.Row)
		}
		out[sc.Tag] = table
		p.log.WithFields(logrus.Fields{
			"tag":     sc.Tag,
			"rows":    len(table),
			"skipped": len(skipped),
		}).Info("Resampled windows")
	}
	return out, nil
}

// ChangepointResult is the change-point analysis of one column
type ChangepointResult struct {
	Rows []model.ChangepointRow
	Best model.ChangepointRow
}

// Changepoint reads a year-indexed table and estimates where the mean of
// column shifts
func (p *Pipeline) Changepoint(path, column string) (*ChangepointResult, error) {
	years, values, err := ReadSeries(path, column)
	if err != nil {
		return nil, err
	}

	probs, best, err := score.Changepoint(values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", column, err)
	}

	res := &ChangepointResult{Rows: make([]model.ChangepointRow, len(values))}
	for i := range values {
		res.Rows[i] = model.ChangepointRow{Index: i, Year: years[i], Value: values[i], Probability: probs[i]}
	}
	res.Best = res.Rows[best]
	return res, nil
}

// OutputName builds "<base>_<suffix>.<ext>" for derived files
func OutputName(input, suffix, ext string) string {
	base := filepath.Base(input)
	base = base[:len(base)-len(filepath.Ext(base))]
	return base + "_" + suffix + "." + ext
}

// ensureDir creates dir unless it already exists
func ensureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
