package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/morphprod/internal/corpus"
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture writes a small two-tag corpus and returns a config pointing at it
func fixture(t *testing.T) *model.Config {
	t.Helper()
	dir := t.TempDir()

	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
		return p
	}

	var cao, mento, full strings.Builder
	header := "token\tpos\tlemma\n"
	cao.WriteString(header)
	mento.WriteString(header)
	full.WriteString(header)

	for year := 1600; year < 1610; year++ {
		for i := 0; i < 30; i++ {
			line := fmt.Sprintf("./autor%d.txt:nação%d\tNOM\tnação%d\n", year, i%(year-1595), i%(year-1595))
			cao.WriteString(line)
			full.WriteString(line)
		}
		line := fmt.Sprintf("./autor%d.txt:momento\tNOM\tmomento\n", year)
		mento.WriteString(line)
		full.WriteString(line)
		full.WriteString(fmt.Sprintf("./autor%d.txt:casa\tNOM\tcasa\n", year))
	}
	// excluded by token
	cao.WriteString("./autor1600.txt:ração\tNOM\tração\n")
	// century marker overridden by the datation table
	cao.WriteString("./vieira17th.txt:oração\tVER\t<unknown>\n")

	cfg := model.DefaultConfig()
	cfg.Corpus.Subcorpora = []model.Subcorpus{
		{Tag: "cao", Path: write("colonia_cao.lst", cao.String())},
		{Tag: "mento", Path: write("colonia_mento.lst", mento.String())},
	}
	cfg.Corpus.FullWordlist = write("full_wordlist.lst", full.String())
	cfg.Corpus.Exclusions = write("exclusions.lst", "ração\n")
	cfg.Corpus.Reference = filepath.Join(dir, "datasets", "full_corpus_stats_df.tsv")
	cfg.Datations = []model.Datation{{Document: "vieira17th.txt", Year: 1605}}
	cfg.Window.Width = 3
	cfg.Resample.SampleSize = 60
	cfg.Resample.Runs = 10
	cfg.Resample.Seed = 7
	cfg.Resample.Workers = 2
	cfg.Output.Dir = filepath.Join(dir, "datasets")
	cfg.Output.DebugDir = filepath.Join(dir, "debug")
	return cfg
}

func newTestPipeline(t *testing.T, cfg *model.Config) *Pipeline {
	t.Helper()
	log, _ := test.NewNullLogger()
	p, err := NewPipeline(cfg, log)
	require.NoError(t, err)
	return p
}

func TestPipeline_LoadCorpus(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	rows, err := p.LoadCorpus()
	require.NoError(t, err)
	assert.Len(t, rows, 300+1+10)

	var vieira *model.DatedRow
	for i := range rows {
		assert.NotEqual(t, "ração", rows[i].Token)
		if rows[i].Document == "vieira17th.txt" {
			vieira = &rows[i]
		}
	}
	require.NotNil(t, vieira)
	assert.Equal(t, 1605, vieira.Year)
	assert.Equal(t, "oração", vieira.Lemma)
}

func TestPipeline_Datasets(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	rows, err := p.LoadCorpus()
	require.NoError(t, err)
	res, err := p.Datasets(rows)
	require.NoError(t, err)

	assert.Equal(t, 301, res.Rows["cao"])
	assert.Equal(t, 10, res.Rows["mento"])
	// 2 files per tag, merged, 10 years, 2 debug listings
	assert.Len(t, res.Files, 2*2+1+10+2)

	freq, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "mento_freqdist.tsv"))
	require.NoError(t, err)
	assert.Equal(t, "word\tfreq\nmomento\t10\n", string(freq))

	debug, err := os.ReadFile(filepath.Join(cfg.Output.DebugDir, "notNOMs.tsv"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(debug), "\n"))
	assert.Contains(t, string(debug), "oração")
}

func TestPipeline_DatasetsPerYear(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	rows, err := p.LoadCorpus()
	require.NoError(t, err)
	_, err = p.Datasets(rows)
	require.NoError(t, err)

	for year := 1600; year < 1610; year++ {
		assert.FileExists(t, filepath.Join(cfg.Output.Dir, fmt.Sprintf("%d.tsv", year)))
	}

	// 1605 pools both tags and the re-dated vieira17th row
	freq, err := os.ReadFile(filepath.Join(cfg.Output.Dir, "1605.tsv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(freq), "\n"), "\n")
	assert.Equal(t, "word\tfreq", lines[0])
	assert.Len(t, lines, 1+10+2)
	assert.Equal(t, "nação0\t3", lines[1])
	assert.Contains(t, lines, "momento\t1")
	assert.Contains(t, lines, "oração\t1")
	assert.NoFileExists(t, filepath.Join(cfg.Output.Dir, "1650.tsv"))
}

func TestPipeline_DatasetsWrongLemmas(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	rows, err := p.LoadCorpus()
	require.NoError(t, err)
	_, err = p.Datasets(rows)
	require.NoError(t, err)

	debug, err := os.ReadFile(filepath.Join(cfg.Output.DebugDir, "wrong_lemmas.tsv"))
	require.NoError(t, err)
	body := string(debug)

	// every nação<n> lemma ends in a digit; momento and oração pass
	assert.Equal(t, 1+300, strings.Count(body, "\n"))
	assert.Contains(t, body, "nação7")
	assert.NotContains(t, body, "momento")
	assert.NotContains(t, body, "oração")
}

func TestPipeline_ReferenceRoundTrip(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	computed, path, err := p.ReferenceStats()
	require.NoError(t, err)
	assert.Equal(t, cfg.Corpus.Reference, path)

	loaded, err := p.LoadReference()
	require.NoError(t, err)
	assert.Equal(t, computed.Years(), loaded.Years())
	for _, y := range computed.Years() {
		assert.Equal(t, computed.Year(y), loaded.Year(y), "year %d", y)
	}
	// 30 cao tokens, momento, casa
	assert.Equal(t, model.Counts{Tokens: 32, Types: 7, Hapaxes: 2}, loaded.Year(1600))
}

func TestPipeline_Productivity(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	_, _, err := p.ReferenceStats()
	require.NoError(t, err)
	ref, err := p.LoadReference()
	require.NoError(t, err)
	rows, err := p.LoadCorpus()
	require.NoError(t, err)

	tables, err := p.Productivity(rows, ref)
	require.NoError(t, err)

	// 1600..1609 with width 3: 1609-1600-3+2 = 8 windows
	require.Len(t, tables["cao"], 8)
	require.Len(t, tables["mento"], 8)

	first := tables["cao"][0]
	assert.Equal(t, 1602, first.Year)
	assert.Equal(t, 1600, first.Start)
	assert.Equal(t, 1603, first.End)
	assert.Equal(t, 90, first.Tokens)
	assert.Equal(t, 96, first.ReferenceTokens)
	assert.InDelta(t, float64(first.Hapaxes)/90, first.Potential, 1e-12)

	for _, row := range tables["mento"] {
		assert.Equal(t, 3, row.Tokens)
		assert.Equal(t, 1, row.Types)
		assert.Equal(t, 0, row.Hapaxes)
	}
}

func TestPipeline_Productivity_MissingReference(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	counts, err := corpus.ReadReference(strings.NewReader("year\ttoken\ttype\thapaxes\n1500\t1\t1\t1\n"), logNull())
	require.NoError(t, err)
	rows, err := p.LoadCorpus()
	require.NoError(t, err)

	_, err = p.Productivity(rows, newReference(counts))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrDivisionByZero))
}

func TestPipeline_Resample(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	rows, err := p.LoadCorpus()
	require.NoError(t, err)

	tables, err := p.Resample(context.Background(), rows)
	require.NoError(t, err)

	// every cao window pools at least 90 tokens; mento windows hold 3
	assert.Len(t, tables["cao"], 8)
	assert.Empty(t, tables["mento"])

	for i, row := range tables["cao"] {
		assert.Equal(t, 1602+i, row.Year)
		assert.Equal(t, 60, row.SampleSize)
		assert.GreaterOrEqual(t, row.CorpusN, 60)
	}

	again, err := p.Resample(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, tables, again)
}

func TestPipeline_Changepoint(t *testing.T) {
	cfg := fixture(t)
	p := newTestPipeline(t, cfg)

	var b strings.Builder
	b.WriteString("year\ttypes\n")
	for i := 0; i < 12; i++ {
		v := 10.0 + float64(i%2)
		if i >= 6 {
			v += 20
		}
		fmt.Fprintf(&b, "%d\t%g\n", 1600+i, v)
	}
	in := filepath.Join(t.TempDir(), "cao_resampled.tsv")
	require.NoError(t, os.WriteFile(in, []byte(b.String()), 0644))

	res, err := p.Changepoint(in, "types")
	require.NoError(t, err)
	require.Len(t, res.Rows, 12)
	assert.Equal(t, 1606, res.Best.Year)

	_, err = p.Changepoint(in, "hapaxes")
	assert.True(t, errors.Is(err, model.ErrSchema))
}

func TestNewPipeline_MissingExclusions(t *testing.T) {
	cfg := fixture(t)
	cfg.Corpus.Exclusions = filepath.Join(t.TempDir(), "nope.lst")

	log, _ := test.NewNullLogger()
	_, err := NewPipeline(cfg, log)
	assert.Error(t, err)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "cao_resampled_types_changepoint.tsv", OutputName("datasets/cao_resampled.tsv", "types_changepoint", "tsv"))
}
