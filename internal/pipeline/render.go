package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/ppiankov/morphprod/internal/corpus"
	"github.com/ppiankov/morphprod/internal/freqdist"
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/score"
)

// Column headers of the written tables
var (
	RowColumns          = []string{"tag", "text", "year", "token", "pos", "lemma"}
	FreqDistColumns     = []string{"word", "freq"}
	ProductivityColumns = []string{"year", "start", "end", "tokens", "types", "hapaxes",
		"expanding_productivity", "potential_productivity", "types_per_million", "corpus_N"}
	ResampleColumns = []string{"year", "types", "types_low", "types_high",
		"hapaxes", "hapaxes_low", "hapaxes_high", "sample_size", "corpus_N"}
	ChangepointColumns = []string{"index", "year", "value", "probability"}
)

// Renderer writes tab-separated tables into one directory
type Renderer struct {
	dir string
}

// NewRenderer creates a renderer for dir
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Path returns where name would be written
func (r *Renderer) Path(name string) string {
	return filepath.Join(r.dir, name)
}

// WriteRows writes dated rows. Rows without a year get an empty cell.
func (r *Renderer) WriteRows(name string, rows []model.DatedRow) (string, error) {
	return r.write(name, RowColumns, func(w *csv.Writer) error {
		for _, row := range rows {
			year := ""
			if row.HasYear {
				year = strconv.Itoa(row.Year)
			}
			if err := w.Write([]string{row.Tag, row.Document, year, row.Token, row.POS, row.Lemma}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteFreqDist writes a frequency list, most common first
func (r *Renderer) WriteFreqDist(name string, fd *freqdist.Dist) (string, error) {
	return r.write(name, FreqDistColumns, func(w *csv.Writer) error {
		for _, wf := range fd.MostCommon() {
			if err := w.Write([]string{wf.Word, strconv.Itoa(wf.Freq)}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteProductivity writes one productivity table
func (r *Renderer) WriteProductivity(name string, rows []model.ProductivityRow) (string, error) {
	return r.write(name, ProductivityColumns, func(w *csv.Writer) error {
		for _, row := range rows {
			if err := w.Write([]string{
				strconv.Itoa(row.Year),
				strconv.Itoa(row.Start),
				strconv.Itoa(row.End),
				strconv.Itoa(row.Tokens),
				strconv.Itoa(row.Types),
				strconv.Itoa(row.Hapaxes),
				formatFloat(row.Expanding),
				formatFloat(row.Potential),
				formatFloat(row.TypesPerMillion),
				strconv.Itoa(row.ReferenceTokens),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteResampled writes one resampling table
func (r *Renderer) WriteResampled(name string, rows []model.ResampleRow) (string, error) {
	return r.write(name, ResampleColumns, func(w *csv.Writer) error {
		for _, row := range rows {
			if err := w.Write([]string{
				strconv.Itoa(row.Year),
				formatFloat(row.Types.Mean),
				formatFloat(row.Types.Low),
				formatFloat(row.Types.High),
				formatFloat(row.Hapaxes.Mean),
				formatFloat(row.Hapaxes.Low),
				formatFloat(row.Hapaxes.High),
				strconv.Itoa(row.SampleSize),
				strconv.Itoa(row.CorpusN),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteChangepoint writes the per-index change-point probabilities
func (r *Renderer) WriteChangepoint(name string, rows []model.ChangepointRow) (string, error) {
	return r.write(name, ChangepointColumns, func(w *csv.Writer) error {
		for _, row := range rows {
			if err := w.Write([]string{
				strconv.Itoa(row.Index),
				strconv.Itoa(row.Year),
				formatFloat(row.Value),
				formatFloat(row.Probability),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// RenderChangepointHTML draws the series above its change-point
// probabilities as a standalone HTML page
func (r *Renderer) RenderChangepointHTML(name, title string, rows []model.ChangepointRow) (string, error) {
	if err := ensureDir(r.dir); err != nil {
		return "", err
	}
	path := r.Path(name)

	years := make([]string, len(rows))
	values := make([]opts.LineData, len(rows))
	probs := make([]opts.BarData, len(rows))
	for i, row := range rows {
		years[i] = strconv.Itoa(row.Year)
		values[i] = opts.LineData{Value: row.Value}
		probs[i] = opts.BarData{Value: row.Probability}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title}))
	line.SetXAxis(years).AddSeries(title, values)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Change-point probability"}),
		charts.WithYAxisOpts(opts.YAxis{Min: 0, Max: 1}),
	)
	bar.SetXAxis(years).AddSeries("probability", probs)

	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(line, bar)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := page.Render(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

func (r *Renderer) write(name string, header []string, body func(*csv.Writer) error) (path string, err error) {
	if err := ensureDir(r.dir); err != nil {
		return "", err
	}
	path = r.Path(name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	if err := writeTable(f, header, body); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func writeTable(out io.Writer, header []string, body func(*csv.Writer) error) error {
	w := csv.NewWriter(out)
	w.Comma = '\t'
	if err := w.Write(header); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// WriteReference writes per-year reference counts in the format
// corpus.ReadReference reads back
func WriteReference(path string, ref *score.Reference) (err error) {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, closeErr)
		}
	}()

	return writeTable(f, corpus.ReferenceColumns, func(w *csv.Writer) error {
		for _, y := range ref.Years() {
			c := ref.Year(y)
			if err := w.Write([]string{
				strconv.Itoa(y),
				strconv.Itoa(c.Tokens),
				strconv.Itoa(c.Types),
				strconv.Itoa(c.Hapaxes),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// ReadSeries reads the year keys and one numeric column of a table
// written by this package
func ReadSeries(path, column string) (years []int, values []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open series: %w", err)
	}
	defer func() { _ = f.Close() }()

	years, values, err = corpus.ReadSeries(f, column)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return years, values, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
