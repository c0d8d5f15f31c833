package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_WriteProductivity(t *testing.T) {
	r := NewRenderer(filepath.Join(t.TempDir(), "out"))

	path, err := r.WriteProductivity("cao_productivity.tsv", []model.ProductivityRow{{
		Year: 1602, Start: 1600, End: 1603,
		Tokens: 3, Types: 2, Hapaxes: 1,
		Expanding: 0.25, Potential: 0.5, TypesPerMillion: 1,
		ReferenceTokens: 2000000,
	}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(ProductivityColumns, "\t"), lines[0])
	assert.Equal(t, "1602\t1600\t1603\t3\t2\t1\t0.25\t0.5\t1\t2000000", lines[1])
}

func TestRenderer_WriteResampled_ReadSeries(t *testing.T) {
	r := NewRenderer(t.TempDir())

	rows := []model.ResampleRow{
		{Year: 1602, Types: model.Estimate{Mean: 40.5, Low: 40, High: 41}, Hapaxes: model.Estimate{Mean: 20, Low: 19, High: 21}, SampleSize: 131, CorpusN: 500},
		{Year: 1603, Types: model.Estimate{Mean: 42, Low: 41, High: 43}, Hapaxes: model.Estimate{Mean: 22, Low: 21, High: 23}, SampleSize: 131, CorpusN: 510},
	}
	path, err := r.WriteResampled("cao_resampled.tsv", rows)
	require.NoError(t, err)

	years, values, err := ReadSeries(path, "types")
	require.NoError(t, err)
	assert.Equal(t, []int{1602, 1603}, years)
	assert.Equal(t, []float64{40.5, 42}, values)

	_, hapaxes, err := ReadSeries(path, "hapaxes_high")
	require.NoError(t, err)
	assert.Equal(t, []float64{21, 23}, hapaxes)
}

func TestRenderer_RowsWithoutYear(t *testing.T) {
	r := NewRenderer(t.TempDir())

	path, err := r.WriteRows("rows.tsv", []model.DatedRow{{
		TaggedEntry: model.TaggedEntry{Token: "nação", POS: "NOM", Lemma: "nação"},
		Tag:         "cao",
		Document:    "anon.txt",
	}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cao\tanon.txt\t\tnação\tNOM\tnação\n")
}

func TestRenderer_ChangepointHTML(t *testing.T) {
	r := NewRenderer(t.TempDir())

	rows := []model.ChangepointRow{
		{Index: 0, Year: 1600, Value: 1, Probability: 0},
		{Index: 1, Year: 1601, Value: 5, Probability: 1},
	}
	path, err := r.RenderChangepointHTML("types.html", "Realized productivity (ção)", rows)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
	assert.Contains(t, string(data), "1601")
}
