package corpus

import (
	"strings"
	"testing"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSeries(t *testing.T) {
	const table = "year\tstart\ttypes\n1602\t1600\t40.5\n1603\t1601\t42\n"

	tests := []struct {
		name   string
		in     string
		column string
		years  []int
		values []float64
	}{
		{name: "named year", in: table, column: "types", years: []int{1602, 1603}, values: []float64{40.5, 42}},
		{name: "year column itself", in: table, column: "year", years: []int{1602, 1603}, values: []float64{1602, 1603}},
		{name: "unnamed index column", in: "\ttypes\n1700\t3\n1701\t4\n", column: "types", years: []int{1700, 1701}, values: []float64{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			years, values, err := ReadSeries(strings.NewReader(tt.in), tt.column)
			require.NoError(t, err)
			assert.Equal(t, tt.years, years)
			assert.Equal(t, tt.values, values)
		})
	}
}

func TestReadSeries_Errors(t *testing.T) {
	_, _, err := ReadSeries(strings.NewReader("year\ttypes\n1600\t1\n"), "hapaxes")
	assert.ErrorIs(t, err, model.ErrSchema)

	_, _, err = ReadSeries(strings.NewReader("\ttypes\n1600\t1\n"), "year")
	assert.ErrorIs(t, err, model.ErrSchema)

	_, _, err = ReadSeries(strings.NewReader("year\ttypes\n1600\tmany\n"), "types")
	assert.ErrorIs(t, err, model.ErrParse)
}
