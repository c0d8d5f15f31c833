package corpus

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ppiankov/morphprod/internal/model"
)

// ReadSeries reads a numeric column keyed by year from a year-indexed
// table. The year comes from the "year" column, or the first column when
// no column is named "year". column may itself be "year".
func ReadSeries(r io.Reader, column string) (years []int, values []float64, err error) {
	t, err := newTable(r, column)
	if err != nil {
		return nil, nil, err
	}
	yearCol := "year"
	if _, ok := t.columns[yearCol]; !ok {
		yearCol = ""
		t.columns[yearCol] = 0
	}

	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", t.line, err)
		}

		raw := strings.TrimSpace(t.field(rec, yearCol))
		year, err := strconv.Atoi(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w: year %q", t.line, model.ErrParse, raw)
		}
		raw = strings.TrimSpace(t.field(rec, column))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w: %s %q", t.line, model.ErrParse, column, raw)
		}
		years = append(years, year)
		values = append(values, v)
	}
	return years, values, nil
}
