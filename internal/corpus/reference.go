package corpus

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ppiankov/morphprod/internal/model"
	"github.com/sirupsen/logrus"
)

// ReferenceColumns is the header written and read for corpus-wide counts
var ReferenceColumns = []string{"year", "token", "type", "hapaxes"}

// LoadReference reads the per-year corpus reference table
func LoadReference(filePath string, log logrus.FieldLogger) (map[int]model.Counts, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer func() { _ = f.Close() }()

	counts, err := ReadReference(f, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return counts, nil
}

// ReadReference parses a reference table. The year is taken from the
// "year" column, or from the first column when the header leaves it
// unnamed. Rows with an unparsable number are skipped.
func ReadReference(r io.Reader, log logrus.FieldLogger) (map[int]model.Counts, error) {
	t, err := newTable(r, "token", "type", "hapaxes")
	if err != nil {
		return nil, err
	}
	yearCol := "year"
	if _, ok := t.columns[yearCol]; !ok {
		yearCol = ""
		t.columns[yearCol] = 0
	}

	counts := make(map[int]model.Counts)
	for {
		rec, err := t.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.line, err)
		}

		year, yerr := parseInt(t.field(rec, yearCol))
		tokens, terr := parseInt(t.field(rec, "token"))
		types, serr := parseInt(t.field(rec, "type"))
		hapaxes, herr := parseInt(t.field(rec, "hapaxes"))
		if yerr != nil || terr != nil || serr != nil || herr != nil {
			log.WithFields(logrus.Fields{"line": t.line}).Warn("Skipping unparsable reference row")
			continue
		}
		counts[year] = counts[year].Add(model.Counts{Tokens: tokens, Types: types, Hapaxes: hapaxes})
	}
	return counts, nil
}

// parseInt accepts "1670" as well as "1670.0". NaN, infinities, fractions
// and negative counts are rejected.
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("%w: negative value %d", model.ErrParse, n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", model.ErrParse, s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > 1<<53 {
		return 0, fmt.Errorf("%w: %q is not a whole count", model.ErrParse, s)
	}
	return int(f), nil
}
