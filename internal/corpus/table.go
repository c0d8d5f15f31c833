package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/morphprod/internal/model"
)

// table wraps a tab-delimited reader whose first line is a header
type table struct {
	r       *csv.Reader
	columns map[string]int
	width   int
	line    int
}

func newTable(r io.Reader, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &table{r: cr, columns: make(map[string]int), width: len(header), line: 1}
	for i, name := range header {
		t.columns[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", model.ErrSchema, strings.Join(missing, ", "))
	}

	return t, nil
}

// next returns the next record, io.EOF at the end
func (t *table) next() ([]string, error) {
	rec, err := t.r.Read()
	t.line++
	return rec, err
}

func (t *table) field(rec []string, name string) string {
	i, ok := t.columns[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}
