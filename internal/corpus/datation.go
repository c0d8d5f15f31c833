package corpus

import "github.com/ppiankov/morphprod/internal/model"

// Datations holds manual year overrides keyed by document name
type Datations struct {
	years map[string]int
}

// NewDatations builds the override table. When a document is listed
// twice the first entry wins.
func NewDatations(list []model.Datation) *Datations {
	d := &Datations{years: make(map[string]int, len(list))}
	for _, dt := range list {
		if _, seen := d.years[dt.Document]; seen {
			continue
		}
		d.years[dt.Document] = dt.Year
	}
	return d
}

// Resolve returns row with its year replaced when its document has an
// override. Resolve(Resolve(r)) == Resolve(r).
func (d *Datations) Resolve(row model.DatedRow) model.DatedRow {
	if year, ok := d.years[row.Document]; ok {
		row.Year = year
		row.HasYear = true
	}
	return row
}

// ResolveAll applies Resolve to every row in place and returns the slice
func (d *Datations) ResolveAll(rows []model.DatedRow) []model.DatedRow {
	for i := range rows {
		rows[i] = d.Resolve(rows[i])
	}
	return rows
}
