package corpus

import (
	"sort"

	"github.com/ppiankov/morphprod/internal/model"
)

// YearIndex groups lemma occurrences by year
type YearIndex map[int][]string

// BuildIndex buckets the lemmas of rows tagged tag by year. Rows without
// a year are left out. An empty tag selects every row.
func BuildIndex(rows []model.DatedRow, tag string) YearIndex {
	idx := make(YearIndex)
	for _, r := range rows {
		if tag != "" && r.Tag != tag {
			continue
		}
		if !r.HasYear {
			continue
		}
		idx[r.Year] = append(idx[r.Year], r.Lemma)
	}
	return idx
}

// Years returns the bucketed years in ascending order
func (idx YearIndex) Years() []int {
	years := make([]int, 0, len(idx))
	for y := range idx {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Bounds returns the smallest and largest year; ok is false when empty
func (idx YearIndex) Bounds() (bottom, top int, ok bool) {
	years := idx.Years()
	if len(years) == 0 {
		return 0, 0, false
	}
	return years[0], years[len(years)-1], true
}
