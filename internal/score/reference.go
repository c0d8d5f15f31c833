package score

import (
	"sort"

	"github.com/ppiankov/morphprod/internal/cache"
	"github.com/ppiankov/morphprod/internal/freqdist"
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/window"
)

// Reference holds the whole-corpus (tokens, types, hapaxes) per year.
// It is built once and only read afterwards.
type Reference struct {
	years map[int]model.Counts
	memo  cache.Cache
}

// NewReference copies the per-year counts into a Reference
func NewReference(years map[int]model.Counts) *Reference {
	r := &Reference{
		years: make(map[int]model.Counts, len(years)),
		memo:  cache.NewMemoryCache(0),
	}
	for y, c := range years {
		r.years[y] = c
	}
	return r
}

// ReferenceFromIndex computes per-year counts from a year index of the
// full corpus
func ReferenceFromIndex(idx map[int][]string) *Reference {
	years := make(map[int]model.Counts, len(idx))
	for y, lemmas := range idx {
		years[y] = freqdist.Build(lemmas).Counts()
	}
	return NewReference(years)
}

// Year returns the counts of one year; missing years count as zero
func (r *Reference) Year(y int) model.Counts {
	return r.years[y]
}

// Years lists the years present, ascending
func (r *Reference) Years() []int {
	out := make([]int, 0, len(r.years))
	for y := range r.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Window sums the yearly counts over the same [start, start+width) span
// that window.Roll pools tokens over
func (r *Reference) Window(start, width int) model.Counts {
	key := cache.WindowKey("reference", start, width)
	if c, ok := r.memo.Get(key); ok {
		return c
	}

	from, to := window.Bounds(start, width)
	var sum model.Counts
	for y := from; y < to; y++ {
		sum = sum.Add(r.years[y])
	}
	r.memo.Set(key, sum)
	return sum
}
