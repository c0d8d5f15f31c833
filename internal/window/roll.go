// Package window resamples year buckets into overlapping fixed-width windows.
package window

import (
	"fmt"

	"github.com/ppiankov/morphprod/internal/model"
)

// Window is a pooled span of years [Start, End)
type Window struct {
	Start  int
	End    int // exclusive
	Mid    int
	Tokens []string
}

// Bounds returns the span covered by a window starting at start
func Bounds(start, width int) (from, to int) {
	return start, start + width
}

// Midpoint is ceil(mean(start, start+width)). The mean is either a whole
// number or ends in .5, so this is also round-half-up.
func Midpoint(start, width int) int {
	return start + (width+1)/2
}

// Count is the number of windows Roll produces over [bottom, top]
func Count(bottom, top, width int) int {
	if n := top - bottom - width + 2; n > 0 {
		return n
	}
	return 0
}

// Roll slides a window of the given width from the earliest to the
// latest year in idx. Starts run over [bottom, top-width+2), so the last
// window ends exactly after top. Years without a bucket add nothing.
func Roll(idx map[int][]string, width int) ([]Window, error) {
	if width < 1 {
		return nil, fmt.Errorf("%w: window width %d", model.ErrInvalidArgument, width)
	}
	if len(idx) == 0 {
		return nil, nil
	}

	bottom, top := span(idx)
	windows := make([]Window, 0, Count(bottom, top, width))
	for start := bottom; start < top-width+2; start++ {
		from, to := Bounds(start, width)
		var pooled []string
		for y := from; y < to; y++ {
			pooled = append(pooled, idx[y]...)
		}
		windows = append(windows, Window{
			Start:  from,
			End:    to,
			Mid:    Midpoint(start, width),
			Tokens: pooled,
		})
	}
	return windows, nil
}

func span(idx map[int][]string) (bottom, top int) {
	first := true
	for y := range idx {
		if first {
			bottom, top = y, y
			first = false
			continue
		}
		if y < bottom {
			bottom = y
		}
		if y > top {
			top = y
		}
	}
	return bottom, top
}
