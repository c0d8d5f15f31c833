// Package score computes productivity metrics and resampling estimates.
package score

import (
	"fmt"

	"github.com/ppiankov/morphprod/internal/freqdist"
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/window"
)

const perMillion = 1_000_000

// ExpandingProductivity is hapaxes / reference hapaxes
func ExpandingProductivity(hapaxes int, ref model.Counts) (float64, error) {
	if ref.Hapaxes == 0 {
		return 0, fmt.Errorf("%w: expanding productivity with zero reference hapaxes", model.ErrDivisionByZero)
	}
	return float64(hapaxes) / float64(ref.Hapaxes), nil
}

// PotentialProductivity is hapaxes / tokens
func PotentialProductivity(hapaxes, tokens int) (float64, error) {
	if tokens == 0 {
		return 0, fmt.Errorf("%w: potential productivity with zero tokens", model.ErrDivisionByZero)
	}
	return float64(hapaxes) / float64(tokens), nil
}

// TypesPerMillion is types per million reference tokens
func TypesPerMillion(types int, ref model.Counts) (float64, error) {
	if ref.Tokens == 0 {
		return 0, fmt.Errorf("%w: types per million with zero reference tokens", model.ErrDivisionByZero)
	}
	return float64(types) / float64(ref.Tokens) * perMillion, nil
}

// Compute derives the productivity row of a distribution against its
// reference counts. Window coordinates are left for the caller.
func Compute(fd *freqdist.Dist, ref model.Counts) (model.ProductivityRow, error) {
	c := fd.Counts()

	expanding, err := ExpandingProductivity(c.Hapaxes, ref)
	if err != nil {
		return model.ProductivityRow{}, err
	}
	potential, err := PotentialProductivity(c.Hapaxes, c.Tokens)
	if err != nil {
		return model.ProductivityRow{}, err
	}
	tpm, err := TypesPerMillion(c.Types, ref)
	if err != nil {
		return model.ProductivityRow{}, err
	}

	return model.ProductivityRow{
		Tokens:          c.Tokens,
		Types:           c.Types,
		Hapaxes:         c.Hapaxes,
		Expanding:       expanding,
		Potential:       potential,
		TypesPerMillion: tpm,
		ReferenceTokens: ref.Tokens,
	}, nil
}

// Scorer scores rolled windows against a corpus reference
type Scorer struct {
	ref   *Reference
	width int
}

// NewScorer creates a scorer for windows of the given width
func NewScorer(ref *Reference, width int) *Scorer {
	return &Scorer{ref: ref, width: width}
}

// Score computes the productivity row of one window. The reference is
// summed over the window's own bounds.
func (s *Scorer) Score(w window.Window) (model.ProductivityRow, error) {
	row, err := Compute(freqdist.Build(w.Tokens), s.ref.Window(w.Start, s.width))
	if err != nil {
		return model.ProductivityRow{}, fmt.Errorf("window %d-%d: %w", w.Start, w.End, err)
	}
	row.Year = w.Mid
	row.Start = w.Start
	row.End = w.End
	return row, nil
}
