package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/morphprod/internal/freqdist"
	"github.com/ppiankov/morphprod/internal/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Resample draws runs subsamples of sampleSize tokens from fd and
// summarises the type and hapax counts of the draws.
func Resample(fd *freqdist.Dist, sampleSize, runs int, confidence float64, src rand.Source) (types, hapaxes model.Estimate, err error) {
	if sampleSize < 1 {
		return types, hapaxes, fmt.Errorf("%w: sample size %d", model.ErrInvalidArgument, sampleSize)
	}
	if runs < 2 {
		return types, hapaxes, fmt.Errorf("%w: %d runs, need at least 2", model.ErrInvalidArgument, runs)
	}
	if sampleSize > fd.Total() {
		return types, hapaxes, fmt.Errorf("%w: sample size %d exceeds %d tokens", model.ErrInvalidArgument, sampleSize, fd.Total())
	}

	sampler := fd.Sampler()
	typeCounts := make([]float64, runs)
	hapaxCounts := make([]float64, runs)
	for i := 0; i < runs; i++ {
		draw, err := sampler.Sample(sampleSize, src)
		if err != nil {
			return types, hapaxes, err
		}
		d := freqdist.Build(draw)
		typeCounts[i] = float64(d.Types())
		hapaxCounts[i] = float64(d.Hapaxes())
	}

	if types, err = Summarize(typeCounts, confidence); err != nil {
		return types, hapaxes, fmt.Errorf("types: %w", err)
	}
	if hapaxes, err = Summarize(hapaxCounts, confidence); err != nil {
		return types, hapaxes, fmt.Errorf("hapaxes: %w", err)
	}
	return types, hapaxes, nil
}

// Summarize returns the mean of values with a Student-t interval at the
// given confidence. Under a Jeffreys prior this is also the Bayesian
// credible interval for the mean.
func Summarize(values []float64, confidence float64) (model.Estimate, error) {
	n := len(values)
	if n < 2 {
		return model.Estimate{}, fmt.Errorf("%w: need at least 2 values, got %d", model.ErrInvalidArgument, n)
	}
	if confidence <= 0 || confidence >= 1 {
		return model.Estimate{}, fmt.Errorf("%w: confidence %v outside (0, 1)", model.ErrInvalidArgument, confidence)
	}

	mean, std := stat.MeanStdDev(values, nil)
	if std == 0 {
		return model.Estimate{Mean: mean, Low: mean, High: mean}, nil
	}

	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile((1 + confidence) / 2)
	half := t * std / math.Sqrt(float64(n))
	return model.Estimate{Mean: mean, Low: mean - half, High: mean + half}, nil
}
