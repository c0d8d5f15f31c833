package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/morphprod/internal/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Changepoint returns, for every index tau, the posterior probability that
// the mean of series shifts between tau-1 and tau, and the most probable tau.
//
// Model: two segments with their own mean and a shared Gaussian noise
// level, flat priors on the means, Jeffreys prior on sigma and a uniform
// prior on tau over [2, n-2]. Integrating out the nuisance parameters
// gives p(tau) ∝ RSS(tau)^(-(n-2)/2) / sqrt(tau*(n-tau)).
func Changepoint(series []float64) ([]float64, int, error) {
	n := len(series)
	if n < 4 {
		return nil, 0, fmt.Errorf("%w: change point needs at least 4 points, got %d", model.ErrInvalidArgument, n)
	}
	for i, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, 0, fmt.Errorf("%w: non-finite value at index %d", model.ErrInvalidArgument, i)
		}
	}

	probs := make([]float64, n)
	var exact []int
	logp := make([]float64, 0, n-3)
	taus := make([]int, 0, n-3)

	for tau := 2; tau <= n-2; tau++ {
		rss := segmentRSS(series[:tau]) + segmentRSS(series[tau:])
		if rss == 0 {
			exact = append(exact, tau)
			continue
		}
		taus = append(taus, tau)
		logp = append(logp, -float64(n-2)/2*math.Log(rss)-0.5*math.Log(float64(tau*(n-tau))))
	}

	// A perfect two-level fit has infinite density; split the mass
	// between such locations.
	if len(exact) > 0 {
		for _, tau := range exact {
			probs[tau] = 1 / float64(len(exact))
		}
		return probs, exact[0], nil
	}

	norm := floats.LogSumExp(logp)
	best, bestP := taus[0], -1.0
	for i, tau := range taus {
		p := math.Exp(logp[i] - norm)
		probs[tau] = p
		if p > bestP {
			best, bestP = tau, p
		}
	}
	return probs, best, nil
}

func segmentRSS(xs []float64) float64 {
	mean := stat.Mean(xs, nil)
	var rss float64
	for _, x := range xs {
		d := x - mean
		rss += d * d
	}
	return rss
}
