// Package freqdist counts lemma occurrences in a pooled token collection.
package freqdist

import (
	"fmt"
	"sort"

	"github.com/ppiankov/morphprod/internal/model"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Dist maps each distinct word to its number of occurrences
type Dist struct {
	counts map[string]int
	order  []string // first-seen order, keeps Tokens deterministic
	total  int
}

// WordFreq is one entry of MostCommon
type WordFreq struct {
	Word string
	Freq int
}

// Build counts the tokens of a collection
func Build(tokens []string) *Dist {
	d := &Dist{counts: make(map[string]int)}
	for _, t := range tokens {
		d.add(t, 1)
	}
	return d
}

func (d *Dist) add(word string, n int) {
	if _, ok := d.counts[word]; !ok {
		d.order = append(d.order, word)
	}
	d.counts[word] += n
	d.total += n
}

// Total is the number of tokens, duplicates included
func (d *Dist) Total() int {
	return d.total
}

// Types is the number of distinct words
func (d *Dist) Types() int {
	return len(d.counts)
}

// Hapaxes is the number of words seen exactly once
func (d *Dist) Hapaxes() int {
	n := 0
	for _, c := range d.counts {
		if c == 1 {
			n++
		}
	}
	return n
}

// Count returns the frequency of a word
func (d *Dist) Count(word string) int {
	return d.counts[word]
}

// Counts returns the (tokens, types, hapaxes) triple
func (d *Dist) Counts() model.Counts {
	return model.Counts{
		Tokens:  d.Total(),
		Types:   d.Types(),
		Hapaxes: d.Hapaxes(),
	}
}

// MostCommon lists words by descending frequency, ties broken alphabetically
func (d *Dist) MostCommon() []WordFreq {
	out := make([]WordFreq, 0, len(d.counts))
	for w, c := range d.counts {
		out = append(out, WordFreq{Word: w, Freq: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Freq != out[j].Freq {
			return out[i].Freq > out[j].Freq
		}
		return out[i].Word < out[j].Word
	})
	return out
}

// Tokens expands the distribution back into individual occurrences
func (d *Dist) Tokens() []string {
	out := make([]string, 0, d.total)
	for _, w := range d.order {
		for i := 0; i < d.counts[w]; i++ {
			out = append(out, w)
		}
	}
	return out
}

// Sample draws n occurrences without replacement. A nil src uses the
// global source.
func (d *Dist) Sample(n int, src rand.Source) ([]string, error) {
	return d.Sampler().Sample(n, src)
}

// Sampler expands the distribution once so repeated draws stay cheap
func (d *Dist) Sampler() *Sampler {
	return &Sampler{population: d.Tokens()}
}

// Sampler draws subsamples from a fixed population of occurrences
type Sampler struct {
	population []string
}

// Size is the population size
func (s *Sampler) Size() int {
	return len(s.population)
}

// Sample draws n occurrences without replacement
func (s *Sampler) Sample(n int, src rand.Source) ([]string, error) {
	if n < 0 || n > len(s.population) {
		return nil, fmt.Errorf("%w: sample of %d from population of %d", model.ErrInvalidArgument, n, len(s.population))
	}

	if n == 0 {
		return []string{}, nil
	}

	idxs := make([]int, n)
	sampleuv.WithoutReplacement(idxs, len(s.population), src)

	out := make([]string, n)
	for i, idx := range idxs {
		out[i] = s.population[idx]
	}
	return out, nil
}
