package worker

import (
	"context"
	"sort"

	"github.com/ppiankov/morphprod/internal/freqdist"
	"github.com/ppiankov/morphprod/internal/model"
	"github.com/ppiankov/morphprod/internal/score"
	"github.com/ppiankov/morphprod/internal/window"
	"golang.org/x/exp/rand"
)

// ResampleParams are shared by every job of a run
type ResampleParams struct {
	SampleSize int
	Runs       int
	Confidence float64
	Seed       uint64
}

// ResampleJob resamples one window
type ResampleJob struct {
	Index  int
	Window window.Window
	Params ResampleParams
}

// Execute runs the resampling with a source seeded from the run seed and
// the window index, so output does not depend on scheduling
func (j *ResampleJob) Execute(ctx context.Context) Result {
	res := &ResampleResult{Index: j.Index, Window: j.Window}
	if err := ctx.Err(); err != nil {
		res.Error = err
		return res
	}

	fd := freqdist.Build(j.Window.Tokens)
	src := rand.NewSource(j.Params.Seed + uint64(j.Index))
	types, hapaxes, err := score.Resample(fd, j.Params.SampleSize, j.Params.Runs, j.Params.Confidence, src)
	if err != nil {
		res.Error = err
		return res
	}

	res.Row = model.ResampleRow{
		Year:       j.Window.Mid,
		Types:      types,
		Hapaxes:    hapaxes,
		SampleSize: j.Params.SampleSize,
		CorpusN:    fd.Total(),
	}
	return res
}

// ResampleResult is the outcome of one ResampleJob
type ResampleResult struct {
	Index  int
	Window window.Window
	Row    model.ResampleRow
	Error  error
}

// GetError returns the job error
func (r *ResampleResult) GetError() error {
	return r.Error
}

// Resampler fans window resampling out over a pool
type Resampler struct {
	params      ResampleParams
	concurrency int
}

// NewResampler creates a resampler
func NewResampler(params ResampleParams, concurrency int) *Resampler {
	return &Resampler{params: params, concurrency: concurrency}
}

// ProcessWindows resamples every window with at least SampleSize tokens.
// Smaller windows are skipped and reported in skipped. Results come back
// ordered by window.
func (r *Resampler) ProcessWindows(ctx context.Context, windows []window.Window) (results []*ResampleResult, skipped []window.Window, err error) {
	pool := NewPool(ctx, r.concurrency)
	pool.Start()

	for i, w := range windows {
		if len(w.Tokens) < r.params.SampleSize {
			skipped = append(skipped, w)
			continue
		}
		if err := pool.Submit(&ResampleJob{Index: i, Window: w, Params: r.params}); err != nil {
			pool.Shutdown()
			return nil, nil, err
		}
	}

	for _, res := range pool.Wait() {
		results = append(results, res.(*ResampleResult))
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Index < results[j].Index
	})

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return results, skipped, nil
}
