package geval

import (
	"errors"
	"runtime"
	"sync"

	"github.com/soypat/geometry/ms3"
)

// minParallelChunk bounds the positions handed to one goroutine so small
// batches are not split below the point where scheduling costs dominate.
const minParallelChunk = 1 << 9

// ParallelSDF3 wraps a field so batch evaluations are split across multiple
// goroutines. The wrapped field must support concurrent Evaluate calls over
// disjoint buffers, which stateless fields such as scene folds do.
type ParallelSDF3 struct {
	s       SDF3
	workers int
}

// NewParallelSDF3 returns a parallel evaluator over s using up to workers
// goroutines per batch. workers<=0 selects [runtime.GOMAXPROCS].
func NewParallelSDF3(s SDF3, workers int) (*ParallelSDF3, error) {
	if s == nil {
		return nil, errors.New("nil SDF3")
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ParallelSDF3{s: s, workers: workers}, nil
}

// Evaluate implements the [SDF3] interface by splitting pos into contiguous
// chunks evaluated concurrently. userData is forwarded to every chunk, so any
// carried state must tolerate concurrent use.
func (p *ParallelSDF3) Evaluate(pos []ms3.Vec, dist []float32, userData any) error {
	if len(pos) != len(dist) {
		return errMismatchBufferLength
	} else if len(pos) == 0 {
		return errEmptyBuffers
	}
	chunk := (len(pos) + p.workers - 1) / p.workers
	if chunk < minParallelChunk {
		chunk = minParallelChunk
	}
	n := (len(pos) + chunk - 1) / chunk
	if n == 1 {
		return p.s.Evaluate(pos, dist, userData)
	}
	errs := make([]error, n)
	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		start := w * chunk
		end := min(start+chunk, len(pos))
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			errs[w] = p.s.Evaluate(pos[start:end], dist[start:end], userData)
		}(w, start, end)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Bounds returns the bounds of the wrapped field.
func (p *ParallelSDF3) Bounds() ms3.Box {
	return p.s.Bounds()
}
