package uopt

import (
	"crypto/sha1"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/pool"
)

type Evaler interface {
	// Eval evaluates each point using obj and returns the values and number
	// of function evaluations n.  Unevaluated points are not returned in the
	// results slice.
	Eval(obj Objectiver, points ...Point) (results []Point, n int, err error)
}

// SerialEvaler evaluates points sequentially and stops at the first
// evaluation failure.  The failed point is included in the results with
// whatever value the objective returned.
type SerialEvaler struct{}

func (ev SerialEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	results = make([]Point, 0, len(points))
	for _, p := range points {
		p.Val, err = obj.Objective(p.Pos())
		results = append(results, p)
		if err != nil {
			return results, len(results), errors.Mark(err, ErrEvalFail)
		}
	}
	return results, len(results), nil
}

// ParallelEvaler evaluates points concurrently.  Results are written back by
// index, so callers can run their best-so-far merge as a single sequential
// pass over the returned slice.  n counts all launched evaluations, and the
// first error (if any) is returned after the whole batch drains.
type ParallelEvaler struct {
	// NConcurrent limits in-flight evaluations.  Zero means no limit.
	NConcurrent int
}

func (ev ParallelEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	results = make([]Point, len(points))
	copy(results, points)

	p := pool.New().WithErrors()
	if ev.NConcurrent > 0 {
		p = p.WithMaxGoroutines(ev.NConcurrent)
	}
	for i := range results {
		i := i
		p.Go(func() error {
			val, err := obj.Objective(results[i].Pos())
			results[i].Val = val
			if err != nil {
				return errors.Mark(err, ErrEvalFail)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return results, len(results), err
	}
	return results, len(results), nil
}

// CacheEvaler wraps another Evaler and memoizes objective values by position
// hash, so re-visited positions cost nothing.  Cached values count as zero
// evaluations.
type CacheEvaler struct {
	ev    Evaler
	cache map[[sha1.Size]byte]float64
}

func NewCacheEvaler(ev Evaler) *CacheEvaler {
	return &CacheEvaler{
		ev:    ev,
		cache: map[[sha1.Size]byte]float64{},
	}
}

func (ev *CacheEvaler) Eval(obj Objectiver, points ...Point) (results []Point, n int, err error) {
	results = make([]Point, len(points))
	copy(results, points)

	misses := make([]int, 0, len(points))
	newp := make([]Point, 0, len(points))
	for i, p := range results {
		if val, ok := ev.cache[hashPoint(p)]; ok {
			results[i].Val = val
		} else {
			misses = append(misses, i)
			newp = append(newp, p)
		}
	}

	newresults, n, err := ev.ev.Eval(obj, newp...)
	for i, p := range newresults {
		ev.cache[hashPoint(p)] = p.Val
		results[misses[i]].Val = p.Val
	}

	if err != nil {
		if len(newresults) == 0 {
			return nil, n, err
		}
		// drop points past the failed evaluation
		return results[:misses[len(newresults)-1]+1], n, err
	}
	return results, n, nil
}
