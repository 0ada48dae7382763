package uopt

import (
	"context"

	"github.com/twross/uopt/mesh"
)

type Iterator interface {
	// Init performs the iterator's initialization pass: it evaluates the
	// starting candidate(s), seeds all best-so-far state, and reports the
	// starting best point and the number of objective evaluations n.  After
	// Init returns successfully the iterator's best is always defined.
	Init(obj Objectiver) (best Point, n int, err error)

	// Iterate runs a single iteration of a solver and reports the number of
	// function evaluations n and the best point.
	Iterate(obj Objectiver, m mesh.Mesh) (best Point, n int, err error)

	// AddPoint offers an externally discovered point to the iterator, which
	// adopts it as its best if it is an improvement.
	AddPoint(p Point)
}

// Solver drives an Iterator against an objective:
//
//	s := &uopt.Solver{Iter: it, Obj: obj, Mesh: m, MaxIter: 100}
//	for s.Next() {
//	}
//	best, hist, err := s.Best(), s.History(), s.Err()
//
// The iterator's initialization evaluations happen lazily before the first
// iteration (or on the first call to Best), so a solver with MaxIter == 0
// still reports the initialization-time best and an empty history.
type Solver struct {
	Iter Iterator
	Obj  Objectiver
	Mesh mesh.Mesh
	// MaxIter is the number of iterations to run.  Zero runs none.
	MaxIter int
	// MaxEval caps total objective evaluations.  Zero means no cap.
	MaxEval int

	best     Point
	hist     []float64
	neval    int
	niter    int
	err      error
	initdone bool
}

func (s *Solver) init() {
	if s.initdone {
		return
	}
	s.initdone = true
	s.best = Worst()

	best, n, err := s.Iter.Init(s.Obj)
	s.neval += n
	if err != nil {
		s.err = err
		return
	}
	s.best = best
}

// Next runs one more iteration, returning false when the iteration or
// evaluation budget is exhausted or an error has occurred.
func (s *Solver) Next() bool {
	s.init()
	if s.err != nil {
		return false
	}
	if s.niter >= s.MaxIter {
		return false
	}
	if s.MaxEval > 0 && s.neval >= s.MaxEval {
		return false
	}

	best, n, err := s.Iter.Iterate(s.Obj, s.Mesh)
	s.neval += n
	if err != nil {
		s.err = err
		return false
	}

	s.niter++
	s.best = best
	s.hist = append(s.hist, best.Val)
	return true
}

// Run iterates until Next returns false.
func (s *Solver) Run() error {
	for s.Next() {
	}
	return s.err
}

// RunContext is Run with a cooperative cancellation check between
// iterations.  A run that completes is unaffected by the context.
func (s *Solver) RunContext(ctx context.Context) error {
	for s.Next() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	return s.err
}

// Best returns the best point found so far (the initialization best if no
// iterations have run).
func (s *Solver) Best() Point {
	s.init()
	return s.best
}

// History returns the best objective value after each completed iteration.
// The sequence is append-only and non-decreasing; its length equals Niter().
func (s *Solver) History() []float64 { return s.hist }

func (s *Solver) Niter() int { return s.niter }

func (s *Solver) Neval() int { return s.neval }

func (s *Solver) Err() error { return s.err }
