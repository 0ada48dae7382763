// Package pattern implements compass pattern search: poll +/- step along
// each axis from the current best, expand on success, contract on failure.
// It is a cheap deterministic companion to the swarm package for smooth
// objectives.
package pattern

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/twross/uopt"
	"github.com/twross/uopt/mesh"
)

// ErrZeroStep is returned when the poll step contracts below MinStep.  The
// search cannot make further progress; callers typically treat it as
// convergence.
var ErrZeroStep = errors.New("poll step size contracted to zero")

const (
	DefaultStep    = 0.25
	DefaultMinStep = 1e-10
)

type Option func(*Iterator)

// Step sets the initial poll step size.
func Step(step float64) Option {
	return func(it *Iterator) {
		it.Step = step
	}
}

// MinStep sets the step size below which the search stops with ErrZeroStep.
func MinStep(min float64) Option {
	return func(it *Iterator) {
		it.MinStep = min
	}
}

// NsuccessGrow sets the number of successive successful polls before the
// step size is doubled.  Negative (the default) means never grow.
func NsuccessGrow(n int) Option {
	return func(it *Iterator) {
		it.NsuccessGrow = n
	}
}

// Evaler sets the evaluation strategy used for poll batches.
func Evaler(e uopt.Evaler) Option {
	return func(it *Iterator) {
		it.ev = e
	}
}

// Iterator polls the compass directions around its current point.  It
// implements uopt.Iterator.
type Iterator struct {
	Curr         uopt.Point
	Step         float64
	MinStep      float64
	NsuccessGrow int

	ev       uopt.Evaler
	nsuccess int
	count    int
}

// NewIterator starts a compass search from the given position.  The start's
// objective value is established by Init.
func NewIterator(start []float64, opts ...Option) (*Iterator, error) {
	if len(start) < 1 {
		return nil, errors.Wrap(uopt.ErrInvalidConfig, "empty start position")
	}

	it := &Iterator{
		Curr:         uopt.NewPoint(start, math.Inf(-1)),
		Step:         DefaultStep,
		MinStep:      DefaultMinStep,
		NsuccessGrow: -1,
		ev:           uopt.SerialEvaler{},
	}
	for _, opt := range opts {
		opt(it)
	}
	return it, nil
}

// Init evaluates the starting position (one objective call).
func (it *Iterator) Init(obj uopt.Objectiver) (best uopt.Point, n int, err error) {
	results, n, err := it.ev.Eval(obj, it.Curr)
	if err != nil {
		return uopt.Worst(), n, err
	}
	it.Curr = results[0]
	return it.Curr, n, nil
}

func (it *Iterator) AddPoint(p uopt.Point) {
	if p.Val > it.Curr.Val {
		it.Curr = p
	}
}

// Iterate polls +/- Step along every axis, projecting each candidate through
// m.  On strict improvement the best candidate becomes the current point; on
// a failed poll the step halves.  Iterate returns ErrZeroStep when the step
// falls below MinStep.
func (it *Iterator) Iterate(obj uopt.Objectiver, m mesh.Mesh) (best uopt.Point, n int, err error) {
	it.count++

	pollpoints := make([]uopt.Point, 0, 2*it.Curr.Len())
	for i := 0; i < it.Curr.Len(); i++ {
		for _, dir := range []float64{1, -1} {
			pos := it.Curr.Pos()
			pos[i] += dir * it.Step
			if m != nil {
				pos = m.Nearest(pos)
			}
			pollpoints = append(pollpoints, uopt.NewPoint(pos, math.Inf(-1)))
		}
	}

	results, n, err := it.ev.Eval(obj, pollpoints...)
	if err != nil {
		return it.Curr, n, err
	}

	best = it.Curr
	for _, p := range results {
		if p.Val > best.Val {
			best = p
		}
	}

	if best.Val > it.Curr.Val {
		it.Curr = best
		it.nsuccess++
		if it.nsuccess == it.NsuccessGrow { // == allows -1 to mean never grow
			it.Step *= 2.0
			it.nsuccess = 0 // reset after resize
		}
		return it.Curr, n, nil
	}

	it.nsuccess = 0
	it.Step *= 0.5
	if it.Step < it.MinStep {
		return it.Curr, n, ErrZeroStep
	}
	return it.Curr, n, nil
}
