// Package pop generates starting populations for swarm-style solvers.
package pop

import (
	"math"

	"github.com/petar/GoLLRB/llrb"
	"gonum.org/v1/gonum/mat"

	"github.com/twross/uopt"
	"github.com/twross/uopt/mesh"
)

// New generates n randomly positioned points in the boxed bounds defined by
// low and up.  The number of dimensions is equal to len(low).  Returned
// points have their values initialized to -infinity.  rng supplies the
// random stream; if nil, uopt.Rand is used.
func New(n int, low, up []float64, rng uopt.Rng) []uopt.Point {
	if len(low) != len(up) {
		panic("low and up vectors are not same length")
	}
	if rng == nil {
		rng = uopt.Rand
	}

	ndims := len(low)

	points := make([]uopt.Point, n)
	for i := 0; i < n; i++ {
		pos := make([]float64, ndims)
		for j := range pos {
			pos[j] = low[j] + rng.Float64()*(up[j]-low[j])
		}
		points[i] = uopt.NewPoint(pos, math.Inf(-1))
	}
	return points
}

// NewUnit generates n random points uniformly distributed over the unit box
// [0,1]^ndim.
func NewUnit(n, ndim int, rng uopt.Rng) []uopt.Point {
	low := make([]float64, ndim)
	up := make([]float64, ndim)
	for i := range up {
		up[i] = 1
	}
	return New(n, low, up, rng)
}

type item struct {
	uopt.Point
	howbad float64
}

func (p1 item) Less(than llrb.Item) bool {
	p2 := than.(item)
	return p1.howbad < p2.howbad
}

// NewConstr tries to generate a random population of n feasible points
// satisfying the linear constraints "low <= Ax <= up".  lb and ub define
// lower and upper box bounds for the variables.  NewConstr generates random
// points within the box bounds and keeps all feasible points.  It queues up
// the least unfavorable infeasible points in case n feasible ones cannot be
// found within maxiter.
func NewConstr(n, maxiter int, lb, ub []float64, low, A, up *mat.Dense, rng uopt.Rng) (points []uopt.Point, nbad, iter int) {
	stackA, b, ranges := mesh.StackConstr(low, A, up)
	if rng == nil {
		rng = uopt.Rand
	}

	_, ndims := A.Dims()

	violaters := llrb.New()
	points = make([]uopt.Point, 0, n)
	for i := 0; i < maxiter; i++ {
		// create point
		pos := make([]float64, ndims)
		for j := range pos {
			l, u := lb[j], ub[j]
			pos[j] = l + rng.Float64()*(u-l)
		}
		p := uopt.NewPoint(pos, math.Inf(-1))

		// check for constraint violations
		x := mat.NewDense(ndims, 1, p.Pos())
		var ax mat.Dense
		ax.Mul(stackA, x)
		m, _ := ax.Dims()
		howbad := 0.0
		for i := 0; i < m; i++ {
			if diff := ax.At(i, 0) - b.At(i, 0); diff > 0 {
				howbad += diff / ranges[i]
				break
			}
		}

		if howbad == 0 {
			points = append(points, p)
			if len(points) == n {
				return points, 0, i
			}
		} else {
			// add to tree
			violaters.InsertNoReplace(item{p, howbad})
			for violaters.Len() > n-len(points) {
				violaters.DeleteMax()
			}
		}
	}

	nbad = n - len(points)
	for len(points) < n {
		p := violaters.DeleteMin().(item).Point
		points = append(points, p)
	}

	return points, nbad, maxiter
}
