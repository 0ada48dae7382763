// Package bench provides tools for testing solvers against benchmark
// optimization functions from
// http://en.wikipedia.org/wiki/Test_functions_for_optimization.
//
// The functions are classic minimization problems in their own domain
// units; Scorer exposes them to unit-box solvers by decoding normalized
// coordinates through encode.Interval ranges and negating the value.
package bench

import (
	"fmt"
	"math"

	"github.com/twross/uopt"
	"github.com/twross/uopt/encode"
	"github.com/twross/uopt/mesh"
)

var (
	sin  = math.Sin
	cos  = math.Cos
	abs  = math.Abs
	exp  = math.Exp
	sqrt = math.Sqrt
)

var AllFuncs = []Func{
	Ackley{},
	CrossTray{},
	Eggholder{},
	HolderTable{},
	Schaffer2{},
	Styblinski{NDim: 1},
	Styblinski{NDim: 10},
	Rosenbrock{NDim: 2},
	Rosenbrock{NDim: 10},
}

type Func interface {
	Eval(v []float64) float64
	Bounds() (low, up []float64)
	Optima() []uopt.Point
	Name() string
}

// Space returns the encode.Space mapping fn's box bounds onto the unit box.
func Space(fn Func) encode.Space {
	low, up := fn.Bounds()
	s := make(encode.Space, len(low))
	for i := range low {
		s[i] = encode.Interval{Low: low[i], High: up[i]}
	}
	return s
}

// Scorer adapts fn into a unit-box maximization objective: unit coordinates
// are decoded into domain units and the function value is negated, so the
// classic minimization optima become the targets.
func Scorer(fn Func) uopt.Objectiver {
	space := Space(fn)
	return uopt.Func(func(x []float64) float64 {
		vals, err := space.Decode(x)
		if err != nil {
			return math.Inf(-1)
		}
		v := make([]float64, len(vals))
		for i := range vals {
			v[i] = vals[i].Num
		}
		return -fn.Eval(v)
	})
}

type Ackley struct{}

func (fn Ackley) Name() string { return "Ackley" }

func (fn Ackley) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -20*math.Exp(-0.2*math.Sqrt(0.5*(x*x+y*y))) -
		math.Exp(0.5*(math.Cos(2*math.Pi*x)+math.Cos(2*math.Pi*y))) +
		20 + math.E
}

func (fn Ackley) Bounds() (low, up []float64) {
	return []float64{-5, -5}, []float64{5, 5}
}

func (fn Ackley) Optima() []uopt.Point {
	return []uopt.Point{
		uopt.NewPoint([]float64{0, 0}, 0),
	}
}

type CrossTray struct{}

func (fn CrossTray) Name() string { return "CrossTray" }

func (fn CrossTray) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -.0001 * math.Pow(abs(sin(x)*sin(y)*exp(abs(100-sqrt(x*x+y*y)/math.Pi)))+1, 0.1)
}

func (fn CrossTray) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn CrossTray) Optima() []uopt.Point {
	return []uopt.Point{
		uopt.NewPoint([]float64{1.34941, -1.34941}, -2.06261),
		uopt.NewPoint([]float64{1.34941, 1.34941}, -2.06261),
		uopt.NewPoint([]float64{-1.34941, 1.34941}, -2.06261),
		uopt.NewPoint([]float64{-1.34941, -1.34941}, -2.06261),
	}
}

type Eggholder struct{}

func (fn Eggholder) Name() string { return "Eggholder" }

func (fn Eggholder) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -(y+47)*sin(sqrt(abs(y+x/2+47))) - x*sin(sqrt(abs(x-(y+47))))
}

func (fn Eggholder) Bounds() (low, up []float64) {
	return []float64{-512, -512}, []float64{512, 512}
}

func (fn Eggholder) Optima() []uopt.Point {
	return []uopt.Point{
		uopt.NewPoint([]float64{512, 404.2319}, -959.6407),
	}
}

type HolderTable struct{}

func (fn HolderTable) Name() string { return "HolderTable" }

func (fn HolderTable) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -abs(sin(x) * cos(y) * exp(abs(1-sqrt(x*x+y*y)/math.Pi)))
}

func (fn HolderTable) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn HolderTable) Optima() []uopt.Point {
	return []uopt.Point{
		uopt.NewPoint([]float64{8.05502, 9.66459}, -19.2085),
		uopt.NewPoint([]float64{-8.05502, 9.66459}, -19.2085),
		uopt.NewPoint([]float64{8.05502, -9.66459}, -19.2085),
		uopt.NewPoint([]float64{-8.05502, -9.66459}, -19.2085),
	}
}

type Schaffer2 struct{}

func (fn Schaffer2) Name() string { return "Schaffer2" }

func (fn Schaffer2) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return 0.5 + (math.Pow(sin(x*x-y*y), 2)-0.5)/math.Pow(1+.0001*(x*x+y*y), 2)
}

func (fn Schaffer2) Bounds() (low, up []float64) {
	return []float64{-100, -100}, []float64{100, 100}
}

func (fn Schaffer2) Optima() []uopt.Point {
	return []uopt.Point{
		uopt.NewPoint([]float64{0, 0}, 0),
	}
}

type Styblinski struct {
	NDim int
}

func (fn Styblinski) Name() string { return fmt.Sprintf("Styblinski_%vD", fn.NDim) }

func (fn Styblinski) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for _, v := range x {
		tot += math.Pow(v, 4) - 16*math.Pow(v, 2) + 5*v
	}
	return tot / 2
}

func (fn Styblinski) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -5
		up[i] = 5
	}
	return low, up
}

func (fn Styblinski) Optima() []uopt.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = -2.903534
	}
	return []uopt.Point{
		uopt.NewPoint(pos, -39.16599*float64(fn.NDim)),
	}
}

type Rosenbrock struct {
	NDim int
}

func (fn Rosenbrock) Name() string { return fmt.Sprintf("Rosenbrock_%vD", fn.NDim) }

func (fn Rosenbrock) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for i := 0; i < fn.NDim-1; i++ {
		tot += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(x[i]-1, 2)
	}
	return tot
}

func (fn Rosenbrock) Bounds() (low, up []float64) {
	low = make([]float64, fn.NDim)
	up = make([]float64, fn.NDim)
	for i := range low {
		low[i] = -10
		up[i] = 10
	}
	return low, up
}

func (fn Rosenbrock) Optima() []uopt.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 1
	}
	return []uopt.Point{
		uopt.NewPoint(pos, 0),
	}
}

// Benchmark drives it against fn until the known optimum is matched within
// tol (relative) or the iteration/evaluation budgets run out.  The returned
// point is in fn's domain units with Val set to fn's (minimization) value.
func Benchmark(it uopt.Iterator, fn Func, tol float64, maxeval, maxiter int) (best uopt.Point, niter, neval int, err error) {
	low, _ := fn.Bounds()
	space := Space(fn)

	s := &uopt.Solver{
		Iter:    it,
		Obj:     Scorer(fn),
		Mesh:    mesh.Unit(len(low)),
		MaxIter: maxiter,
		MaxEval: maxeval,
	}

	optimum := fn.Optima()[0].Val
	thresh := tol * abs(optimum)
	if 0.001 > thresh {
		thresh = 0.001
	}

	for s.Next() {
		if abs(optimum-(-s.Best().Val)) < thresh {
			break
		}
	}

	ubest := s.Best()
	vals, derr := space.Decode(ubest.Pos())
	if derr != nil {
		return uopt.Worst(), s.Niter(), s.Neval(), derr
	}
	pos := make([]float64, len(vals))
	for i := range vals {
		pos[i] = vals[i].Num
	}
	best = uopt.NewPoint(pos, -ubest.Val)

	if err := s.Err(); err != nil {
		return best, s.Niter(), s.Neval(), err
	}
	if abs(optimum-best.Val) > thresh {
		return best, s.Niter(), s.Neval(), fmt.Errorf("%v: optimum %v not reached: got %v", fn.Name(), optimum, best.Val)
	}
	return best, s.Niter(), s.Neval(), nil
}

func InsideBounds(p []float64, fn Func) bool {
	low, up := fn.Bounds()
	for i := range p {
		if p[i] < low[i] || p[i] > up[i] {
			return false
		}
	}
	return true
}
