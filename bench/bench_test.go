package bench

import (
	"math"
	"math/rand"
	"testing"

	"github.com/twross/uopt"
	"github.com/twross/uopt/swarm"
)

const (
	maxeval = 50000
	maxiter = 2000
)

const seed = 7

func TestScorer(t *testing.T) {
	fn := Ackley{}
	obj := Scorer(fn)

	// unit-box center decodes to the domain origin, the global minimum
	val, err := obj.Objective([]float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(val) > 1e-12 {
		t.Errorf("center of unit box scored %v, want 0 (negated optimum)", val)
	}

	// any other point scores strictly worse under maximization
	off, err := obj.Objective([]float64{0.7, 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if off >= val {
		t.Errorf("off-center score %v not worse than optimum score %v", off, val)
	}
}

func TestSpace(t *testing.T) {
	s := Space(Eggholder{})
	if s.Width() != 2 {
		t.Fatalf("space width %v, want 2", s.Width())
	}
	vals, err := s.Decode([]float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if vals[0].Num != -512 || vals[1].Num != 512 {
		t.Errorf("decoded corner (%v,%v), want (-512,512)", vals[0].Num, vals[1].Num)
	}
}

func TestBenchSwarm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping benchmark convergence runs in short mode")
	}

	nconv := 0
	for i, fn := range AllFuncs {
		low, _ := fn.Bounds()
		n := 30 + len(low)
		if n > maxeval/150 {
			n = maxeval / 150
		}

		it, err := swarm.NewIterator(swarm.Config{
			NParticles: n,
			NDims:      len(low),
			MaxIter:    maxiter,
			Rng:        rand.New(rand.NewSource(seed + int64(i))),
		})
		if err != nil {
			t.Fatal(err)
		}

		optimum := fn.Optima()[0].Val
		best, niter, neval, err := Benchmark(it, fn, .01, maxeval, maxiter)
		if neval > maxeval+n {
			t.Errorf("[FAIL:%v] overspent evaluation budget: %v", fn.Name(), neval)
		}
		if err != nil {
			t.Logf("[fail:%v] %v evals (%v iter): optimum is %v, got %v", fn.Name(), neval, niter, optimum, best.Val)
		} else {
			nconv++
			t.Logf("[pass:%v] %v evals (%v iter): optimum is %v, got %v", fn.Name(), neval, niter, optimum, best.Val)
		}
	}

	if nconv < 3 {
		t.Errorf("only %v of %v benchmark functions converged", nconv, len(AllFuncs))
	}
}

var benchBest uopt.Point

func BenchmarkSwarmAckley(b *testing.B) {
	for i := 0; i < b.N; i++ {
		it, err := swarm.NewIterator(swarm.Config{
			NParticles: 30,
			NDims:      2,
			MaxIter:    100,
			Rng:        rand.New(rand.NewSource(seed)),
		})
		if err != nil {
			b.Fatal(err)
		}
		best, _, _, _ := Benchmark(it, Ackley{}, .01, 10000, 100)
		benchBest = best
	}
}
