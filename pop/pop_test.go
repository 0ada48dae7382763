package pop

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	points := NewUnit(50, 4, rng)

	if len(points) != 50 {
		t.Fatalf("got %v points, want 50", len(points))
	}
	for i, p := range points {
		if p.Len() != 4 {
			t.Fatalf("point %v has %v dims, want 4", i, p.Len())
		}
		for j := 0; j < p.Len(); j++ {
			if v := p.At(j); v < 0 || v > 1 {
				t.Errorf("point %v coord %v = %v is outside the unit box", i, j, v)
			}
		}
	}
}

func TestNewConstr(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	n := 100
	maxiter := 100000
	lb := []float64{0, 0, 0, 0, 0}
	ub := []float64{100, 100, 100, 100, 100}

	// single linear constraint is: x1+x2 <= 10
	// this results in a
	// (10 / 100) * (10 / 100) * 1/2 chance == 0.005
	// that a random point will be feasible
	low := mat.NewDense(1, 1, []float64{0})
	up := mat.NewDense(1, 1, []float64{10})
	A := mat.NewDense(1, 5, []float64{1, 1, 0, 0, 0})
	prob := .005

	_, nbad, iter := NewConstr(n, maxiter, lb, ub, low, A, up, rng)

	if nbad > 0 {
		t.Errorf("got %v bad points", nbad)
	}
	if iter == n {
		t.Errorf("all initial random points were feasible - what?")
	}

	actual := float64(n) / float64(iter)
	if actual < prob/3 || actual > prob*3 {
		t.Errorf("expected around %v%% of points to be feasible, got %v%%", prob*100, actual*100)
	}

	t.Logf("took %v iterations, %v%% of points were feasible", iter, 100*actual)
}
