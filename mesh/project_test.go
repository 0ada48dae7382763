package mesh

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

type projtest struct {
	A    [][]float64
	b    []float64
	x0   []float64
	want []float64
}

func TestOrthoProj(t *testing.T) {
	eps := 1e-10
	var tests []projtest = []projtest{
		{
			A: [][]float64{
				{2, 1},
			},
			b:    []float64{2},
			x0:   []float64{1, 2},
			want: []float64{0.20, 1.60},
		},
	}

	n := 1000
	xmax := 10 * float64(n)

	A := [][]float64{make([]float64, n)}
	b := []float64{xmax}
	x0 := make([]float64, n)
	want := make([]float64, n)
	for i := range A[0] {
		A[0][i] = 1
		x0[i] = xmax
		want[i] = 10
	}
	bigtest := projtest{A: A, b: b, x0: x0, want: want}
	tests = append(tests, bigtest)

	for n, test := range tests {
		adata := []float64{}
		for _, vals := range test.A {
			adata = append(adata, vals...)
		}
		A := mat.NewDense(len(test.A), len(test.A[0]), adata)
		b := mat.NewDense(len(test.b), 1, test.b)
		got := OrthoProj(test.x0, A, b)

		for i := range got {
			if diff := math.Abs(got[i] - test.want[i]); diff > eps {
				t.Errorf("test %v proj[%v]: want %v, got %v", n, i, test.want[i], got[i])
			}
		}
	}
}

func TestNearestFeasible(t *testing.T) {
	eps := 1e-10

	// x + y <= 2, already feasible point stays put
	A := mat.NewDense(1, 2, []float64{1, 1})
	b := mat.NewDense(1, 1, []float64{2})

	got := NearestFeasible([]float64{0.5, 0.5}, A, b)
	want := []float64{0.5, 0.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("feasible point moved: proj[%v] want %v, got %v", i, want[i], got[i])
		}
	}

	// infeasible point projects onto the constraint plane
	got = NearestFeasible([]float64{2, 2}, A, b)
	want = []float64{1, 1}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("proj[%v]: want %v, got %v", i, want[i], got[i])
		}
	}
}

func TestStackConstr(t *testing.T) {
	low := mat.NewDense(1, 1, []float64{-1})
	up := mat.NewDense(1, 1, []float64{3})
	A := mat.NewDense(1, 2, []float64{1, 2})

	stackA, b, ranges := StackConstr(low, A, up)

	if m, _ := stackA.Dims(); m != 2 {
		t.Fatalf("stacked A has %v rows, want 2", m)
	}
	if got := stackA.At(1, 0); got != -1 {
		t.Errorf("stacked A[1,0]: want -1, got %v", got)
	}
	if got := b.At(0, 0); got != 3 {
		t.Errorf("b[0]: want 3, got %v", got)
	}
	if got := b.At(1, 0); got != 1 {
		t.Errorf("b[1]: want 1, got %v", got)
	}
	if len(ranges) != 2 || ranges[0] != 4 || ranges[1] != 4 {
		t.Errorf("ranges: want [4 4], got %v", ranges)
	}
}
