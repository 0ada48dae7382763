package uopt

import (
	"math"
	"sort"
	"testing"

	"github.com/cockroachdb/errors"
)

const errcount = 3

// ErrObj fails on its errcount'th evaluation and every one after.
type ErrObj struct {
	count int
}

func (o *ErrObj) Objective(x []float64) (float64, error) {
	o.count++
	if o.count >= errcount {
		return math.Inf(-1), errors.New("fake error")
	}
	return 0, nil
}

func TestSerialEvalerErr(t *testing.T) {
	obj := &ErrObj{}
	ev := SerialEvaler{}

	results, n, err := ev.Eval(obj, Point{}, Point{}, Point{}, Point{}, Point{})
	if len(results) != errcount {
		t.Errorf("returned wrong number of results: expected %v, got %v", errcount, len(results))
	}
	if n != errcount {
		t.Errorf("returned wrong evaluation count: expected %v, got %v", errcount, n)
	}
	if err == nil {
		t.Errorf("did not propogate error through return")
	} else if !errors.Is(err, ErrEvalFail) {
		t.Errorf("error %v is not marked as an evaluation failure", err)
	}
}

func TestCacheEvaler(t *testing.T) {
	nevals := 0
	obj := Func(func(v []float64) float64 {
		nevals++
		return v[0]
	})

	ev := NewCacheEvaler(SerialEvaler{})
	points := []Point{
		NewPoint([]float64{0.25}, math.Inf(-1)),
		NewPoint([]float64{0.75}, math.Inf(-1)),
		NewPoint([]float64{0.25}, math.Inf(-1)),
	}

	results, n, err := ev.Eval(obj, points...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nevals != 2 {
		t.Errorf("objective called %v times, want 2 (one per unique position)", nevals)
	}
	if n != 2 {
		t.Errorf("reported %v evaluations, want 2", n)
	}
	if results[0].Val != 0.25 || results[1].Val != 0.75 || results[2].Val != 0.25 {
		t.Errorf("wrong values: %v, %v, %v", results[0].Val, results[1].Val, results[2].Val)
	}

	// second pass should be served entirely from cache
	_, n, err = ev.Eval(obj, points...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if nevals != 2 || n != 0 {
		t.Errorf("cache miss on revisit: nevals=%v n=%v", nevals, n)
	}
}

func TestParallelEvalerMatchesSerial(t *testing.T) {
	obj := Func(func(v []float64) float64 { return v[0] + 2*v[1] })

	points := []Point{
		NewPoint([]float64{0.1, 0.9}, math.Inf(-1)),
		NewPoint([]float64{0.5, 0.5}, math.Inf(-1)),
		NewPoint([]float64{0.9, 0.1}, math.Inf(-1)),
		NewPoint([]float64{0.0, 1.0}, math.Inf(-1)),
	}

	serial, _, err := SerialEvaler{}.Eval(obj, points...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	par, n, err := ParallelEvaler{NConcurrent: 2}.Eval(obj, points...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len(points) {
		t.Errorf("reported %v evaluations, want %v", n, len(points))
	}

	for i := range serial {
		if serial[i].Val != par[i].Val {
			t.Errorf("point %v: serial val %v != parallel val %v", i, serial[i].Val, par[i].Val)
		}
	}
}

func TestParallelEvalerErr(t *testing.T) {
	obj := Func(func(v []float64) float64 { return 0 })

	_, _, err := ParallelEvaler{}.Eval(alwaysFail{}, Point{}, Point{}, Point{}, Point{})
	if err == nil {
		t.Errorf("did not propogate error through return")
	} else if !errors.Is(err, ErrEvalFail) {
		t.Errorf("error %v is not marked as an evaluation failure", err)
	}

	if _, _, err := (ParallelEvaler{}).Eval(obj, Point{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

type alwaysFail struct{}

func (alwaysFail) Objective(x []float64) (float64, error) {
	return math.Inf(-1), errors.New("fake error")
}

func TestPointDefensiveCopies(t *testing.T) {
	pos := []float64{1, 2, 3}
	p := NewPoint(pos, 0)
	pos[0] = 99
	if p.At(0) != 1 {
		t.Errorf("NewPoint aliased its input slice")
	}

	got := p.Pos()
	sort.Float64s(got)
	got[0] = -1
	if p.At(0) != 1 {
		t.Errorf("Pos returned an aliased slice")
	}
}
