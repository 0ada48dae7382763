package uopt

import "math/rand"

// Rand is the default random number stream used by components that aren't
// given an explicit one.  Reassign (or reseed) it before building solvers to
// make whole runs reproducible.
var Rand Rng = rand.New(rand.NewSource(1))

type Rng interface {
	Float64() float64
}

func RandFloat() float64 { return Rand.Float64() }
