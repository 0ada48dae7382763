// Package uopt provides derivative-free optimization of black-box objectives
// over box-bounded search spaces.  Solvers operate on normalized coordinates;
// the encode subpackage maps between domain units and the unit box.
package uopt

import (
	"crypto/sha1"
	"encoding/binary"
	"math"
)

// Point is a position in the search space together with its objective value.
// Positions are defensively copied on the way in and out; the zero Point has
// zero length and value zero.
type Point struct {
	pos []float64
	Val float64
}

func NewPoint(pos []float64, val float64) Point {
	cpos := make([]float64, len(pos))
	copy(cpos, pos)
	return Point{pos: cpos, Val: val}
}

func (p Point) At(i int) float64 { return p.pos[i] }

func (p Point) Len() int { return len(p.pos) }

func (p Point) Pos() []float64 {
	pos := make([]float64, len(p.pos))
	copy(pos, p.pos)
	return pos
}

// Worst returns a point holding the worst possible objective value.  Solvers
// use it to seed best-so-far state so that comparisons are always defined.
func Worst() Point { return Point{Val: math.Inf(-1)} }

func hashPoint(p Point) [sha1.Size]byte {
	data := make([]byte, p.Len()*8)
	for i := 0; i < p.Len(); i++ {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(p.At(i)))
	}
	return sha1.Sum(data)
}
