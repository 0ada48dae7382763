// Package encode maps between domain-unit parameter values and the
// normalized unit-box coordinates that solvers search over.  Solvers never
// see these mappings: they manipulate raw unit coordinates, and the caller
// owns the tables that give those coordinates meaning.
//
// A Space is an ordered list of dimensions.  An Interval occupies one
// coordinate and rescales it affinely onto [Low, High].  A Choice occupies
// one coordinate per level, one-hot style, and decodes by argmax.
package encode

import "github.com/cockroachdb/errors"

// ErrSpace is returned when a value or coordinate vector does not fit the
// space it is being encoded into or decoded from.
var ErrSpace = errors.New("value does not fit search space")

// Dim is one logical parameter occupying Width() consecutive unit-box
// coordinates.
type Dim interface {
	Width() int
}

// Interval is a continuous parameter on [Low, High], occupying a single
// unit coordinate via affine rescale.
type Interval struct {
	Low, High float64
}

func (iv Interval) Width() int { return 1 }

// Normalize maps v from [Low, High] onto [0, 1], clamping values outside
// the interval to the nearest end.
func (iv Interval) Normalize(v float64) float64 {
	x := (v - iv.Low) / (iv.High - iv.Low)
	if x < 0 {
		return 0
	} else if x > 1 {
		return 1
	}
	return x
}

// Denormalize maps a unit coordinate back into [Low, High].
func (iv Interval) Denormalize(x float64) float64 {
	return iv.Low + x*(iv.High-iv.Low)
}

// Choice is a categorical parameter occupying one unit coordinate per level.
type Choice struct {
	Levels []string
}

func (c Choice) Width() int { return len(c.Levels) }

// Decode returns the level whose coordinate is largest.  Ties resolve to the
// first occurrence in level order.
func (c Choice) Decode(x []float64) string {
	best := 0
	for i := 1; i < len(x); i++ {
		if x[i] > x[best] {
			best = i
		}
	}
	return c.Levels[best]
}

// Encode returns the one-hot indicator block for level.
func (c Choice) Encode(level string) ([]float64, error) {
	x := make([]float64, len(c.Levels))
	for i, l := range c.Levels {
		if l == level {
			x[i] = 1
			return x, nil
		}
	}
	return nil, errors.Wrapf(ErrSpace, "unknown level %q", level)
}

// Value is one decoded parameter: Num for Interval dimensions, Level for
// Choice dimensions.
type Value struct {
	Num   float64
	Level string
}

// Space is an ordered collection of dimensions laid out over consecutive
// unit-box coordinates.
type Space []Dim

// Width returns the total number of unit coordinates the space occupies.
func (s Space) Width() int {
	w := 0
	for _, d := range s {
		w += d.Width()
	}
	return w
}

// Decode splits x into per-dimension blocks and decodes each.
func (s Space) Decode(x []float64) ([]Value, error) {
	if len(x) != s.Width() {
		return nil, errors.Wrapf(ErrSpace, "vector len %v, space width %v", len(x), s.Width())
	}

	vals := make([]Value, len(s))
	for i, d := range s {
		block := x[:d.Width()]
		x = x[d.Width():]
		switch d := d.(type) {
		case Interval:
			vals[i] = Value{Num: d.Denormalize(block[0])}
		case Choice:
			vals[i] = Value{Level: d.Decode(block)}
		default:
			return nil, errors.Wrapf(ErrSpace, "unsupported dimension type %T", d)
		}
	}
	return vals, nil
}

// Encode concatenates the normalized blocks for vals.
func (s Space) Encode(vals []Value) ([]float64, error) {
	if len(vals) != len(s) {
		return nil, errors.Wrapf(ErrSpace, "%v values for %v dimensions", len(vals), len(s))
	}

	x := make([]float64, 0, s.Width())
	for i, d := range s {
		switch d := d.(type) {
		case Interval:
			x = append(x, d.Normalize(vals[i].Num))
		case Choice:
			block, err := d.Encode(vals[i].Level)
			if err != nil {
				return nil, err
			}
			x = append(x, block...)
		default:
			return nil, errors.Wrapf(ErrSpace, "unsupported dimension type %T", d)
		}
	}
	return x, nil
}
