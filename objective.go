package uopt

import "github.com/rs/zerolog"

type Objectiver interface {
	// Objective evaluates the variables in v and returns the objective
	// function value.  The objective function must be framed so that higher
	// values are better.  If the evaluation fails, negative infinity should
	// be returned along with an error.  Objective must not mutate v.
	Objective(v []float64) (float64, error)
}

// Func adapts a plain scoring function into an Objectiver.
type Func func([]float64) float64

func (f Func) Objective(v []float64) (float64, error) { return f(v), nil }

// ObjectiveLogger wraps an Objectiver and emits one log event per
// evaluation.  Useful for watching a solver poke around the search space.
type ObjectiveLogger struct {
	Objectiver
	Log   zerolog.Logger
	count int
}

func NewObjectiveLogger(obj Objectiver, log zerolog.Logger) *ObjectiveLogger {
	return &ObjectiveLogger{Objectiver: obj, Log: log}
}

func (ol *ObjectiveLogger) Objective(v []float64) (float64, error) {
	val, err := ol.Objectiver.Objective(v)

	ol.count++
	ev := ol.Log.Debug().Int("neval", ol.count).Floats64("pos", v).Float64("val", val)
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("objective evaluated")

	return val, err
}
