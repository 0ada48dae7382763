package uopt

import "github.com/cockroachdb/errors"

// ErrInvalidConfig is returned when a solver is constructed with parameters
// it cannot run with (non-positive population or dimension counts, negative
// iteration budgets).  It is detected before any objective evaluation.
var ErrInvalidConfig = errors.New("invalid solver configuration")

// ErrEvalFail marks objective evaluation failures.  Evaluation errors are
// fatal to a run: there is no meaningful notion of a skipped evaluation, so
// evalers propagate the first failure and solvers abort.
var ErrEvalFail = errors.New("objective evaluation failed")
