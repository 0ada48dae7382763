// Package swarm implements particle swarm optimization over the normalized
// unit box [0,1]^NDims.  Each particle carries a position, a velocity, and
// the best position it has personally seen; the iterator owns the swarm-wide
// global best and advances all particles one generation at a time.
package swarm

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/twross/uopt"
	"github.com/twross/uopt/mesh"
	"github.com/twross/uopt/pop"
)

// These params are calculated using a constriction factor originally
// described in:
//
//	Clerc and M.  “The swarm and the queen: towards a deterministic and
//	adaptive particle swarm optimization” Proc. 1999 Congress on
//	Evolutionary Computation, pp. 1951-1957
//
// The cognition and social parameters correspond to c1 and c2 values of 2.05
// that have been multiplied by their constriction coefficient - i.e.
// DefaultSocial = Constriction(2.05, 2.05)*2.05.  DefaultInertia is set
// equal to the constriction coefficient.
const (
	DefaultCognition = 1.496179765663133
	DefaultSocial    = 1.496179765663133
	DefaultInertia   = 0.7298437881283576
)

const (
	// TblParticles is the name of the sql database table that contains
	// positions and values for particles for each iteration.
	TblParticles = "swarmparticles"
	// TblParticlesBest is the name of the sql database table that contains
	// each particle's personal best position at each iteration.
	TblParticlesBest = "swarmparticlesbest"
	// TblBest is the name of the sql database table that contains
	// the best position for the entire swarm at each iteration.
	TblBest = "swarmbest"
)

// Constriction calculates the constriction coefficient for the given c1 and
// c2 for the particle velocity equation:
//
//	v_next = k(v_curr + c1*rand*(p_personal-x) + c2*rand*(p_glob-x))
//
//	or
//
//	v_next = w*v_curr + b1*rand*(p_personal-x) + b2*rand*(p_glob-x)
//
//	(with constriction coefficient multiplied through)
//
// c1+c2 should usually be greater than (but close to) 4.  'w = k' is often
// referred to as the inertia in the traditional swarm equation.
func Constriction(c1, c2 float64) float64 {
	phi := c1 + c2
	return 2 / math.Abs(2-phi-math.Sqrt(phi*phi-4*phi))
}

// Config holds the run parameters for one swarm.  A Config is fixed for the
// lifetime of an optimization run.
type Config struct {
	// NParticles is the number of particles in the swarm.  Must be positive.
	NParticles int
	// NDims is the dimensionality of the unit-box search space.  Must be
	// positive.
	NDims int
	// MaxIter is the number of generations to run.  Zero is allowed and
	// reports the initialization-time best.
	MaxIter int
	// Cognition (c1) scales the pull of a particle toward its personal best.
	// Zero means DefaultCognition.
	Cognition float64
	// Social (c2) scales the pull of a particle toward the global best.
	// Zero means DefaultSocial.
	Social float64
	// Inertia (w) scales a particle's previous velocity.  Zero means
	// DefaultInertia.
	Inertia float64
	// Rng supplies every random draw the swarm makes.  Nil means uopt.Rand.
	// Pass a freshly seeded generator for reproducible runs.
	Rng uopt.Rng
}

func (c Config) Validate() error {
	if c.NParticles < 1 {
		return errors.Wrapf(uopt.ErrInvalidConfig, "particle count %v < 1", c.NParticles)
	}
	if c.NDims < 1 {
		return errors.Wrapf(uopt.ErrInvalidConfig, "dimension count %v < 1", c.NDims)
	}
	if c.MaxIter < 0 {
		return errors.Wrapf(uopt.ErrInvalidConfig, "iteration count %v < 0", c.MaxIter)
	}
	return nil
}

type Particle struct {
	Id int
	uopt.Point
	Vel  []float64
	Best uopt.Point
}

// Move updates the particle's velocity and position.  A single r1 and a
// single r2 are drawn per call and shared across all dimensions (scalar
// coefficient form, not per-dimension stochasticity).  The new position's
// value is reset pending evaluation.
func (p *Particle) Move(gbest uopt.Point, inertia, cognition, social float64, rng uopt.Rng) {
	r1 := rng.Float64()
	r2 := rng.Float64()

	for i, currv := range p.Vel {
		p.Vel[i] = inertia*currv +
			cognition*r1*(p.Best.At(i)-p.At(i)) +
			social*r2*(gbest.At(i)-p.At(i))
	}

	pos := make([]float64, p.Len())
	for i := range pos {
		pos[i] = p.At(i) + p.Vel[i]
	}
	p.Point = uopt.NewPoint(pos, math.Inf(-1))
}

// Update records the evaluated point, replacing the personal best only on
// strict improvement - ties keep the existing best.
func (p *Particle) Update(newp uopt.Point) {
	p.Val = newp.Val
	if p.Val > p.Best.Val {
		p.Best = newp
	}
}

type Population []*Particle

// NewPopulation initializes a population of particles at the given points
// with zero velocities.
func NewPopulation(points []uopt.Point) Population {
	swarm := make(Population, len(points))
	for i, p := range points {
		swarm[i] = &Particle{
			Id:    i,
			Point: p,
			Best:  p,
			Vel:   make([]float64, p.Len()),
		}
	}
	return swarm
}

// NewPopulationRand creates a population of n particles positioned uniformly
// at random in the unit box [0,1]^ndim with zero velocities.
func NewPopulationRand(n, ndim int, rng uopt.Rng) Population {
	return NewPopulation(pop.NewUnit(n, ndim, rng))
}

func (swarm Population) Points() []uopt.Point {
	points := make([]uopt.Point, 0, len(swarm))
	for _, p := range swarm {
		points = append(points, p.Point)
	}
	return points
}

// Best returns the particle whose personal best is highest.  Ties resolve to
// the first occurrence in iteration order.
func (swarm Population) Best() *Particle {
	if len(swarm) == 0 {
		return nil
	}

	best := swarm[0]
	for _, p := range swarm[1:] {
		if p.Best.Val > best.Best.Val {
			best = p
		}
	}
	return best
}

type Option func(*Iterator)

// DB records per-iteration particle state and the running global best to
// sqlite tables for later inspection and plotting.
func DB(db *sql.DB) Option {
	return func(it *Iterator) {
		it.Db = db
	}
}

// Evaler sets the evaluation strategy for initialization and per-generation
// objective calls.
func Evaler(e uopt.Evaler) Option {
	return func(it *Iterator) {
		it.Evaler = e
	}
}

// Logger sets the logger used for per-generation progress events.
func Logger(log zerolog.Logger) Option {
	return func(it *Iterator) {
		it.Log = log
	}
}

// Iterator advances a particle swarm one generation per Iterate call.  It
// implements uopt.Iterator.
type Iterator struct {
	Cfg Config
	Pop Population
	uopt.Evaler
	Log zerolog.Logger
	Db  *sql.DB

	rng   uopt.Rng
	box   *mesh.Bounded
	count int
	best  uopt.Point
}

// NewIterator builds a swarm iterator from cfg, sampling the initial
// population.  It fails with uopt.ErrInvalidConfig before any objective
// evaluation if cfg is unrunnable.  The global best is seeded to the worst
// possible point and becomes well-defined during Init's evaluation pass.
func NewIterator(cfg Config, opts ...Option) (*Iterator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Cognition == 0 {
		cfg.Cognition = DefaultCognition
	}
	if cfg.Social == 0 {
		cfg.Social = DefaultSocial
	}
	if cfg.Inertia == 0 {
		cfg.Inertia = DefaultInertia
	}
	if cfg.Rng == nil {
		cfg.Rng = uopt.Rand
	}

	it := &Iterator{
		Cfg:    cfg,
		Pop:    NewPopulationRand(cfg.NParticles, cfg.NDims, cfg.Rng),
		Evaler: uopt.SerialEvaler{},
		Log:    zerolog.Nop(),
		rng:    cfg.Rng,
		box:    mesh.Unit(cfg.NDims),
		best:   uopt.Worst(),
	}

	for _, opt := range opts {
		opt(it)
	}

	if err := it.initdb(); err != nil {
		return nil, err
	}
	return it, nil
}

// Box returns the unit-box mesh the swarm clamps positions onto.
func (it *Iterator) Box() mesh.Mesh { return it.box }

// Best returns the current global best point.
func (it *Iterator) Best() uopt.Point { return it.best }

// AddPoint offers an externally discovered point; the swarm adopts it as the
// global best if it is a strict improvement.
func (it *Iterator) AddPoint(p uopt.Point) {
	if p.Val > it.best.Val {
		it.best = p
	}
}

// Init evaluates every particle's starting position - exactly NParticles
// objective calls - seeding personal bests and the global best.  After a
// successful Init the global best is always defined, even if no particle
// ever improves again.
func (it *Iterator) Init(obj uopt.Objectiver) (best uopt.Point, n int, err error) {
	results, n, err := it.Evaler.Eval(obj, it.Pop.Points()...)
	if err != nil {
		return uopt.Worst(), n, err
	}

	for i, p := range results {
		it.Pop[i].Point = p
		it.Pop[i].Best = p
		if p.Val > it.best.Val {
			it.best = p
		}
	}

	if err := it.updateDb(); err != nil {
		return uopt.Worst(), n, err
	}
	it.Log.Debug().Int("nparticles", len(it.Pop)).Float64("best", it.best.Val).
		Msg("swarm initialized")
	return it.best, n, nil
}

// Iterate advances the swarm one generation.  Particles are processed
// sequentially in index order and the global best is updated per particle,
// so a particle later in the order reacts to improvements made earlier in
// the same generation.  Each particle moves, is clamped into the unit box
// (coordinates are truncated to the nearest bound, not reflected), is
// evaluated, and then updates its personal best and the global best under
// strict improvement.  The first evaluation error aborts the generation.
func (it *Iterator) Iterate(obj uopt.Objectiver, m mesh.Mesh) (best uopt.Point, neval int, err error) {
	it.count++
	if m == nil {
		m = it.box
	}

	for _, p := range it.Pop {
		p.Move(it.best, it.Cfg.Inertia, it.Cfg.Cognition, it.Cfg.Social, it.rng)
		p.Point = uopt.NewPoint(m.Nearest(p.Pos()), math.Inf(-1))

		results, n, err := it.Evaler.Eval(obj, p.Point)
		neval += n
		if err != nil {
			return uopt.Worst(), neval, err
		}

		p.Update(results[0])
		if p.Best.Val > it.best.Val {
			it.best = p.Best
		}
	}

	if err := it.updateDb(); err != nil {
		return uopt.Worst(), neval, err
	}
	it.Log.Debug().Int("iter", it.count).Float64("best", it.best.Val).
		Msg("generation complete")
	return it.best, neval, nil
}

func (it *Iterator) initdb() error {
	if it.Db == nil {
		return nil
	}

	stmts := []string{
		"CREATE TABLE IF NOT EXISTS " + TblParticles + " (particle INTEGER, iter INTEGER, val REAL" + it.xdbsql("define") + ");",
		"CREATE TABLE IF NOT EXISTS " + TblParticlesBest + " (particle INTEGER, iter INTEGER, best REAL" + it.xdbsql("define") + ");",
		"CREATE TABLE IF NOT EXISTS " + TblBest + " (iter INTEGER, val REAL" + it.xdbsql("define") + ");",
	}
	for _, s := range stmts {
		if _, err := it.Db.Exec(s); err != nil {
			return errors.Wrap(err, "creating swarm tables")
		}
	}
	return nil
}

func (it *Iterator) xdbsql(op string) string {
	s := ""
	for i := 0; i < it.Cfg.NDims; i++ {
		switch op {
		case "?":
			s += ",?"
		case "define":
			s += fmt.Sprintf(",x%v REAL", i)
		case "x":
			s += fmt.Sprintf(",x%v", i)
		default:
			panic("invalid db op " + op)
		}
	}
	return s
}

func pos2iface(pos []float64) []interface{} {
	iface := []interface{}{}
	for _, v := range pos {
		iface = append(iface, v)
	}
	return iface
}

func (it *Iterator) updateDb() error {
	if it.Db == nil {
		return nil
	}

	tx, err := it.Db.Begin()
	if err != nil {
		return errors.Wrap(err, "recording swarm iteration")
	}

	s0 := "INSERT INTO " + TblParticles + " (particle,iter,val" + it.xdbsql("x") + ") VALUES (?,?,?" + it.xdbsql("?") + ");"
	s1 := "INSERT INTO " + TblParticlesBest + " (particle,iter,best" + it.xdbsql("x") + ") VALUES (?,?,?" + it.xdbsql("?") + ");"
	for _, p := range it.Pop {
		args := []interface{}{p.Id, it.count, p.Val}
		args = append(args, pos2iface(p.Pos())...)
		if _, err := tx.Exec(s0, args...); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "recording swarm iteration")
		}

		args = []interface{}{p.Id, it.count, p.Best.Val}
		args = append(args, pos2iface(p.Best.Pos())...)
		if _, err := tx.Exec(s1, args...); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "recording swarm iteration")
		}
	}

	s2 := "INSERT INTO " + TblBest + " (iter,val" + it.xdbsql("x") + ") VALUES (?,?" + it.xdbsql("?") + ");"
	args := []interface{}{it.count, it.best.Val}
	args = append(args, pos2iface(it.best.Pos())...)
	if _, err := tx.Exec(s2, args...); err != nil {
		tx.Rollback()
		return errors.Wrap(err, "recording swarm iteration")
	}

	return errors.Wrap(tx.Commit(), "recording swarm iteration")
}

// Solve builds a ready-to-run Solver around a swarm iterator: cfg.MaxIter
// generations over the unit box.  Callers run it and read Best, History,
// and Err:
//
//	s, err := swarm.Solve(cfg, obj)
//	if err != nil { ... }
//	if err := s.Run(); err != nil { ... }
//	best, hist := s.Best(), s.History()
func Solve(cfg Config, obj uopt.Objectiver, opts ...Option) (*uopt.Solver, error) {
	it, err := NewIterator(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &uopt.Solver{
		Iter:    it,
		Obj:     obj,
		Mesh:    it.Box(),
		MaxIter: cfg.MaxIter,
	}, nil
}
