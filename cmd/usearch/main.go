// Command usearch runs the swarm solver against a named benchmark function
// and prints the best point found.
package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mxk/go-sqlite/sqlite3"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/twross/uopt"
	"github.com/twross/uopt/bench"
	"github.com/twross/uopt/swarm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "usearch",
		Short:         "particle swarm search over benchmark objectives",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().String("func", "Ackley", "benchmark function name")
	cmd.Flags().Int("particles", 30, "number of particles")
	cmd.Flags().Int("iters", 500, "number of generations")
	cmd.Flags().Float64("c1", swarm.DefaultCognition, "cognitive coefficient")
	cmd.Flags().Float64("c2", swarm.DefaultSocial, "social coefficient")
	cmd.Flags().Float64("inertia", swarm.DefaultInertia, "inertia weight")
	cmd.Flags().Int64("seed", 0, "random seed (0 means time-based)")
	cmd.Flags().String("db", "", "sqlite file to record iteration history to")
	cmd.Flags().String("config", "", "optional config file with the same keys as the flags")
	cmd.Flags().BoolP("verbose", "v", false, "log every generation and evaluation")

	viper.BindPFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if cfgfile := viper.GetString("config"); cfgfile != "" {
		viper.SetConfigFile(cfgfile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.Wrap(err, "reading config file")
		}
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if viper.GetBool("verbose") {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	fn, err := lookup(viper.GetString("func"))
	if err != nil {
		return err
	}

	seed := viper.GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	low, _ := fn.Bounds()
	cfg := swarm.Config{
		NParticles: viper.GetInt("particles"),
		NDims:      len(low),
		MaxIter:    viper.GetInt("iters"),
		Cognition:  viper.GetFloat64("c1"),
		Social:     viper.GetFloat64("c2"),
		Inertia:    viper.GetFloat64("inertia"),
		Rng:        rand.New(rand.NewSource(seed)),
	}

	opts := []swarm.Option{swarm.Logger(log)}
	if path := viper.GetString("db"); path != "" {
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			return errors.Wrap(err, "opening sqlite db")
		}
		defer db.Close()
		opts = append(opts, swarm.DB(db))
	}

	obj := uopt.Objectiver(bench.Scorer(fn))
	if viper.GetBool("verbose") {
		obj = uopt.NewObjectiveLogger(obj, log)
	}

	s, err := swarm.Solve(cfg, obj, opts...)
	if err != nil {
		return err
	}

	log.Info().Str("func", fn.Name()).Int64("seed", seed).
		Int("particles", cfg.NParticles).Int("iters", cfg.MaxIter).
		Msg("starting swarm")

	start := time.Now()
	if err := s.Run(); err != nil {
		return err
	}

	best := s.Best()
	vals, err := bench.Space(fn).Decode(best.Pos())
	if err != nil {
		return err
	}
	pos := make([]float64, len(vals))
	for i := range vals {
		pos[i] = vals[i].Num
	}

	log.Info().Dur("elapsed", time.Since(start)).Int("nevals", s.Neval()).
		Msg("swarm finished")
	fmt.Printf("best value: %v\n", -best.Val)
	fmt.Printf("best position: %v\n", pos)
	fmt.Printf("known optimum: %+v\n", fn.Optima()[0].Pos())
	return nil
}

func lookup(name string) (bench.Func, error) {
	names := make([]string, 0, len(bench.AllFuncs))
	for _, fn := range bench.AllFuncs {
		if strings.EqualFold(fn.Name(), name) {
			return fn, nil
		}
		names = append(names, fn.Name())
	}
	return nil, errors.Newf("unknown function %q (have %v)", name, strings.Join(names, ", "))
}
