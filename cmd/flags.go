package cmd

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"

	"gridmc/util"
)

type Flags struct {
	Addr        string
	AllowOrigin string
	SavePath    string
	Seed        uint64

	Episodes  int
	Alpha     float64
	EvalEvery int
	NEval     int

	Alphas      []float64
	Parallelism int
}

func DefaultFlags() *Flags {
	return &Flags{
		Addr:        "localhost:8000",
		AllowOrigin: "http://localhost:5173",
		SavePath:    "results",
		Seed:        0,

		Episodes:  2000,
		Alpha:     0.1,
		EvalEvery: 100,
		NEval:     20,

		Alphas:      []float64{0.05, 0.1, 0.2, 0.5},
		Parallelism: 4,
	}
}

func (f *Flags) Record() error {
	return util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}

// ValidateTrain rejects out-of-range training parameters before the core
// runs; the core itself assumes well-formed input.
func (f *Flags) ValidateTrain() error {
	if f.Episodes < 1 {
		return fmt.Errorf("episodes must be at least 1, got %d", f.Episodes)
	}
	if f.Alpha <= 0 || f.Alpha > 1 {
		return fmt.Errorf("alpha must be in (0, 1], got %v", f.Alpha)
	}
	if f.EvalEvery < 1 {
		return fmt.Errorf("eval-every must be at least 1, got %d", f.EvalEvery)
	}
	if f.NEval < 1 {
		return fmt.Errorf("n-eval must be at least 1, got %d", f.NEval)
	}
	return nil
}

// ValidateCompare covers the compare command, which sweeps Alphas instead of
// the single Alpha flag.
func (f *Flags) ValidateCompare() error {
	if len(f.Alphas) == 0 {
		return fmt.Errorf("alphas must name at least one learning rate")
	}
	for _, a := range f.Alphas {
		if a <= 0 || a > 1 {
			return fmt.Errorf("alphas entries must be in (0, 1], got %v", a)
		}
	}
	if f.Episodes < 1 {
		return fmt.Errorf("episodes must be at least 1, got %d", f.Episodes)
	}
	if f.EvalEvery < 1 {
		return fmt.Errorf("eval-every must be at least 1, got %d", f.EvalEvery)
	}
	if f.NEval < 1 {
		return fmt.Errorf("n-eval must be at least 1, got %d", f.NEval)
	}
	return nil
}

var (
	flags = DefaultFlags()

	addr        string
	allowOrigin string
	savePath    string
	seed        uint64

	episodes  int
	alpha     float64
	evalEvery int
	nEval     int

	alphas      []float64
	parallelism int
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&addr, "addr", flags.Addr, "Address the HTTP server listens on")
	cmd.PersistentFlags().StringVar(&allowOrigin, "allow-origin", flags.AllowOrigin, "Origin allowed to call the HTTP API")
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")
	cmd.PersistentFlags().Uint64Var(&seed, "seed", flags.Seed, "Random seed (0 picks one from the clock)")

	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of training episodes")
	cmd.PersistentFlags().Float64Var(&alpha, "alpha", flags.Alpha, "Learning rate")
	cmd.PersistentFlags().IntVar(&evalEvery, "eval-every", flags.EvalEvery, "Episodes between greedy evaluations")
	cmd.PersistentFlags().IntVar(&nEval, "n-eval", flags.NEval, "Greedy episodes per evaluation")

	cmd.PersistentFlags().Float64SliceVar(&alphas, "alphas", flags.Alphas, "Learning rates to compare")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel experiment workers")
}

func UpdateFlags() {
	flags.Addr = addr
	flags.AllowOrigin = allowOrigin
	flags.SavePath = savePath
	flags.Seed = seed

	flags.Episodes = episodes
	flags.Alpha = alpha
	flags.EvalEvery = evalEvery
	flags.NEval = nEval

	flags.Alphas = alphas
	flags.Parallelism = parallelism
}
