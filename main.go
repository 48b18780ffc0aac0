package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wildfunctions/symbolic_power/pkg/engine"
	"github.com/wildfunctions/symbolic_power/pkg/expr"
	"github.com/wildfunctions/symbolic_power/pkg/ntheory"
	"github.com/wildfunctions/symbolic_power/pkg/pool"
)

var (
	verbose bool
	logger  *zap.Logger

	configPath string
	cfg        = engine.DefaultConfig()
	noShrink   bool
)

var rootCmd = &cobra.Command{
	Use:   "symbolic_power",
	Short: "Symbolic exponentiation kernel with a property checker",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		expr.SetLogger(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	SilenceUsage: true,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check canonicalization properties on random expressions",
	Long: `Builds random expression trees from a pool and checks, at sampled
points that respect the symbols' assumptions:

  value              canonical form equals the construction as written
  idempotent         rebuilding a canonical form changes nothing
  expand, numer-denom, content-primitive, real-imag
                     rewrites and decompositions keep the value
  subs               exact substitution agrees with evaluation
  diff               derivatives agree with finite differences
  facts              deduced assumptions hold numerically

Failing trees are shrunk to a small counterexample.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var nthrootCmd = &cobra.Command{
	Use:   "nthroot Y N",
	Short: "Print the integer part of the N-th root of Y and whether it is exact",
	Args:  cobra.ExactArgs(2),
	RunE:  runNthRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	f := checkCmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML config file (flags override it)")
	f.StringVar(&cfg.Pool, "pool", cfg.Pool, "expression pool ("+strings.Join(pool.Names(), ", ")+")")
	f.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of random trees")
	f.IntVar(&cfg.MaxDepth, "maxdepth", cfg.MaxDepth, "max tree depth")
	f.IntVar(&cfg.Points, "points", cfg.Points, "evaluation points per tree")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = random)")
	f.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of parallel workers")
	f.StringVar(&cfg.Format, "format", cfg.Format, "output format (text, json)")
	f.Float64Var(&cfg.Tolerance, "tolerance", cfg.Tolerance, "relative tolerance of numeric comparisons")
	f.StringSliceVar(&cfg.Checks, "checks", nil, "checks to run ("+strings.Join(engine.CheckNames(), ", ")+"); default all")
	f.BoolVar(&noShrink, "no-shrink", false, "report failing trees without shrinking them")

	rootCmd.AddCommand(checkCmd, nthrootCmd)
}

// loadConfig merges the config file, if any, under the flags the user set.
func loadConfig(cmd *cobra.Command) (engine.Config, error) {
	if configPath == "" {
		out := cfg
		out.Shrink = !noShrink
		return out, nil
	}
	out, err := engine.LoadConfig(configPath)
	if err != nil {
		return out, err
	}
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}
	set("pool", func() { out.Pool = cfg.Pool })
	set("samples", func() { out.Samples = cfg.Samples })
	set("maxdepth", func() { out.MaxDepth = cfg.MaxDepth })
	set("points", func() { out.Points = cfg.Points })
	set("seed", func() { out.Seed = cfg.Seed })
	set("workers", func() { out.Workers = cfg.Workers })
	set("format", func() { out.Format = cfg.Format })
	set("tolerance", func() { out.Tolerance = cfg.Tolerance })
	set("checks", func() { out.Checks = cfg.Checks })
	set("no-shrink", func() { out.Shrink = !noShrink })
	return out, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if verbose {
		c.Verbose = true
	}
	e, err := engine.New(c, engine.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := e.Run(ctx)
	if err != nil {
		return err
	}

	switch c.Format {
	case "json":
		if err := engine.WriteJSON(os.Stdout, report); err != nil {
			return errors.Wrap(err, "error writing JSON")
		}
	default:
		engine.WriteText(os.Stdout, report)
	}
	if n := len(report.Failures); n > 0 {
		return errors.Errorf("%d check failures", n)
	}
	return nil
}

func runNthRoot(cmd *cobra.Command, args []string) error {
	y, ok := new(big.Int).SetString(args[0], 10)
	if !ok {
		return errors.Errorf("not an integer: %q", args[0])
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		return errors.Wrapf(err, "bad root degree %q", args[1])
	}
	root, exact, err := ntheory.IntegerNthRoot(y, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %t\n", root, exact)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
