package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"geoprove/internal/config"
	"geoprove/internal/problem"
	"geoprove/internal/reason"
	"geoprove/internal/rules"
	"geoprove/internal/solver"
)

var (
	// Global flags
	verbose       bool
	configPath    string
	maxIterations int
	noNumeric     bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "geoprove",
	Short: "geoprove - deductive geometry theorem prover",
	Long: `geoprove runs forward-chaining deduction over geometric facts until it
either reaches the stated goals or exhausts its iteration budget. When
deduction stalls it consults external reasoners: a coordinate-based
algebraic reasoner, and optionally an LLM construction proposer.

Every derived fact carries full provenance, so solved goals come with a
step-by-step proof referencing only earlier steps.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve [problem-file]",
	Short: "Solve a geometry problem and print proofs for its goals",
	Long: `Reads a problem file (points:, axioms:, goals: sections), runs the
solver, and prints the proof of each goal if solved.

Exits with status 1 when the problem could not be solved.`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if maxIterations > 0 {
		cfg.Solver.MaxIterations = maxIterations
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open problem %s: %w", args[0], err)
	}
	prob, err := problem.Parse(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("parse problem %s: %w", args[0], err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := rules.Geometry()
	opts := solver.Options{
		Logger: logger,
		Trace:  os.Stdout,
	}
	if !noNumeric {
		opts.Algebraic = reason.NewCoordinate(reg)
	}
	if key := os.Getenv(cfg.LLM.APIKeyEnv); key != "" {
		proposer, err := reason.NewGeminiProposer(ctx, key, cfg.LLM.Model)
		if err != nil {
			return err
		}
		opts.Proposer = proposer
	}

	// The trace writer prints iteration progress and the proof of each
	// goal, so nothing is re-printed here.
	res, err := solver.New(reg, cfg, opts).Solve(ctx, prob)
	if err != nil {
		return err
	}
	if !res.Solved {
		os.Exit(1)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	solveCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "override the iteration budget")
	solveCmd.Flags().BoolVar(&noNumeric, "no-numeric", false, "disable the coordinate algebraic reasoner")
	rootCmd.AddCommand(solveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
