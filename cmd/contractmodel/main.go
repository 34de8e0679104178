// Command contractmodel checks the sample escrow model.
//
//	contractmodel check --seed 42 --runs 500 --report counterexample.yaml
//	contractmodel replay counterexample.yaml
//
// Flags that are not given on the command line are read from the CONTRACTMODEL_* environment variables.
package main

import (
	"fmt"
	"os"

	contractmodel "github.com/andreabedini/quickcheck-contractmodel"
	"github.com/andreabedini/quickcheck-contractmodel/config"
	"github.com/andreabedini/quickcheck-contractmodel/examples/escrow"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var cfg = config.Defaults()

var rootCmd = &cobra.Command{
	Use:           "contractmodel",
	Short:         "Model based testing of the escrow contract model",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		env, err := config.FromEnv()
		if err != nil {
			return errors.Wrap(err, "configuration")
		}
		applyEnv(cmd.Flags(), env)
		return cfg.ConfigureLogging()
	},
}

// Copies the values of env into cfg for every flag that was not set on the command line.
func applyEnv(flags *pflag.FlagSet, env config.Env) {
	fromEnv := map[string]func(){
		"log-level":        func() { cfg.LogLevel = env.LogLevel },
		"seed":             func() { cfg.Seed = env.Seed },
		"runs":             func() { cfg.MaxRuns = env.MaxRuns },
		"size":             func() { cfg.MaxSize = env.MaxSize },
		"shrinks":          func() { cfg.MaxShrinks = env.MaxShrinks },
		"concurrent":       func() { cfg.NumConcurrent = env.NumConcurrent },
		"wait-probability": func() { cfg.WaitProbability = env.WaitProbability },
		"ignore-errors":    func() { cfg.IgnoreErrors = env.IgnoreErrors },
		"ignore-panics":    func() { cfg.IgnorePanics = env.IgnorePanics },
		"report":           func() { cfg.Report = env.Report },
	}
	for name, apply := range fromEnv {
		if !flags.Changed(name) {
			apply()
		}
	}
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the invariants of the escrow model against generated action sequences",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

var replayCmd = &cobra.Command{
	Use:   "replay <report>",
	Short: "Replay a counterexample exported by check",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts := cfg.Options()
	if cfg.Report != "" {
		f, err := os.Create(cfg.Report)
		if err != nil {
			return errors.Wrap(err, "report")
		}
		defer f.Close()
		opts = append(opts, contractmodel.Export(f))
	}

	c := contractmodel.Prepare[escrow.State, escrow.Action](escrow.New(), opts...)
	res := c.Check(contractmodel.Predicates[escrow.State, escrow.Action](escrow.Invariants()...))
	ok, desc := res.Response()
	fmt.Fprintln(cmd.OutOrStdout(), desc)
	if !ok {
		return errors.Errorf("property violated, repeat with --seed %v", c.Seed())
	}
	return nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrap(err, "replay")
	}
	err = contractmodel.ReplayReport[escrow.State, escrow.Action](escrow.New(), data, contractmodel.Predicates[escrow.State, escrow.Action](escrow.Invariants()...))
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Counterexample no longer fails")
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	checkCmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "Seed of the check (default: derived from the time)")
	checkCmd.Flags().IntVar(&cfg.MaxRuns, "runs", cfg.MaxRuns, "Number of runs")
	checkCmd.Flags().IntVar(&cfg.MaxSize, "size", cfg.MaxSize, "Maximum size of a generated action sequence")
	checkCmd.Flags().IntVar(&cfg.MaxShrinks, "shrinks", cfg.MaxShrinks, "Maximum number of shrinking steps")
	checkCmd.Flags().IntVar(&cfg.NumConcurrent, "concurrent", cfg.NumConcurrent, "Number of concurrent runs (default: GOMAXPROCS)")
	checkCmd.Flags().Float64Var(&cfg.WaitProbability, "wait-probability", cfg.WaitProbability, "Probability of generating a WaitUntil action")
	checkCmd.Flags().BoolVar(&cfg.IgnoreErrors, "ignore-errors", cfg.IgnoreErrors, "Keep running after a failing run")
	checkCmd.Flags().BoolVar(&cfg.IgnorePanics, "ignore-panics", cfg.IgnorePanics, "Let panics of the model propagate")
	checkCmd.Flags().StringVar(&cfg.Report, "report", cfg.Report, "Export the counterexample to this file")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
