package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gridmc/analysis"
	"gridmc/core"
	"gridmc/experiment"
)

func CompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Train the same grid under several learning rates and compare",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.ValidateCompare(); err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			comp := experiment.NewComparison()
			for i, alpha := range flags.Alphas {
				comp.AddExperiment(&experiment.Experiment{
					Name: fmt.Sprintf("alpha-%g", alpha),
					Grid: core.DefaultGridConfig(),
					Params: core.TrainParams{
						Episodes:  flags.Episodes,
						Alpha:     alpha,
						EvalEvery: flags.EvalEvery,
						NEval:     flags.NEval,
					},
					Seed: flags.Seed + uint64(i),
				})
			}
			comp.AddAnalyzer("reward", func() analysis.Analyzer {
				return analysis.NewRewardAnalyzer(flags.EvalEvery)
			})

			results, err := comp.Run(ctx, &experiment.RunConfig{
				NEvalFinal: flags.NEval,
				SavePath:   flags.SavePath,
				Progress:   true,
			}, flags.Parallelism)
			if err != nil {
				return err
			}

			for _, r := range results {
				if r.IsError() {
					fmt.Printf("%s: error: %v\n", r.Name, r.Err)
					continue
				}
				fmt.Printf("%s: final greedy return %.2f over %d episodes\n", r.Name, r.FinalEval, r.Episodes)
			}
			return nil
		},
	}

	return cmd
}
