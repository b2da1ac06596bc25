package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"

	"gridmc/analysis"
	"gridmc/core"
	"gridmc/util"
)

func TrainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Run one offline training session and record the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.ValidateTrain(); err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			trainer, err := core.NewTrainer(core.DefaultGridConfig(), flags.Seed)
			if err != nil {
				return err
			}

			rewards := analysis.NewRewardAnalyzer(flags.EvalEvery)
			visits := analysis.NewVisitAnalyzer()
			trainer.AddObserver(rewards)
			trainer.AddObserver(visits)

			params := core.TrainParams{
				Alpha:     flags.Alpha,
				EvalEvery: flags.EvalEvery,
				NEval:     flags.NEval,
			}

			writer := uilive.New()
			writer.Start()

			// Train in evaluation-sized chunks so progress stays live and an
			// interrupt lands between chunks, never inside one.
			remaining := flags.Episodes
			for remaining > 0 {
				select {
				case <-ctx.Done():
					writer.Stop()
					return ctx.Err()
				default:
				}

				params.Episodes = flags.EvalEvery
				if params.Episodes > remaining {
					params.Episodes = remaining
				}
				if err := trainer.Train(params); err != nil {
					writer.Stop()
					return err
				}
				remaining -= params.Episodes

				fmt.Fprintf(writer, "Episode %d/%d, Epsilon: %.3f\n",
					trainer.Episode(), flags.Episodes, trainer.EpsilonAt(trainer.Episode()))
			}
			writer.Stop()

			finalEval, err := trainer.Evaluate(flags.NEval)
			if err != nil {
				return err
			}
			fmt.Printf("trained %d episodes, final greedy return %.2f\n", trainer.Episode(), finalEval)

			if err := util.SaveJson(path.Join(flags.SavePath, "snapshot.json"), trainer.Snapshot()); err != nil {
				return err
			}
			datasets := map[string]interface{}{
				"reward": rewards.DataSet(),
				"visits": visits.DataSet(),
			}
			return util.SaveJson(path.Join(flags.SavePath, "datasets.json"), datasets)
		},
	}

	return cmd
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
