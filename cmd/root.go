package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gridmc",
		Short: "Monte Carlo gridworld trainer",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			UpdateFlags()
			if err := flags.Record(); err != nil {
				log.Printf("recording config: %v", err)
			}
		},
	}
	AddFlags(cmd)

	cmd.AddCommand(
		ServeCommand(),
		TrainCommand(),
		CompareCommand(),
	)

	return cmd
}
