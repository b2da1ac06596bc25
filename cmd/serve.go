package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gridmc/core"
	"gridmc/server"
)

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the trainer over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Optional .env overrides for deployments that don't pass flags.
			godotenv.Load()
			addr := flags.Addr
			if v := os.Getenv("GRIDMC_ADDR"); v != "" {
				addr = v
			}
			origin := flags.AllowOrigin
			if v := os.Getenv("GRIDMC_ALLOW_ORIGIN"); v != "" {
				origin = v
			}

			trainer, err := core.NewTrainer(core.DefaultGridConfig(), flags.Seed)
			if err != nil {
				return err
			}

			srv := server.New(addr, origin, trainer)
			srv.Start()
			log.Printf("listening on %s", addr)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			<-sigCh

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	return cmd
}
