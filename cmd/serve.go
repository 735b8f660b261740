package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"cast-receiver/internal/receiver"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the device class detector and the local API",
	RunE:  runServeCommand,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return receiver.NewManager(cfg, logger).Run(ctx)
}
