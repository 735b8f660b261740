package main

import (
	"fmt"

	"cast-receiver/internal/credentials"

	"github.com/spf13/cobra"
)

var serversCmd = &cobra.Command{
	Use:   "servers",
	Short: "List the media servers with configured credentials",
	RunE:  runServersCommand,
}

func init() {
	rootCmd.AddCommand(serversCmd)
}

func runServersCommand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadRuntime()
	if err != nil {
		return err
	}

	store := credentials.NewStore[credentials.ServerConfig]()
	if rejected := credentials.Seed(store, cfg.Servers); len(rejected) > 0 {
		logger.WithField("server_ids", rejected).Warn("Duplicate server credentials ignored")
	}

	if store.Len() == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No servers configured")
		return nil
	}

	for _, id := range store.ServerIDs() {
		server, _ := store.Get(id)
		secret := "no"
		if server.HasSecret() {
			secret = "yes"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\tclient=%s\tsecret=%s\n", id, server.ServerURL, server.ClientID, secret)
	}
	return nil
}
