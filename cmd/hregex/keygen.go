package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagKeygenClientOut string
	flagKeygenServerOut string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a client/server key pair",
	Long:  `keygen writes a client key and a server key to disk. The module ships only a mock backend, so the files record which backend produced them rather than secret material.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := writeKeyFile(flagKeygenClientOut); err != nil {
			return fmt.Errorf("writing client key: %w", err)
		}
		if err := writeKeyFile(flagKeygenServerOut); err != nil {
			return fmt.Errorf("writing server key: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote client key to %s and server key to %s\n", flagKeygenClientOut, flagKeygenServerOut)
		return nil
	},
}

func init() {
	keygenCmd.Flags().StringVar(&flagKeygenClientOut, "out-client", "client.key", "path to write the client key")
	keygenCmd.Flags().StringVar(&flagKeygenServerOut, "out-server", "server.key", "path to write the server key")
}
