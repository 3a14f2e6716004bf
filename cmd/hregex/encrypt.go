package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-fhe/hregex/engine"
)

var (
	flagEncryptClientKey string
	flagEncryptContent   string
	flagEncryptOut       string
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt ASCII content into a ciphertext record",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := readKeyFile(flagEncryptClientKey); err != nil {
			return err
		}
		ck, _ := engine.GenKeys()
		ct, err := engine.EncryptASCII(ck, flagEncryptContent)
		if err != nil {
			return fmt.Errorf("encrypting content: %w", err)
		}
		if err := writeCiphertextFile(flagEncryptOut, ct); err != nil {
			return fmt.Errorf("writing ciphertext record: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d ciphertext bytes to %s\n", len(ct), flagEncryptOut)
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVar(&flagEncryptClientKey, "client-key", "client.key", "path to the client key")
	encryptCmd.Flags().StringVar(&flagEncryptContent, "content", "", "ASCII content to encrypt")
	encryptCmd.Flags().StringVar(&flagEncryptOut, "out", "content.ct", "path to write the ciphertext record")
	encryptCmd.MarkFlagRequired("content")
}
