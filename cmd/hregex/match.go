package main

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-fhe/hregex/ast"
	"github.com/go-fhe/hregex/engine"
	"github.com/go-fhe/hregex/fhe"
	"github.com/go-fhe/hregex/parser"
)

var (
	flagMatchServerKey         string
	flagMatchContent           string
	flagMatchPattern           string
	flagMatchDecryptKey        string
	flagMatchParallel          bool
	flagMatchInsecurePlaintext bool
	flagMatchAST               bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Evaluate a pattern against an encrypted content record",
	Long: `match runs the pattern through the engine against the given ciphertext record and prints the resulting ciphertext. With --decrypt-with, it also decrypts and prints the match bit.

--ast prints the normalized AST for the pattern and exits without evaluating anything.

--insecure-plaintext skips key files entirely: --content is read as literal ASCII text instead of a ciphertext record path, wrapped in the mock backend's CT with no real encryption, and the match bit is always decrypted and printed. It exists for iterating on a pattern without running keygen/encrypt first, and must never be used against real content.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagMatchAST {
			root, ignoreCase, err := parser.Parse(flagMatchPattern)
			if err != nil {
				return fmt.Errorf("parsing pattern: %w", err)
			}
			normalized, err := ast.Normalize(root, ignoreCase)
			if err != nil {
				return fmt.Errorf("normalizing pattern: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), ast.Dump(normalized))
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		var (
			content []fhe.CT
			sk      fhe.ServerKey
		)
		if flagMatchInsecurePlaintext {
			_, sk = fhe.NewMock()
			content = make([]fhe.CT, len(flagMatchContent))
			for i := 0; i < len(flagMatchContent); i++ {
				content[i] = fhe.UnmarshalMockCT(flagMatchContent[i])
			}
		} else {
			if err := readKeyFile(flagMatchServerKey); err != nil {
				return err
			}
			fileContent, err := readCiphertextFile(flagMatchContent)
			if err != nil {
				return err
			}
			content = fileContent
			_, sk = fhe.NewMock()
		}
		if len(content) > cfg.MaxContentLength {
			return fmt.Errorf("content length %d exceeds configured max_content_length %d", len(content), cfg.MaxContentLength)
		}

		parallel := flagMatchParallel || cfg.DefaultParallel

		result, err := engine.HasMatch(context.Background(), sk, content, flagMatchPattern, engine.Options{
			Parallel: parallel,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("evaluating pattern: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "match ciphertext: %s\n", hex.EncodeToString([]byte{fhe.MarshalMockCT(result)}))

		switch {
		case flagMatchInsecurePlaintext:
			ck, _ := fhe.NewMock()
			fmt.Fprintf(cmd.OutOrStdout(), "decrypted bit: %d\n", ck.Decrypt(result))
		case flagMatchDecryptKey != "":
			if err := readKeyFile(flagMatchDecryptKey); err != nil {
				return err
			}
			// The mock backend's client key carries no key material, so
			// loading the key file only validates its backend tag; the
			// key value itself comes straight from fhe.NewMock.
			ck, _ := fhe.NewMock()
			fmt.Fprintf(cmd.OutOrStdout(), "decrypted bit: %d\n", ck.Decrypt(result))
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&flagMatchServerKey, "server-key", "server.key", "path to the server key")
	matchCmd.Flags().StringVar(&flagMatchContent, "content", "content.ct", "path to the ciphertext record (or, with --insecure-plaintext, literal ASCII text)")
	matchCmd.Flags().StringVar(&flagMatchPattern, "pattern", "", "regex pattern, e.g. '/ab+c/i'")
	matchCmd.Flags().StringVar(&flagMatchDecryptKey, "decrypt-with", "", "path to a client key; if set, also prints the decrypted match bit")
	matchCmd.Flags().BoolVar(&flagMatchParallel, "parallel", false, "lower distinct paths concurrently")
	matchCmd.Flags().BoolVar(&flagMatchInsecurePlaintext, "insecure-plaintext", false, "treat --content as literal text and skip key files entirely; for pattern iteration only, never for real content")
	matchCmd.Flags().BoolVar(&flagMatchAST, "ast", false, "print the normalized AST for --pattern and exit")
	matchCmd.MarkFlagRequired("pattern")
}
