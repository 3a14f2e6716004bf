package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/go-fhe/hregex/config"
)

var (
	version = "dev"

	flagConfigPath string
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:     "hregex",
	Short:   "Homomorphic regex matching over encrypted content",
	Long:    `hregex generates keys, encrypts ASCII content, and evaluates a regex pattern against it without ever decrypting the content.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(matchCmd)
}

// loadConfig reads the config file (if any) and layers the persistent
// --log-level flag on top, the way the rest of the corpus merges a
// flags map over a file-backed struct with mapstructure.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	overrides := map[string]any{}
	if flagLogLevel != "" {
		overrides["log_level"] = flagLogLevel
	}
	cfg, err = config.Merge(cfg, overrides)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// newLogger builds a zap logger at the configured level: development
// (console) for debug, production (JSON) otherwise.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogLevel == "debug" {
		return zap.NewDevelopment()
	}
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.LogLevel, err)
	}
	prodCfg := zap.NewProductionConfig()
	prodCfg.Level = level
	return prodCfg.Build()
}
