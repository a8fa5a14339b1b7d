// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the dealio CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/markzm/dealio/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is the process-wide structured logger, built in PersistentPreRunE.
var logger *zap.Logger

// rootCmd is the base command for the dealio CLI.
var rootCmd = &cobra.Command{
	Use:   "dealio",
	Short: "Misinformation and bias analysis for URLs and rumors",
	Long: `dealio analyzes a URL or a text rumor for misinformation and bias using a
classification provider and up to two search-capable article providers.

Run the HTTP service with "dealio serve", or analyze a single claim from the
terminal with "dealio analyze". Validated results are cached for an hour so
identical viral claims do not trigger redundant paid API calls.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env values feed the DEALIO_* environment lookup below.
		_ = godotenv.Load()

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		logger, err = buildLogger(cmd)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func buildLogger(cmd *cobra.Command) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./dealio.yaml or ~/.config/dealio/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("dealio")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "dealio"))
		}
	}

	viper.SetEnvPrefix("DEALIO")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
