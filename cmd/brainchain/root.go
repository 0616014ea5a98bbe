package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/srijan-op/Brain-Chain/internal/config"
	"github.com/srijan-op/Brain-Chain/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "brainchain",
	Short:         "Brain-Chain routes questions through a team of LLM agents",
	Long:          `Brain-Chain answers free-text queries with a supervisor, an enhancer, a researcher, a coder and a validator working over one shared conversation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file")
}

// setup loads the configuration and builds the logger. With validate unset
// missing credentials are tolerated.
func setup(cmd *cobra.Command, validate bool) (*config.Config, *zap.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	load := config.Read
	if validate {
		load = config.Load
	}
	cfg, err := load(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
