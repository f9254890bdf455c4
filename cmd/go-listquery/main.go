package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-listquery/pkg/config"
	"github.com/adfharrison1/go-listquery/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "go-listquery",
		Short:         "List query controller with a demo list API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./listquery.yaml)")

	load := func() (*config.Config, func(), error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, err
		}
		cleanup, err := logging.Init(logging.Options{
			Level:      cfg.Logger.Level,
			Format:     cfg.Logger.Format,
			Output:     cfg.Logger.Output,
			OutputFile: cfg.Logger.OutputFile,
		})
		if err != nil {
			return nil, nil, err
		}
		return cfg, cleanup, nil
	}

	rootCmd.AddCommand(
		newServeCmd(load),
		newBrowseCmd(load),
	)

	return rootCmd
}

type configLoader func() (*config.Config, func(), error)
