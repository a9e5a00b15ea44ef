package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-catalog-cache/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the catalog configuration",
	}
	cmd.AddCommand(configValidateCmd())
	return cmd
}

func configValidateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Load and validate a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := GetConfigPath(configPath)
			cfg, err := config.LoadConfig(path, zap.NewNop())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (cache enabled=%t capacity=%d ttl=%s, storage=%s, audit=%s)\n",
				path, cfg.Cache.IsEnabled(), cfg.Cache.GetCapacity(), cfg.Cache.GetTTL(),
				cfg.Storage.Driver, cfg.Audit.Sink)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the YAML config")
	return cmd
}
