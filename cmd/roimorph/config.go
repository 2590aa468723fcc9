package main

import (
	"github.com/spf13/cobra"

	"roimorph/pkg/config"
)

func newConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the roimorph configuration file",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfigFile(flagConfig); err != nil {
				return err
			}
			logger.Info("wrote default configuration", "path", flagConfig)
			return nil
		},
	})

	return cmd
}
