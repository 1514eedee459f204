package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moviops/conductor/internal/db"
)

func newSeedCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo transport dataset",
		Long:  "Migrates the schema and inserts demo stops, routes, trips, vehicles and drivers. Safe to re-run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Conductor config file")
	return cmd
}

func runSeed(cmd *cobra.Command, configPath string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}
	if err := db.Seed(gormDB); err != nil {
		return err
	}

	fmt.Fprintln(out, "Demo dataset ready.")
	return nil
}
