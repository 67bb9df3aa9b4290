package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zulandar/backlot/internal/dashboard"
)

func newStatusCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show record counts",
		Long:  "Displays how many projects, assets, tasks, and tags the database holds.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func runStatus(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	s, err := dashboard.LoadSummary(gormDB)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Studio:    %s\n", cfg.Studio)
	fmt.Fprintf(out, "Database:  %s\n", databaseLabel(cfg.Database))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Projects:  %d\n", s.Projects)
	fmt.Fprintf(out, "Assets:    %d\n", s.Assets)
	fmt.Fprintf(out, "Tasks:     %d\n", s.Tasks)
	fmt.Fprintf(out, "Tags:      %d\n", s.Tags)
	return nil
}
