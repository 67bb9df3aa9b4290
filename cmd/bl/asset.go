package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/backlot/internal/asset"
	"github.com/zulandar/backlot/internal/models"
)

func newAssetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Asset management commands",
	}

	cmd.AddCommand(newAssetCreateCmd())
	cmd.AddCommand(newAssetListCmd())
	cmd.AddCommand(newAssetShowCmd())
	cmd.AddCommand(newAssetUpdateCmd())
	cmd.AddCommand(newAssetDeleteCmd())
	return cmd
}

func newAssetCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       asset.CreateOpts
		assetType  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new asset",
		Long:  "Registers an asset (sprite, audio, music, 3D model, or other) under a project.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Type = models.AssetType(enumValue(assetType))
			return runAssetCreate(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "asset name (required)")
	cmd.Flags().StringVar(&assetType, "type", "", "asset type: sprite, audio, music, model_3d, other (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "asset description")
	cmd.Flags().UintVar(&opts.ProjectID, "project", 0, "owning project ID (required)")
	return cmd
}

func runAssetCreate(cmd *cobra.Command, configPath string, opts asset.CreateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	a, err := asset.Create(gormDB, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created asset %d\n", a.ID)
	return nil
}

func newAssetListCmd() *cobra.Command {
	var (
		configPath string
		assetType  string
		projectID  uint
		search     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List assets",
		Long:  "Lists assets, most recently created first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssetList(cmd, configPath, asset.ListFilters{
				Type:      models.AssetType(enumValue(assetType)),
				ProjectID: projectID,
				Search:    search,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&assetType, "type", "", "filter by type")
	cmd.Flags().UintVar(&projectID, "project", 0, "filter by project ID")
	cmd.Flags().StringVar(&search, "search", "", "search name and description")
	return cmd
}

func runAssetList(cmd *cobra.Command, configPath string, filters asset.ListFilters) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	assets, err := asset.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(assets) == 0 {
		fmt.Fprintln(out, "No assets found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTYPE\tPROJECT\tCREATED")
	for _, a := range assets {
		projectName := "-"
		if a.Project != nil {
			projectName = truncate(a.Project.Name, 30)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			a.ID, truncate(a.Name, 40), a.Type.Label(), projectName, a.CreatedAt.Format(timeLayout))
	}
	w.Flush()
	return nil
}

func newAssetShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show asset details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runAssetShow(cmd, configPath, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func runAssetShow(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	a, err := asset.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", a.ID)
	fmt.Fprintf(out, "Asset:       %s\n", a.DisplayName())
	if a.Project != nil {
		fmt.Fprintf(out, "Project:     %d (%s)\n", a.ProjectID, a.Project.Name)
	} else {
		fmt.Fprintf(out, "Project:     %d\n", a.ProjectID)
	}
	fmt.Fprintf(out, "Created:     %s\n", a.CreatedAt.Format(timeLayout))
	if a.Description != "" {
		fmt.Fprintf(out, "\nDescription:\n%s\n", a.Description)
	}
	return nil
}

func newAssetUpdateCmd() *cobra.Command {
	var (
		configPath  string
		name        string
		assetType   string
		description string
		projectID   uint
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an asset",
		Long:  "Updates only the asset fields whose flags are given. The creation time never changes.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var opts asset.UpdateOpts
			changed := false
			flags := cmd.Flags()
			if flags.Changed("name") {
				opts.Name, changed = &name, true
			}
			if flags.Changed("type") {
				t := models.AssetType(enumValue(assetType))
				opts.Type, changed = &t, true
			}
			if flags.Changed("description") {
				opts.Description, changed = &description, true
			}
			if flags.Changed("project") {
				opts.ProjectID, changed = &projectID, true
			}
			if !changed {
				return fmt.Errorf("no fields to update; use --name, --type, --description, or --project")
			}
			return runAssetUpdate(cmd, configPath, id, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&assetType, "type", "", "new type")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().UintVar(&projectID, "project", 0, "move to project ID")
	return cmd
}

func runAssetUpdate(cmd *cobra.Command, configPath string, id uint, opts asset.UpdateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	if _, err := asset.Update(gormDB, id, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated asset %d\n", id)
	return nil
}

func newAssetDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runAssetDelete(cmd, configPath, id, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runAssetDelete(cmd *cobra.Command, configPath string, id uint, yes bool) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	a, err := asset.Get(gormDB, id)
	if err != nil {
		return err
	}
	ok, err := confirm(cmd, fmt.Sprintf("Deleting asset %d %s.", id, a.DisplayName()), yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	if err := asset.Delete(gormDB, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted asset %d\n", id)
	return nil
}
