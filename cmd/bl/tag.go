package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/backlot/internal/tag"
)

func newTagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag management commands",
	}

	cmd.AddCommand(newTagCreateCmd())
	cmd.AddCommand(newTagListCmd())
	cmd.AddCommand(newTagShowCmd())
	cmd.AddCommand(newTagUpdateCmd())
	cmd.AddCommand(newTagDeleteCmd())
	return cmd
}

func newTagCreateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new tag",
		Long:  "Creates a tag. Names are unique ignoring case.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, gormDB, err := connectFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			t, err := tag.Create(gormDB, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag %d\n", t.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func newTagListCmd() *cobra.Command {
	var (
		configPath string
		search     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tags",
		Long:  "Lists tags alphabetically with the number of tasks using each.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTagList(cmd, configPath, tag.ListFilters{Search: search})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&search, "search", "", "search by name")
	return cmd
}

func runTagList(cmd *cobra.Command, configPath string, filters tag.ListFilters) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	tags, err := tag.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tags) == 0 {
		fmt.Fprintln(out, "No tags found.")
		return nil
	}

	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	counts, err := tag.TaskCounts(gormDB, ids)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTASKS")
	for _, t := range tags {
		fmt.Fprintf(w, "%d\t%s\t%d\n", t.ID, t.Name, counts[t.ID])
	}
	w.Flush()
	return nil
}

func newTagShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show tag details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			t, err := tag.Get(gormDB, id)
			if err != nil {
				return err
			}
			counts, err := tag.TaskCounts(gormDB, []uint{id})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %d\n", t.ID)
			fmt.Fprintf(out, "Name:        %s\n", t.Name)
			fmt.Fprintf(out, "Tasks:       %d\n", counts[id])
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func newTagUpdateCmd() *cobra.Command {
	var (
		configPath string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Rename a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") {
				return fmt.Errorf("no fields to update; use --name")
			}
			_, gormDB, err := connectFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			if _, err := tag.Update(gormDB, id, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated tag %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	return cmd
}

func newTagDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a tag",
		Long:  "Deletes a tag and removes it from every task. The tasks themselves are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			_, gormDB, err := connectFromConfig(cmd, configPath)
			if err != nil {
				return err
			}
			t, err := tag.Get(gormDB, id)
			if err != nil {
				return err
			}
			counts, err := tag.TaskCounts(gormDB, []uint{id})
			if err != nil {
				return err
			}
			warning := fmt.Sprintf("Deleting tag %d %q removes it from %d tasks.", id, t.Name, counts[id])
			ok, err := confirm(cmd, warning, yes)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			if err := tag.Delete(gormDB, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %d\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}
