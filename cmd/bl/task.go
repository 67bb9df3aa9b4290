package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/task"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Task management commands",
	}

	cmd.AddCommand(newTaskCreateCmd())
	cmd.AddCommand(newTaskListCmd())
	cmd.AddCommand(newTaskShowCmd())
	cmd.AddCommand(newTaskUpdateCmd())
	cmd.AddCommand(newTaskDeleteCmd())
	return cmd
}

func newTaskCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       task.CreateOpts
		status     string
		priority   string
		tags       string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new task",
		Long:  "Creates a task under a project, optionally labelled with tags.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDList(tags)
			if err != nil {
				return err
			}
			opts.TagIDs = ids
			opts.Status = models.TaskStatus(enumValue(status))
			opts.Priority = models.TaskPriority(enumValue(priority))
			return runTaskCreate(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&opts.Title, "title", "", "task title (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "task description (required)")
	cmd.Flags().StringVar(&status, "status", "", "status: pending, in_progress, completed")
	cmd.Flags().StringVar(&priority, "priority", "", "priority: low, medium, high")
	cmd.Flags().UintVar(&opts.ProjectID, "project", 0, "owning project ID (required)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tag IDs")
	return cmd
}

func runTaskCreate(cmd *cobra.Command, configPath string, opts task.CreateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	t, err := task.Create(gormDB, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created task %d\n", t.ID)
	return nil
}

func newTaskListCmd() *cobra.Command {
	var (
		configPath string
		filters    task.ListFilters
		status     string
		priority   string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long:  "Lists tasks, most recently created first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			filters.Status = models.TaskStatus(enumValue(status))
			filters.Priority = models.TaskPriority(enumValue(priority))
			return runTaskList(cmd, configPath, filters)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority")
	cmd.Flags().UintVar(&filters.ProjectID, "project", 0, "filter by project ID")
	cmd.Flags().UintVar(&filters.TagID, "tag", 0, "filter by tag ID")
	cmd.Flags().StringVar(&filters.Search, "search", "", "search title and description")
	return cmd
}

func runTaskList(cmd *cobra.Command, configPath string, filters task.ListFilters) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	tasks, err := task.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tPROJECT\tTAGS")
	for _, t := range tasks {
		projectName := "-"
		if t.Project != nil {
			projectName = truncate(t.Project.Name, 30)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, truncate(t.Title, 40), t.Status.Label(), t.Priority.Label(), projectName, tagNames(t.Tags))
	}
	w.Flush()
	return nil
}

func newTaskShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show task details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTaskShow(cmd, configPath, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func runTaskShow(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	t, err := task.Get(gormDB, id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", t.ID)
	fmt.Fprintf(out, "Title:       %s\n", t.Title)
	fmt.Fprintf(out, "Status:      %s\n", t.Status.Label())
	fmt.Fprintf(out, "Priority:    %s\n", t.Priority.Label())
	if t.Project != nil {
		fmt.Fprintf(out, "Project:     %d (%s)\n", t.ProjectID, t.Project.Name)
	} else {
		fmt.Fprintf(out, "Project:     %d\n", t.ProjectID)
	}
	fmt.Fprintf(out, "Tags:        %s\n", tagNames(t.Tags))
	fmt.Fprintf(out, "Created:     %s\n", t.CreatedAt.Format(timeLayout))
	fmt.Fprintf(out, "\nDescription:\n%s\n", t.Description)
	return nil
}

func newTaskUpdateCmd() *cobra.Command {
	var (
		configPath  string
		title       string
		description string
		status      string
		priority    string
		projectID   uint
		tags        string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a task",
		Long: `Updates only the task fields whose flags are given.

--tags replaces the task's whole tag set; pass --tags "" to clear it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var opts task.UpdateOpts
			changed := false
			flags := cmd.Flags()
			if flags.Changed("title") {
				opts.Title, changed = &title, true
			}
			if flags.Changed("description") {
				opts.Description, changed = &description, true
			}
			if flags.Changed("status") {
				s := models.TaskStatus(enumValue(status))
				opts.Status, changed = &s, true
			}
			if flags.Changed("priority") {
				p := models.TaskPriority(enumValue(priority))
				opts.Priority, changed = &p, true
			}
			if flags.Changed("project") {
				opts.ProjectID, changed = &projectID, true
			}
			if flags.Changed("tags") {
				ids, err := parseIDList(tags)
				if err != nil {
					return err
				}
				opts.TagIDs, changed = &ids, true
			}
			if !changed {
				return fmt.Errorf("no fields to update; use --title, --description, --status, --priority, --project, or --tags")
			}
			return runTaskUpdate(cmd, configPath, id, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().UintVar(&projectID, "project", 0, "move to project ID")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tag IDs replacing the current tags")
	return cmd
}

func runTaskUpdate(cmd *cobra.Command, configPath string, id uint, opts task.UpdateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	if _, err := task.Update(gormDB, id, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %d\n", id)
	return nil
}

func newTaskDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runTaskDelete(cmd, configPath, id, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runTaskDelete(cmd *cobra.Command, configPath string, id uint, yes bool) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	t, err := task.Get(gormDB, id)
	if err != nil {
		return err
	}
	ok, err := confirm(cmd, fmt.Sprintf("Deleting task %d %q.", id, t.Title), yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	if err := task.Delete(gormDB, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %d\n", id)
	return nil
}
