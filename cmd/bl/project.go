package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zulandar/backlot/internal/models"
	"github.com/zulandar/backlot/internal/project"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project management commands",
	}

	cmd.AddCommand(newProjectCreateCmd())
	cmd.AddCommand(newProjectListCmd())
	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectUpdateCmd())
	cmd.AddCommand(newProjectDeleteCmd())
	return cmd
}

func newProjectCreateCmd() *cobra.Command {
	var (
		configPath string
		opts       project.CreateOpts
		startDate  string
		status     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new project",
		Long:  "Creates a project together with its technical details (platform, engine, team size).",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(startDate)
			if err != nil {
				return err
			}
			opts.StartDate = start
			opts.Status = models.ProjectStatus(enumValue(status))
			return runProjectCreate(cmd, configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "project name (required)")
	cmd.Flags().StringVar(&opts.Description, "description", "", "project description (required)")
	cmd.Flags().StringVar(&startDate, "start-date", "", "start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&status, "status", "", "status (planning, in_development, testing, finished)")
	cmd.Flags().StringVar(&opts.Platform, "platform", "", "target platform (required)")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "game engine (required)")
	cmd.Flags().IntVar(&opts.TeamSize, "team-size", models.MinTeamSize, "team size")
	return cmd
}

func runProjectCreate(cmd *cobra.Command, configPath string, opts project.CreateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	p, err := project.Create(gormDB, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %d\n", p.ID)
	return nil
}

func newProjectListCmd() *cobra.Command {
	var (
		configPath string
		status     string
		search     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		Long:  "Lists projects, newest start date first, with their asset and task counts.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProjectList(cmd, configPath, project.ListFilters{
				Status: models.ProjectStatus(enumValue(status)),
				Search: search,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&search, "search", "", "search name and description")
	return cmd
}

func runProjectList(cmd *cobra.Command, configPath string, filters project.ListFilters) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	projects, err := project.List(gormDB, filters)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	ids := make([]uint, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	counts, err := project.Counts(gormDB, ids)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tSTART\tPLATFORM\tENGINE\tTEAM\tASSETS\tTASKS")
	for _, p := range projects {
		platform, engine, team := "-", "-", 0
		if p.Detail != nil {
			platform, engine, team = p.Detail.Platform, p.Detail.Engine, p.Detail.TeamSize
		}
		n := counts[p.ID]
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			p.ID, truncate(p.Name, 40), p.Status.Label(), p.StartDate.Format(models.DateLayout),
			platform, engine, team, n.Assets, n.Tasks)
	}
	w.Flush()
	return nil
}

func newProjectShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runProjectShow(cmd, configPath, id)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	return cmd
}

func runProjectShow(cmd *cobra.Command, configPath string, id uint) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	p, err := project.Get(gormDB, id)
	if err != nil {
		return err
	}
	counts, err := project.Counts(gormDB, []uint{id})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:          %d\n", p.ID)
	fmt.Fprintf(out, "Name:        %s\n", p.Name)
	fmt.Fprintf(out, "Status:      %s\n", p.Status.Label())
	fmt.Fprintf(out, "Start date:  %s\n", p.StartDate.Format(models.DateLayout))
	if p.Detail != nil {
		fmt.Fprintf(out, "Platform:    %s\n", p.Detail.Platform)
		fmt.Fprintf(out, "Engine:      %s\n", p.Detail.Engine)
		fmt.Fprintf(out, "Team size:   %d\n", p.Detail.TeamSize)
	}
	fmt.Fprintf(out, "Assets:      %d\n", counts[id].Assets)
	fmt.Fprintf(out, "Tasks:       %d\n", counts[id].Tasks)
	fmt.Fprintf(out, "\nDescription:\n%s\n", p.Description)
	return nil
}

func newProjectUpdateCmd() *cobra.Command {
	var (
		configPath  string
		name        string
		description string
		startDate   string
		status      string
		platform    string
		engine      string
		teamSize    int
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a project",
		Long:  "Updates only the project and detail fields whose flags are given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var opts project.UpdateOpts
			changed := false
			flags := cmd.Flags()
			if flags.Changed("name") {
				opts.Name, changed = &name, true
			}
			if flags.Changed("description") {
				opts.Description, changed = &description, true
			}
			if flags.Changed("start-date") {
				start, err := parseDate(startDate)
				if err != nil {
					return err
				}
				opts.StartDate, changed = &start, true
			}
			if flags.Changed("status") {
				s := models.ProjectStatus(enumValue(status))
				opts.Status, changed = &s, true
			}
			if flags.Changed("platform") {
				opts.Platform, changed = &platform, true
			}
			if flags.Changed("engine") {
				opts.Engine, changed = &engine, true
			}
			if flags.Changed("team-size") {
				opts.TeamSize, changed = &teamSize, true
			}
			if !changed {
				return fmt.Errorf("no fields to update; use --name, --description, --start-date, --status, --platform, --engine, or --team-size")
			}
			return runProjectUpdate(cmd, configPath, id, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&startDate, "start-date", "", "new start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&platform, "platform", "", "new platform")
	cmd.Flags().StringVar(&engine, "engine", "", "new engine")
	cmd.Flags().IntVar(&teamSize, "team-size", 0, "new team size")
	return cmd
}

func runProjectUpdate(cmd *cobra.Command, configPath string, id uint, opts project.UpdateOpts) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	if _, err := project.Update(gormDB, id, opts); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated project %d\n", id)
	return nil
}

func newProjectDeleteCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Long:  "Deletes a project along with its details, assets, and tasks. Tags are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return runProjectDelete(cmd, configPath, id, yes)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to Backlot config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation prompt")
	return cmd
}

func runProjectDelete(cmd *cobra.Command, configPath string, id uint, yes bool) error {
	_, gormDB, err := connectFromConfig(cmd, configPath)
	if err != nil {
		return err
	}

	p, err := project.Get(gormDB, id)
	if err != nil {
		return err
	}
	counts, err := project.Counts(gormDB, []uint{id})
	if err != nil {
		return err
	}
	warning := fmt.Sprintf("Deleting project %d %q also deletes %d assets and %d tasks.",
		id, p.Name, counts[id].Assets, counts[id].Tasks)
	ok, err := confirm(cmd, warning, yes)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
		return nil
	}

	if err := project.Delete(gormDB, id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d\n", id)
	return nil
}
