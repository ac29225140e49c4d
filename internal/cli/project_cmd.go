package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wilfredeveloper/barka-sub001/internal/cli/formatter"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

// parseDateFlag parses an optional YYYY-MM-DD flag value.
func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return &t, nil
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectStatusCmd(app),
		newProjectProgressCmd(app),
		newProjectTeamCmd(app),
		newProjectMilestoneCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, description, priority, manager, start, due string
	var budget float64
	var team []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			dueDate, err := parseDateFlag(due)
			if err != nil {
				return err
			}

			in := service.CreateProjectInput{
				Name:        name,
				Description: description,
				Priority:    domain.Priority(priority),
				StartDate:   startDate,
				DueDate:     dueDate,
				Budget:      budget,
			}
			for _, ref := range team {
				id, err := resolveMemberID(ctx, app, cmd, ref)
				if err != nil {
					return err
				}
				in.TeamMemberIDs = append(in.TeamMemberIDs, id)
			}
			if manager != "" {
				id, err := resolveMemberID(ctx, app, cmd, manager)
				if err != nil {
					return err
				}
				in.ProjectManagerID = id
			}

			p, err := app.Projects.Create(ctx, callerFrom(cmd), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s %s\n", p.Name, formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&description, "description", "", "Project description")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: low, medium, high or critical")
	cmd.Flags().StringVar(&manager, "manager", "", "Project manager (member ID or name)")
	cmd.Flags().StringSliceVar(&team, "team", nil, "Team members (member IDs or names)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Budget")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background(), callerFrom(cmd))
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <project>",
		Short: "Show a project in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			detail, err := app.Projects.Get(ctx, callerFrom(cmd), id)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatProjectDetail(detail))
			return nil
		},
	}
}

func newProjectStatusCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status <project> <status>",
		Short: "Transition a project's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.TransitionStatus(ctx, callerFrom(cmd), id, domain.ProjectStatus(args[1]), reason)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", p.Name, formatter.ProjectStatusPill(p.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the status history")
	return cmd
}

func newProjectProgressCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "progress <project>",
		Short: "Recompute project progress from its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			pct, err := app.Projects.RecomputeProgress(ctx, callerFrom(cmd), id)
			if err != nil {
				return err
			}
			fmt.Printf("Progress %s\n", formatter.RenderProgress(pct/100, 20))
			return nil
		},
	}
}

func newProjectTeamCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Manage project team membership",
	}

	add := &cobra.Command{
		Use:   "add <project> <member>",
		Short: "Add a member to the project team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			memberID, err := resolveMemberID(ctx, app, cmd, args[1])
			if err != nil {
				return err
			}
			if err := app.Projects.AddTeamMember(ctx, callerFrom(cmd), projectID, memberID); err != nil {
				return err
			}
			fmt.Println("Team member added")
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <project> <member>",
		Short: "Remove a member from the project team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			memberID, err := resolveMemberID(ctx, app, cmd, args[1])
			if err != nil {
				return err
			}
			if err := app.Projects.RemoveTeamMember(ctx, callerFrom(cmd), projectID, memberID); err != nil {
				return err
			}
			fmt.Println("Team member removed")
			return nil
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func newProjectMilestoneCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone",
		Short: "Manage project milestones",
	}

	var due string
	add := &cobra.Command{
		Use:   "add <project> <name>",
		Short: "Add a milestone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			dueDate, err := parseDateFlag(due)
			if err != nil {
				return err
			}
			m := domain.Milestone{Name: args[1], DueDate: dueDate, Status: domain.MilestonePending}
			if err := app.Projects.AddMilestone(ctx, callerFrom(cmd), projectID, m); err != nil {
				return err
			}
			fmt.Printf("Added milestone %s\n", args[1])
			return nil
		},
	}
	add.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")

	complete := &cobra.Command{
		Use:   "complete <project> <name>",
		Short: "Mark a milestone completed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.CompleteMilestone(ctx, callerFrom(cmd), projectID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Completed milestone %s\n", args[1])
			return nil
		},
	}

	cmd.AddCommand(add, complete)
	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project>",
		Short: "Move a project to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if err := confirmDestructive(cmd, app, "Move this project to trash?"); err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, callerFrom(cmd), id); err != nil {
				return err
			}
			fmt.Println("Project moved to trash")
			return nil
		},
	}
}
