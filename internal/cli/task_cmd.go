package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wilfredeveloper/barka-sub001/internal/cli/formatter"
	"github.com/wilfredeveloper/barka-sub001/internal/domain"
	"github.com/wilfredeveloper/barka-sub001/internal/service"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}

	cmd.AddCommand(
		newTaskAddCmd(app),
		newTaskListCmd(app),
		newTaskInspectCmd(app),
		newTaskStatusCmd(app),
		newTaskReopenCmd(app),
		newTaskProgressCmd(app),
		newTaskAssignCmd(app),
		newTaskUnassignCmd(app),
		newTaskDependCmd(app),
		newTaskBlockCmd(app),
		newTaskParentCmd(app),
		newTaskCommentCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var project, name, description, priority, complexity, assignee, parent, start, due string
	var estimate float64
	var dependsOn []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new task",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			projectID, err := resolveProjectID(ctx, app, cmd, project)
			if err != nil {
				return err
			}
			startDate, err := parseDateFlag(start)
			if err != nil {
				return err
			}
			dueDate, err := parseDateFlag(due)
			if err != nil {
				return err
			}

			in := service.CreateTaskInput{
				ProjectID:      projectID,
				Name:           name,
				Description:    description,
				Priority:       domain.Priority(priority),
				Complexity:     domain.Complexity(complexity),
				EstimatedHours: estimate,
				StartDate:      startDate,
				DueDate:        dueDate,
			}
			if assignee != "" {
				id, err := resolveMemberID(ctx, app, cmd, assignee)
				if err != nil {
					return err
				}
				in.AssignedTo = id
			}
			if parent != "" {
				id, err := resolveTaskID(ctx, app, cmd, parent)
				if err != nil {
					return err
				}
				in.ParentTaskID = id
			}
			for _, ref := range dependsOn {
				id, err := resolveTaskID(ctx, app, cmd, ref)
				if err != nil {
					return err
				}
				in.DependsOn = append(in.DependsOn, id)
			}

			t, err := app.Tasks.Create(ctx, callerFrom(cmd), in)
			if err != nil {
				return err
			}
			fmt.Printf("Created task %s %s\n", t.Name, formatter.TruncID(t.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Parent project (ID or name)")
	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&description, "description", "", "Task description")
	cmd.Flags().StringVar(&priority, "priority", "medium", "Priority: low, medium, high or critical")
	cmd.Flags().StringVar(&complexity, "complexity", "moderate", "Complexity: simple, moderate or complex")
	cmd.Flags().StringVar(&assignee, "assignee", "", "Assigned member (ID or name)")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task (ID or name)")
	cmd.Flags().StringSliceVar(&dependsOn, "depends-on", nil, "Tasks this task depends on")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "Estimated hours")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var tasks []*domain.Task
			var err error
			if project != "" {
				projectID, rerr := resolveProjectID(ctx, app, cmd, project)
				if rerr != nil {
					return rerr
				}
				tasks, err = app.Tasks.ListByProject(ctx, callerFrom(cmd), projectID)
			} else {
				tasks, err = app.Tasks.List(ctx, callerFrom(cmd))
			}
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskList(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Limit to one project (ID or name)")
	return cmd
}

func newTaskInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <task>",
		Short: "Show a task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			detail, err := app.Tasks.Get(ctx, callerFrom(cmd), id)
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatTaskDetail(detail))
			return nil
		},
	}
}

func newTaskStatusCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "status <task> <status>",
		Short: "Transition a task's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.TransitionStatus(ctx, callerFrom(cmd), id, domain.TaskStatus(args[1]), reason)
			if err != nil {
				return err
			}
			fmt.Printf("%s is now %s\n", t.Name, formatter.TaskStatusPill(t.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the status history")
	return cmd
}

func newTaskReopenCmd(app *App) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "reopen <task>",
		Short: "Force a completed or cancelled task back to in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			t, err := app.Tasks.Reopen(ctx, callerFrom(cmd), id, reason)
			if err != nil {
				return err
			}
			fmt.Printf("%s reopened\n", t.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason for reopening (required)")
	_ = cmd.MarkFlagRequired("reason")
	return cmd
}

func newTaskProgressCmd(app *App) *cobra.Command {
	var pct, spent, remaining float64

	cmd := &cobra.Command{
		Use:   "progress <task>",
		Short: "Record task progress",
		Long: "Record progress either directly with --pct, or with both --spent and\n" +
			"--remaining, which derive the percentage from the time figures.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}

			var in service.ProgressUpdate
			if cmd.Flags().Changed("pct") {
				in.CompletionPercentage = &pct
			}
			if cmd.Flags().Changed("spent") {
				in.TimeSpent = &spent
			}
			if cmd.Flags().Changed("remaining") {
				in.RemainingWork = &remaining
			}

			t, err := app.Tasks.UpdateProgress(ctx, callerFrom(cmd), id, in)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", t.Name, formatter.RenderProgress(t.Progress.CompletionPercentage/100, 20))
			return nil
		},
	}

	cmd.Flags().Float64Var(&pct, "pct", 0, "Completion percentage (0-100)")
	cmd.Flags().Float64Var(&spent, "spent", 0, "Hours spent")
	cmd.Flags().Float64Var(&remaining, "remaining", 0, "Hours remaining")
	return cmd
}

func newTaskAssignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <task> <member>",
		Short: "Assign a task to a team member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			memberID, err := resolveMemberID(ctx, app, cmd, args[1])
			if err != nil {
				return err
			}
			if err := app.Tasks.Assign(ctx, callerFrom(cmd), taskID, memberID); err != nil {
				return err
			}
			fmt.Println("Task assigned")
			return nil
		},
	}
}

func newTaskUnassignCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task>",
		Short: "Clear a task's assignee",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Unassign(ctx, callerFrom(cmd), taskID); err != nil {
				return err
			}
			fmt.Println("Task unassigned")
			return nil
		},
	}
}

func newTaskDependCmd(app *App) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "depend <task> <depends-on>",
		Short: "Add or remove a dependency edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			otherID, err := resolveTaskID(ctx, app, cmd, args[1])
			if err != nil {
				return err
			}
			if remove {
				if err := app.Graph.RemoveDependency(ctx, callerFrom(cmd), taskID, otherID); err != nil {
					return err
				}
				fmt.Println("Dependency removed")
				return nil
			}
			if err := app.Graph.AddDependency(ctx, callerFrom(cmd), taskID, otherID); err != nil {
				return err
			}
			fmt.Println("Dependency added")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the edge instead of adding it")
	return cmd
}

func newTaskBlockCmd(app *App) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "block <task> <blocker>",
		Short: "Add or remove a blocker edge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			blockerID, err := resolveTaskID(ctx, app, cmd, args[1])
			if err != nil {
				return err
			}
			if remove {
				if err := app.Graph.RemoveBlocker(ctx, callerFrom(cmd), taskID, blockerID); err != nil {
					return err
				}
				fmt.Println("Blocker removed")
				return nil
			}
			if err := app.Graph.AddBlocker(ctx, callerFrom(cmd), taskID, blockerID); err != nil {
				return err
			}
			fmt.Println("Blocker added")
			return nil
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the edge instead of adding it")
	return cmd
}

func newTaskParentCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "parent <task> [parent]",
		Short: "Set or clear a task's parent",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if clear {
				if err := app.Graph.ClearParent(ctx, callerFrom(cmd), taskID); err != nil {
					return err
				}
				fmt.Println("Parent cleared")
				return nil
			}
			if len(args) < 2 {
				return fmt.Errorf("parent task is required (or pass --clear)")
			}
			parentID, err := resolveTaskID(ctx, app, cmd, args[1])
			if err != nil {
				return err
			}
			if err := app.Graph.SetParent(ctx, callerFrom(cmd), taskID, parentID); err != nil {
				return err
			}
			fmt.Println("Parent set")
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the parent reference")
	return cmd
}

func newTaskCommentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <task> <body>",
		Short: "Add a comment to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			taskID, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Comment(ctx, callerFrom(cmd), taskID, args[1]); err != nil {
				return err
			}
			fmt.Println("Comment added")
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <task>",
		Short: "Move a task to trash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveTaskID(ctx, app, cmd, args[0])
			if err != nil {
				return err
			}
			if err := confirmDestructive(cmd, app, "Move this task to trash?"); err != nil {
				return err
			}
			if err := app.Tasks.Delete(ctx, callerFrom(cmd), id); err != nil {
				return err
			}
			fmt.Println("Task moved to trash")
			return nil
		},
	}
}
